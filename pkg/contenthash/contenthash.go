// Package contenthash implements the Dropbox content_hash algorithm used
// to verify file content after transfer.
//
// The input is split into 4 MiB blocks. Each block is hashed with
// SHA-256, the block digests are concatenated in order, and the
// concatenation is hashed with SHA-256 once more. The hex encoding of
// that final digest is the value the API reports as content_hash.
//
// Reference: https://www.dropbox.com/developers/reference/content-hash
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

const (
	// Size is the length, in bytes, of a content hash digest.
	Size = sha256.Size

	// BlockSize is the block length the input is split into, in bytes.
	BlockSize = 4 * 1024 * 1024
)

// digest is the internal state of a content hash computation.
// Completed block digests are retained (32 bytes per 4 MiB of input) so
// Sum can be called without disturbing the running state.
type digest struct {
	blocks   [][Size]byte
	block    hash.Hash
	blockLen int
}

// New returns a new hash.Hash computing the Dropbox content hash.
func New() hash.Hash {
	return &digest{block: sha256.New()}
}

// Write absorbs more data into the running hash.
// It always returns len(p), nil.
func (d *digest) Write(p []byte) (int, error) {
	written := len(p)

	for len(p) > 0 {
		n := BlockSize - d.blockLen
		if n > len(p) {
			n = len(p)
		}

		d.block.Write(p[:n])
		d.blockLen += n
		p = p[n:]

		if d.blockLen == BlockSize {
			d.blocks = append(d.blocks, [Size]byte(d.block.Sum(nil)))
			d.block.Reset()
			d.blockLen = 0
		}
	}

	return written, nil
}

// Sum appends the current digest to b and returns the resulting slice.
// The underlying state is not changed, so more data can be written after.
func (d *digest) Sum(b []byte) []byte {
	outer := sha256.New()

	for i := range d.blocks {
		outer.Write(d.blocks[i][:])
	}

	// A trailing partial block is hashed as-is. Zero total input hashes
	// zero block digests, matching the API's value for an empty file.
	if d.blockLen > 0 {
		partial := d.block.Sum(nil)
		outer.Write(partial)
	}

	return outer.Sum(b)
}

// Reset resets the hash to its initial state.
func (d *digest) Reset() {
	d.blocks = nil
	d.block.Reset()
	d.blockLen = 0
}

// Size returns the number of bytes Sum will append.
func (d *digest) Size() int { return Size }

// BlockSize returns the hash's preferred block size.
func (d *digest) BlockSize() int { return BlockSize }

// Sum returns the hex-encoded content hash of data.
func Sum(data []byte) string {
	h := New()
	h.Write(data) //nolint:errcheck // Write never fails

	return hex.EncodeToString(h.Sum(nil))
}

// File returns the hex-encoded content hash of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("contenthash: opening %s: %w", path, err)
	}
	defer f.Close()

	h := New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("contenthash: reading %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
