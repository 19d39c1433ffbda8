package contenthash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refHash computes the content hash the slow, obvious way: SHA-256 each
// 4 MiB block, then SHA-256 the concatenated digests.
func refHash(data []byte) string {
	outer := sha256.New()

	for len(data) > 0 {
		n := min(len(data), BlockSize)
		blockSum := sha256.Sum256(data[:n])
		outer.Write(blockSum[:])
		data = data[n:]
	}

	return hex.EncodeToString(outer.Sum(nil))
}

func TestSum_Empty(t *testing.T) {
	// Zero blocks: the outer hash of nothing, i.e. SHA-256 of the empty string.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sum(nil))
}

func TestSum_SubBlock(t *testing.T) {
	data := []byte("fluid simulation output")
	assert.Equal(t, refHash(data), Sum(data))
}

func TestSum_ExactBlock(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, BlockSize)
	assert.Equal(t, refHash(data), Sum(data))
}

func TestSum_MultiBlock(t *testing.T) {
	// One full block plus a 1 MiB tail.
	data := make([]byte, BlockSize+1024*1024)
	for i := range data {
		data[i] = byte(i % 251)
	}

	assert.Equal(t, refHash(data), Sum(data))
}

func TestWrite_ChunkedMatchesOneShot(t *testing.T) {
	data := make([]byte, 3*BlockSize/2)
	for i := range data {
		data[i] = byte(i)
	}

	h := New()

	// Feed in awkward chunk sizes that straddle block boundaries.
	for len(data) > 0 {
		n := min(len(data), 100000)
		_, err := h.Write(data[:n])
		require.NoError(t, err)
		data = data[n:]
	}

	full := make([]byte, 3*BlockSize/2)
	for i := range full {
		full[i] = byte(i)
	}

	assert.Equal(t, Sum(full), hex.EncodeToString(h.Sum(nil)))
}

func TestSum_DoesNotDisturbState(t *testing.T) {
	h := New()
	_, err := h.Write([]byte("partial "))
	require.NoError(t, err)

	first := h.Sum(nil)
	second := h.Sum(nil)
	assert.Equal(t, first, second)

	_, err = h.Write([]byte("block"))
	require.NoError(t, err)
	assert.Equal(t, Sum([]byte("partial block")), hex.EncodeToString(h.Sum(nil)))
}

func TestReset(t *testing.T) {
	h := New()
	_, err := h.Write(bytes.Repeat([]byte{1}, BlockSize+5))
	require.NoError(t, err)

	h.Reset()
	_, err = h.Write([]byte("abc"))
	require.NoError(t, err)

	assert.Equal(t, Sum([]byte("abc")), hex.EncodeToString(h.Sum(nil)))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.zip")
	content := []byte("zip bytes here")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, Sum(content), got)
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.zip"))
	require.Error(t, err)
}
