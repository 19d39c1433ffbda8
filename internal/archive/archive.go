// Package archive packages a solver output directory into a single zip
// file for upload.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Create zips the contents of sourceDir into destPath, overwriting any
// previous archive. Entry paths are stored relative to sourceDir with
// forward slashes, so extraction reproduces the directory's contents
// without nesting an extra directory level.
//
// The source directory must exist and be non-empty; violating that is a
// setup problem, not a transient one. A failed run may leave a truncated
// destPath behind — callers must re-create rather than reuse it.
func Create(sourceDir, destPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	fi, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("archive: source directory %q: %w", sourceDir, err)
	}

	if !fi.IsDir() {
		return fmt.Errorf("archive: source %q is not a directory", sourceDir)
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return fmt.Errorf("archive: reading source directory %q: %w", sourceDir, err)
	}

	if len(entries) == 0 {
		return fmt.Errorf("archive: source directory %q is empty", sourceDir)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("archive: creating %q: %w", destPath, err)
	}

	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(sourceDir, path)
		if relErr != nil {
			return relErr
		}

		if rel == "." {
			return nil
		}

		return addEntry(zw, path, filepath.ToSlash(rel), d)
	})

	if walkErr != nil {
		zw.Close()
		out.Close()

		return fmt.Errorf("archive: packaging %q: %w", sourceDir, walkErr)
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("archive: finalizing %q: %w", destPath, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("archive: closing %q: %w", destPath, err)
	}

	logger.Info("archive created",
		slog.String("source", sourceDir),
		slog.String("path", destPath),
	)

	return nil
}

// addEntry writes one file or directory entry, preserving the original
// modification time.
func addEntry(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	hdr.Name = name
	if d.IsDir() {
		hdr.Name += "/"
	} else {
		hdr.Method = zip.Deflate
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	if d.IsDir() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)

	return err
}

// Verify confirms the archive postcondition: path exists and has non-zero
// size. Returns the archive size. Callers must not trust an archive that
// fails this check — a crashed archival run can leave a truncated file.
func Verify(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("archive: %q not found: %w", path, err)
	}

	if fi.Size() == 0 {
		return 0, fmt.Errorf("archive: %q is empty", path)
	}

	return fi.Size(), nil
}
