package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidsim-ci/dropsync/internal/dropbox"
)

const testRemoteFolder = "/engineering_simulations_pipeline"

func openTestAudit(t *testing.T, path string) *AuditLog {
	t.Helper()

	audit, err := OpenAuditLog(path)
	require.NoError(t, err)
	t.Cleanup(func() { audit.Close() })

	return audit
}

func readAudit(t *testing.T, audit *AuditLog, path string) []string {
	t.Helper()

	require.NoError(t, audit.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestDownloaderAllFilesSucceed(t *testing.T) {
	fake := &fakeTransfer{
		entries: []dropbox.Entry{
			fileEntry(testRemoteFolder, "a.json", 2),
			fileEntry(testRemoteFolder, "b.json", 2),
		},
		contents: map[string]string{
			testRemoteFolder + "/a.json": "{}",
			testRemoteFolder + "/b.json": "[]",
		},
	}

	localDir := t.TempDir()
	auditPath := filepath.Join(t.TempDir(), "download_log.txt")
	audit := openTestAudit(t, auditPath)

	report, err := NewDownloader(fake, nil).Run(context.Background(), testRemoteFolder, localDir, audit)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, int64(4), report.Bytes)

	a, err := os.ReadFile(filepath.Join(localDir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(a))

	b, err := os.ReadFile(filepath.Join(localDir, "b.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	lines := readAudit(t, audit, auditPath)
	require.Len(t, lines, 3) // listing note + one line per file
	assert.Contains(t, lines[0], "listing "+testRemoteFolder)
	assert.Contains(t, lines[1], "success a.json")
	assert.Contains(t, lines[2], "success b.json")
}

func TestDownloaderPartialFailureContinues(t *testing.T) {
	fake := &fakeTransfer{
		entries: []dropbox.Entry{
			fileEntry(testRemoteFolder, "first.dat", 5),
			fileEntry(testRemoteFolder, "broken.dat", 5),
			fileEntry(testRemoteFolder, "last.dat", 5),
		},
		contents: map[string]string{
			testRemoteFolder + "/first.dat": "aaaaa",
			testRemoteFolder + "/last.dat":  "bbbbb",
		},
		downloads: map[string]error{
			testRemoteFolder + "/broken.dat": fmt.Errorf("gone: %w", dropbox.ErrNotFound),
		},
	}

	localDir := t.TempDir()
	auditPath := filepath.Join(t.TempDir(), "download_log.txt")
	audit := openTestAudit(t, auditPath)

	report, err := NewDownloader(fake, nil).Run(context.Background(), testRemoteFolder, localDir, audit)
	require.NoError(t, err, "one failed file must not fail a run that still retrieved others")

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())

	names, err := os.ReadDir(localDir)
	require.NoError(t, err)
	assert.Len(t, names, 2, "the failed file must not leave a partial local copy")
	assert.NoFileExists(t, filepath.Join(localDir, "broken.dat"))

	lines := readAudit(t, audit, auditPath)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "success first.dat")
	assert.Contains(t, lines[2], "failure broken.dat")
	assert.Contains(t, lines[3], "success last.dat")
}

func TestDownloaderEmptyFolderFailsVerification(t *testing.T) {
	fake := &fakeTransfer{}

	localDir := t.TempDir()
	auditPath := filepath.Join(t.TempDir(), "download_log.txt")
	audit := openTestAudit(t, auditPath)

	report, err := NewDownloader(fake, nil).Run(context.Background(), testRemoteFolder, localDir, audit)
	require.ErrorIs(t, err, ErrVerification)

	assert.Empty(t, report.Outcomes)

	names, readErr := os.ReadDir(localDir)
	require.NoError(t, readErr)
	assert.Empty(t, names)

	lines := readAudit(t, audit, auditPath)
	require.Len(t, lines, 1, "an empty run still leaves the listing note in the audit log")
	assert.Contains(t, lines[0], "listing "+testRemoteFolder)
}

func TestDownloaderAllFilesFailFailsVerification(t *testing.T) {
	fake := &fakeTransfer{
		entries: []dropbox.Entry{
			fileEntry(testRemoteFolder, "x.dat", 1),
			fileEntry(testRemoteFolder, "y.dat", 1),
		},
		downloads: map[string]error{
			testRemoteFolder + "/x.dat": dropbox.ErrServerError,
			testRemoteFolder + "/y.dat": dropbox.ErrServerError,
		},
	}

	localDir := t.TempDir()
	audit := openTestAudit(t, filepath.Join(t.TempDir(), "download_log.txt"))

	report, err := NewDownloader(fake, nil).Run(context.Background(), testRemoteFolder, localDir, audit)
	require.ErrorIs(t, err, ErrVerification)
	assert.Equal(t, 2, report.Failed())
}

func TestDownloaderListFailureClassified(t *testing.T) {
	tests := []struct {
		name    string
		listErr error
		want    error
	}{
		{"auth", fmt.Errorf("token: %w", dropbox.ErrUnauthorized), ErrAuthentication},
		{"transfer", fmt.Errorf("api: %w", dropbox.ErrServerError), ErrTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTransfer{listErr: tt.listErr}
			audit := openTestAudit(t, filepath.Join(t.TempDir(), "download_log.txt"))

			_, err := NewDownloader(fake, nil).Run(context.Background(), testRemoteFolder, t.TempDir(), audit)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errors.Is(err, tt.listErr), "the original cause must stay in the chain")
		})
	}
}

func TestDownloaderCreatesLocalFolder(t *testing.T) {
	fake := &fakeTransfer{
		entries:  []dropbox.Entry{fileEntry(testRemoteFolder, "out.bin", 3)},
		contents: map[string]string{testRemoteFolder + "/out.bin": "xyz"},
	}

	localDir := filepath.Join(t.TempDir(), "nested", "output")
	audit := openTestAudit(t, filepath.Join(t.TempDir(), "download_log.txt"))

	_, err := NewDownloader(fake, nil).Run(context.Background(), testRemoteFolder, localDir, audit)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(localDir, "out.bin"))
}
