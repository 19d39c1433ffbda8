package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * sizeMB, "5.0 MB"},
		{3 * sizeGB, "3.0 GB"},
		{2 * sizeTB, "2.0 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.bytes))
	}
}

func TestFormatTimeRedirected(t *testing.T) {
	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = orig })

	ts := time.Date(2026, 5, 2, 11, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-02T11:30:00Z", formatTime(ts))
}

func TestFormatTimeInteractive(t *testing.T) {
	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdoutIsTerminal = orig })

	thisYear := time.Date(time.Now().Year(), 5, 2, 11, 30, 0, 0, time.Local)
	assert.Equal(t, "May  2 11:30", formatTime(thisYear))

	lastYear := time.Date(time.Now().Year()-1, 5, 2, 11, 30, 0, 0, time.Local)
	assert.Equal(t, "May  2  "+lastYear.Format("2006"), formatTime(lastYear))
}

func TestPrintTableAlignment(t *testing.T) {
	var sb strings.Builder

	printTable(&sb,
		[]string{"NAME", "SIZE"},
		[][]string{
			{"a.json", "12 B"},
			{"really_long_name.json", "1.0 KB"},
		})

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))

	// The SIZE column starts at the same offset on every line.
	offset := strings.Index(lines[0], "SIZE")
	assert.Equal(t, "12 B", strings.TrimSpace(lines[1][offset:]))
	assert.Equal(t, "1.0 KB", strings.TrimSpace(lines[2][offset:]))
}
