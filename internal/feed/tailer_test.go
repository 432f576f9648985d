package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(content)
	require.NoError(t, err)
}

func TestLineTailer_MissingFileIsEmpty(t *testing.T) {
	tl := newLineTailer(filepath.Join(t.TempDir(), "absent.txt"))
	lines, err := tl.drain()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestLineTailer_ReadsCompleteLinesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.txt")
	writeFile(t, path, "one\ntwo\npartial")

	tl := newLineTailer(path)
	lines, err := tl.drain()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)

	// The partial line is delivered once its newline arrives.
	appendFile(t, path, " line\nthree\n")
	lines, err = tl.drain()
	require.NoError(t, err)
	assert.Equal(t, []string{"partial line", "three"}, lines)
}

func TestLineTailer_DrainIsIncremental(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.txt")
	writeFile(t, path, "a\n")

	tl := newLineTailer(path)
	lines, err := tl.drain()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, lines)

	lines, err = tl.drain()
	require.NoError(t, err)
	assert.Empty(t, lines)

	appendFile(t, path, "b\n")
	lines, err = tl.drain()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, lines)
}

func TestLineTailer_SkipsEmptyLinesAndCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.txt")
	writeFile(t, path, "a\r\n\nb\n")

	tl := newLineTailer(path)
	lines, err := tl.drain()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestLineTailer_TruncationRestartsFromTop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.txt")
	writeFile(t, path, "old-1\nold-2\n")

	tl := newLineTailer(path)
	_, err := tl.drain()
	require.NoError(t, err)

	// File replaced with shorter content: tailer restarts at offset 0.
	writeFile(t, path, "new\n")
	lines, err := tl.drain()
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, lines)
}
