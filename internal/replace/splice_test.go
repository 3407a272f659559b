package replace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// S6: splice on "hello world" at (offset=6, old_len=5, new_text="there!!")
// produces "hello there!!" with length 13.
func TestScenarioS6(t *testing.T) {
	path := writeFile(t, "hello world")
	err := Splice(path, PendingEdit{Offset: 6, OldLen: 5, NewText: []byte("there!!")})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello there!!", string(got))
	assert.Len(t, got, 13)
}

func TestSpliceShrinking(t *testing.T) {
	path := writeFile(t, "hello wonderful world")
	err := Splice(path, PendingEdit{Offset: 6, OldLen: 9, NewText: []byte("big")})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello big world", string(got))
}

func TestSpliceSameLengthLeavesRestUnchanged(t *testing.T) {
	path := writeFile(t, "aaaaaaaaaa")
	err := Splice(path, PendingEdit{Offset: 2, OldLen: 3, NewText: []byte("bbb")})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "aabbbaaaaa", string(got))
}

func TestApplyPendingDecreasingOffsetOrder(t *testing.T) {
	path := writeFile(t, "0123456789")
	edits := []PendingEdit{
		{Offset: 2, OldLen: 1, NewText: []byte("AB")},
		{Offset: 6, OldLen: 1, NewText: []byte("XY")},
	}
	require.NoError(t, ApplyPending(path, edits))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	// Applying offset 6 first, then offset 2, must not shift offset 2 out
	// from under the earlier-recorded edit.
	assert.Equal(t, "01AB345XY789", string(got))
}

func TestSpliceMissingFileErrors(t *testing.T) {
	err := Splice("/nonexistent/path.txt", PendingEdit{Offset: 0, OldLen: 0, NewText: []byte("x")})
	require.Error(t, err)
}
