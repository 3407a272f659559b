package lineindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/largefile/ltv/internal/mmapfile"
	"github.com/largefile/ltv/internal/textenc"
)

func openContent(t *testing.T, content string) *mmapfile.Handle {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	h, err := mmapfile.Open(path, textenc.UTF8)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

// S1 from spec.md §8.
func TestScenarioS1(t *testing.T) {
	h := openContent(t, "abc\ndefghi\njkl")
	idx := Build(h, DefaultSamplePeriod)

	assert.Equal(t, int64(3), idx.TotalLines())

	start, end, ok := idx.LineRange(h, 0)
	require.True(t, ok)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(4), end)

	start, end, ok = idx.LineRange(h, 1)
	require.True(t, ok)
	assert.Equal(t, int64(4), start)
	assert.Equal(t, int64(11), end)

	start, end, ok = idx.LineRange(h, 2)
	require.True(t, ok)
	assert.Equal(t, int64(11), start)
	assert.Equal(t, int64(14), end)

	assert.EqualValues(t, 1, idx.LineAtOffset(h, 5))
}

func TestLineRangeOutOfBounds(t *testing.T) {
	h := openContent(t, "a\nb\n")
	idx := Build(h, DefaultSamplePeriod)
	_, _, ok := idx.LineRange(h, 99)
	assert.False(t, ok)
}

func TestNoTrailingNewline(t *testing.T) {
	h := openContent(t, "line1\nline2")
	idx := Build(h, DefaultSamplePeriod)
	assert.EqualValues(t, 2, idx.TotalLines())

	start, end, ok := idx.LineRange(h, 1)
	require.True(t, ok)
	assert.Equal(t, "line2", string(h.Bytes(start, end)))
	assert.Equal(t, h.Len(), end)
}

func TestTrailingNewlineCountsExactly(t *testing.T) {
	h := openContent(t, "a\nb\nc\n")
	idx := Build(h, DefaultSamplePeriod)
	assert.EqualValues(t, 3, idx.TotalLines())
}

// Property 1: for any line n < total_lines, line_at_offset(line_range(n).start) == n.
func TestRoundTripLineAtOffset(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "line number %d has some text in it\n", i)
	}
	h := openContent(t, b.String())
	idx := Build(h, 16) // small period to exercise multiple samples

	for n := int64(0); n < idx.TotalLines(); n += 7 {
		start, _, ok := idx.LineRange(h, n)
		require.True(t, ok)
		assert.Equal(t, n, idx.LineAtOffset(h, start))
	}
}

// Property 2: for any offset < len, offset is within line_range(line_at_offset(offset)).
func TestOffsetWithinItsLineRange(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "row-%d\n", i)
	}
	content := b.String()
	h := openContent(t, content)
	idx := Build(h, 32)

	for offset := int64(0); offset < int64(len(content)); offset += 13 {
		line := idx.LineAtOffset(h, offset)
		start, end, ok := idx.LineRange(h, line)
		require.True(t, ok)
		assert.GreaterOrEqual(t, offset, start)
		assert.Less(t, offset, end)
	}
}

func TestSparseSamplingAcrossPeriods(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5000; i++ {
		b.WriteString("x\n")
	}
	h := openContent(t, b.String())
	idx := Build(h, 1024)
	assert.EqualValues(t, 5000, idx.TotalLines())

	start, end, ok := idx.LineRange(h, 4500)
	require.True(t, ok)
	assert.Equal(t, "x", string(h.Bytes(start, end-1)))
}
