package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountMessage(t *testing.T) {
	m := CountMessage(42)
	assert.NotNil(t, m.Count)
	assert.EqualValues(t, 42, m.Count.Count)
	assert.Nil(t, m.Chunk)
	assert.Nil(t, m.Done)
}

func TestDoneKindString(t *testing.T) {
	assert.Equal(t, "count", DoneCount.String())
	assert.Equal(t, "fetch", DoneFetch.String())
	assert.Equal(t, "replace", DoneReplace.String())
}

func TestErrorMessageFormatting(t *testing.T) {
	m := ErrorMessage("bad pattern: %s", "a(")
	assert.Equal(t, "bad pattern: a(", m.ErrMsg.Message)
}

func TestChunkMessage(t *testing.T) {
	m := ChunkMessage([]Match{{ByteOffset: 3, Len: 2}})
	assert.Len(t, m.Chunk.Matches, 1)
	assert.EqualValues(t, 3, m.Chunk.Matches[0].ByteOffset)
}
