package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintfNoopWhenDisabled(t *testing.T) {
	EnableDebug = "false"
	t.Setenv("LTV_DEBUG", "")
	var buf bytes.Buffer
	SetDebugOutput(&buf)
	defer SetDebugOutput(nil)

	Printf("hello %d", 1)
	assert.Empty(t, buf.String())
}

func TestPrintfWritesWhenEnabledViaEnv(t *testing.T) {
	t.Setenv("LTV_DEBUG", "1")
	var buf bytes.Buffer
	SetDebugOutput(&buf)
	defer SetDebugOutput(nil)

	Printf("hello %d", 1)
	assert.Contains(t, buf.String(), "hello 1")
}

func TestLogTagsComponent(t *testing.T) {
	t.Setenv("LTV_DEBUG", "1")
	var buf bytes.Buffer
	SetDebugOutput(&buf)
	defer SetDebugOutput(nil)

	LogSearch("found %d matches", 3)
	assert.Contains(t, buf.String(), "[DEBUG:SEARCH]")
	assert.Contains(t, buf.String(), "found 3 matches")
}
