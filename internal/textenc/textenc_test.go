package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffBOM(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want Encoding
	}{
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'a'}, UTF8},
		{"utf16le bom", []byte{0xFF, 0xFE, 'a', 0}, UTF16LE},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'a'}, UTF16BE},
		{"plain ascii", []byte("hello"), UTF8},
		{"invalid utf8", []byte{0xff, 0xfe, 0xfd, 0x80, 0x81}[2:], Windows1252},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, SniffBOM(c.buf))
		})
	}
}

func TestDecodeUTF8IsTotal(t *testing.T) {
	invalid := []byte{'a', 0xff, 'b'}
	s := UTF8.Decode(invalid)
	assert.Contains(t, s, "a")
	assert.Contains(t, s, "b")
	assert.NotPanics(t, func() { UTF8.Decode(invalid) })
}

func TestDecodeWindows1252(t *testing.T) {
	// 0x93 is a smart left-quote in Windows-1252.
	s := Windows1252.Decode([]byte{0x93, 'x', 0x94})
	assert.Contains(t, s, "x")
}

func TestDecodeUTF16LE(t *testing.T) {
	// "hi" in UTF-16LE.
	b := []byte{'h', 0, 'i', 0}
	s := UTF16LE.Decode(b)
	assert.Equal(t, "hi", s)
}

func TestParseEncodingDefaultsToUTF8(t *testing.T) {
	assert.Equal(t, UTF8, ParseEncoding("bogus"))
	assert.Equal(t, Windows1252, ParseEncoding("windows-1252"))
}

func TestEncodingString(t *testing.T) {
	assert.Equal(t, "UTF-8", UTF8.String())
	assert.Equal(t, "UTF-16LE", UTF16LE.String())
}
