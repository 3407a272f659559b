// Package textenc implements the encoding façade (§4.A): a small, closed
// registry of byte-to-string decoders plus the BOM sniff helper. Decoders
// are total — they never fail, substituting the replacement character for
// invalid sequences — so the rest of the engine never has to handle a
// decode error.
package textenc

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is a value drawn from the closed set of decoders the engine
// supports.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16LE
	UTF16BE
	Windows1252
)

// String renders the encoding name for display (status lines, CLI flags).
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	case Windows1252:
		return "Windows-1252"
	default:
		return "unknown"
	}
}

// ParseEncoding maps a user-facing name (CLI flag, config value) to an
// Encoding, defaulting to UTF8 for anything unrecognized.
func ParseEncoding(name string) Encoding {
	switch name {
	case "utf-16le", "UTF-16LE", "utf16le":
		return UTF16LE
	case "utf-16be", "UTF-16BE", "utf16be":
		return UTF16BE
	case "windows-1252", "Windows-1252", "cp1252", "latin1":
		return Windows1252
	default:
		return UTF8
	}
}

// decoder returns the x/text encoding.Encoding for e, whose decoder
// substitutes the Unicode replacement character on invalid input rather
// than erroring.
func (e Encoding) decoder() encoding.Encoding {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case Windows1252:
		return charmap.Windows1252
	default:
		return encoding.Nop
	}
}

// Decode converts a byte slice to a string using e. It never fails: the
// UTF-8 path runs fixUTF8 to paper over any invalid sequences, and
// the other encodings use x/text's default (lossy, replacement-char)
// decode mode.
func (e Encoding) Decode(b []byte) string {
	if e == UTF8 {
		if utf8.Valid(b) {
			return string(b)
		}
		return string([]byte(fixUTF8(b)))
	}
	out, err := e.decoder().NewDecoder().Bytes(b)
	if err != nil || out == nil {
		// Decoder encountered a structural failure (e.g. odd-length
		// UTF-16 buffer cut mid-character); fall back to a byte-for-byte
		// Windows-1252 read rather than lose the tail of the buffer.
		out, _ = charmap.Windows1252.NewDecoder().Bytes(b)
	}
	return string(out)
}

// fixUTF8 replaces invalid byte sequences with the Unicode replacement
// character, scanning rune-by-rune like strings.ToValidUTF8 but without
// requiring the input to already be a string.
func fixUTF8(b []byte) string {
	var out []byte
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			out = append(out, "�"...)
			b = b[1:]
			continue
		}
		out = append(out, b[:size]...)
		b = b[size:]
	}
	return string(out)
}

// SniffBOM inspects up to the first three bytes of buf and returns the
// encoding implied by a byte-order mark, exactly per §4.A:
//
//	EF BB BF    -> UTF-8
//	FF FE       -> UTF-16LE
//	FE FF       -> UTF-16BE
//	otherwise, valid UTF-8 -> UTF-8, else Windows-1252
func SniffBOM(buf []byte) Encoding {
	if len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return UTF8
	}
	if len(buf) >= 2 {
		if buf[0] == 0xFF && buf[1] == 0xFE {
			return UTF16LE
		}
		if buf[0] == 0xFE && buf[1] == 0xFF {
			return UTF16BE
		}
	}
	if utf8.Valid(buf) {
		return UTF8
	}
	return Windows1252
}
