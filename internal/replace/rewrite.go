// Package replace implements the streaming rewrite and pointwise splice
// primitives (§4.E). Rewrite never touches the input file; splice mutates
// a file in place and documents, rather than masks, partial-failure risk.
package replace

import (
	"context"
	"io"
	"os"
	"regexp"
	"sync/atomic"

	"github.com/largefile/ltv/internal/debug"
	lerrors "github.com/largefile/ltv/internal/errors"
	"github.com/largefile/ltv/internal/events"
)

const (
	// RewriteBufferSize is B from §4.E.1: the logical chunk read per iteration.
	RewriteBufferSize = 1 << 20 // 1 MiB
	// RewriteOverlapSize is O from §4.E.1: extra bytes guarding against a
	// match straddling the shift boundary.
	RewriteOverlapSize = 4096
)

// compilePattern mirrors the escaping rule shared with the search package:
// non-regex patterns are quoted literals with a case-insensitive flag.
func compilePattern(pattern string, isRegex bool) (*regexp.Regexp, error) {
	expr := pattern
	if !isRegex {
		expr = "(?i)" + regexp.QuoteMeta(pattern)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, lerrors.InvalidRegex(pattern, err)
	}
	return re, nil
}

// Rewrite streams inputPath to outputPath, replacing every match of
// pattern with replacement (which may reference capture groups as `$1`,
// per regexp.Expand), and reports progress on sink. outputPath is created
// fresh; inputPath is opened read-only and never modified. Callers that
// want an atomic in-place replace rename outputPath over inputPath
// themselves once Rewrite reports events.DoneReplace.
func Rewrite(ctx context.Context, inputPath, outputPath, pattern, replacement string, isRegex bool, sink chan<- events.Message, cancel *atomic.Bool) {
	if err := rewriteInner(ctx, inputPath, outputPath, pattern, replacement, isRegex, sink, cancel); err != nil {
		send(ctx, sink, events.ErrorMessage("%s", err.Error()))
		return
	}
	if !cancel.Load() {
		send(ctx, sink, events.DoneMessage(events.DoneReplace))
	}
}

func send(ctx context.Context, sink chan<- events.Message, msg events.Message) bool {
	select {
	case sink <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func rewriteInner(ctx context.Context, inputPath, outputPath, pattern, replacement string, isRegex bool, sink chan<- events.Message, cancel *atomic.Bool) error {
	re, err := compilePattern(pattern, isRegex)
	if err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return lerrors.IoError("open", inputPath, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return lerrors.IoError("stat", inputPath, err)
	}
	totalBytes := info.Size()

	out, err := os.Create(outputPath)
	if err != nil {
		return lerrors.IoError("create", outputPath, err)
	}
	defer out.Close()

	replBytes := []byte(replacement)
	buffer := make([]byte, RewriteBufferSize+RewriteOverlapSize)

	n, err := io.ReadFull(in, buffer[:RewriteBufferSize])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return lerrors.IoError("read", inputPath, err)
	}
	bufferLen := n
	eof := n < RewriteBufferSize

	var processedOffset int64

	for bufferLen > 0 {
		if cancel.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		validLen := lastUTF8Boundary(buffer, bufferLen)

		chunk := buffer[:validLen]
		safeZoneEnd := validLen
		if !eof {
			safeZoneEnd -= RewriteOverlapSize
			if safeZoneEnd < 0 {
				safeZoneEnd = 0
			}
		}

		lastMatchEnd := 0
		for _, loc := range re.FindAllSubmatchIndex(chunk, -1) {
			start, end := loc[0], loc[1]
			if start >= safeZoneEnd {
				break
			}
			if _, err := out.Write(chunk[lastMatchEnd:start]); err != nil {
				return lerrors.IoError("write", outputPath, err)
			}
			expanded := re.Expand(nil, replBytes, chunk, loc)
			if _, err := out.Write(expanded); err != nil {
				return lerrors.IoError("write", outputPath, err)
			}
			lastMatchEnd = end
		}

		var shiftStart int
		if lastMatchEnd > safeZoneEnd {
			shiftStart = lastMatchEnd
		} else {
			if _, err := out.Write(chunk[lastMatchEnd:safeZoneEnd]); err != nil {
				return lerrors.IoError("write", outputPath, err)
			}
			shiftStart = safeZoneEnd
		}

		remaining := bufferLen - shiftStart
		copy(buffer[0:remaining], buffer[shiftStart:bufferLen])

		if !eof {
			toRead := RewriteBufferSize - remaining
			n, rerr := io.ReadFull(in, buffer[remaining:remaining+toRead])
			if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
				return lerrors.IoError("read", inputPath, rerr)
			}
			bufferLen = remaining + n
			if n < toRead {
				eof = true
			}
		} else {
			bufferLen = remaining
		}

		processedOffset += int64(shiftStart)
		if !send(ctx, sink, events.ProgressMessage(processedOffset, totalBytes)) {
			return nil
		}
		debug.LogReplace("rewrite progress %d/%d", processedOffset, totalBytes)
	}

	return out.Sync()
}

// lastUTF8Boundary walks backward from bufferLen over buf (whose capacity
// extends past bufferLen into the overlap region) until it finds a byte
// that is not a UTF-8 continuation byte (top two bits 10) — the start of
// a fresh code point, and therefore a safe place to cut so a later decode
// never splits a multi-byte character. Falls back to bufferLen if no
// boundary is found within the buffer.
func lastUTF8Boundary(buf []byte, bufferLen int) int {
	validLen := bufferLen
	for validLen > 0 && buf[validLen]&0xC0 == 0x80 {
		validLen--
	}
	if validLen == 0 && bufferLen > 0 {
		return bufferLen
	}
	return validLen
}
