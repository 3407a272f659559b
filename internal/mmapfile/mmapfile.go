// Package mmapfile implements the file reader (§4.B): it opens a file
// read-only, memory-maps it, and exposes clamped byte/decoded-string
// ranges over the mapping. A Handle is safe to share by reference across
// as many concurrent readers as a search or replace job spawns — nothing
// about it is ever mutated after construction.
package mmapfile

import (
	"os"

	"github.com/edsrzf/mmap-go"

	lerrors "github.com/largefile/ltv/internal/errors"
	"github.com/largefile/ltv/internal/textenc"
)

// Handle owns a read-only memory mapping plus the path and encoding it
// was opened with.
type Handle struct {
	mmap     mmap.MMap
	file     *os.File
	path     string
	encoding textenc.Encoding
}

// Open maps path read-only using enc to decode text ranges. It fails with
// an EmptyFile error for a zero-length file (a zero-byte mapping is
// disallowed) and an IoError for any other open/stat/map failure.
func Open(path string, enc textenc.Encoding) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lerrors.IoError("open", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, lerrors.IoError("stat", path, err)
	}
	if info.Size() == 0 {
		f.Close()
		return nil, lerrors.EmptyFile(path)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, lerrors.IoError("mmap", path, err)
	}

	return &Handle{mmap: m, file: f, path: path, encoding: enc}, nil
}

// OpenDetectEncoding opens path the same way as Open, but first sniffs a
// BOM (or validates UTF-8) over the file's first bytes to pick the
// encoding automatically.
func OpenDetectEncoding(path string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lerrors.IoError("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, lerrors.IoError("stat", path, err)
	}
	if info.Size() == 0 {
		return nil, lerrors.EmptyFile(path)
	}

	probeLen := info.Size()
	if probeLen > 4096 {
		probeLen = 4096
	}
	probe := make([]byte, probeLen)
	if _, err := f.ReadAt(probe, 0); err != nil {
		return nil, lerrors.IoError("read", path, err)
	}

	return Open(path, textenc.SniffBOM(probe))
}

// Close unmaps the file and releases the underlying descriptor. It is
// the caller's responsibility to ensure no other goroutine is still
// using the mapping.
func (h *Handle) Close() error {
	if err := h.mmap.Unmap(); err != nil {
		return lerrors.IoError("munmap", h.path, err)
	}
	return h.file.Close()
}

// Len returns the byte length of the mapping.
func (h *Handle) Len() int64 { return int64(len(h.mmap)) }

// Path returns the absolute or relative path the handle was opened with.
func (h *Handle) Path() string { return h.path }

// Encoding returns the decoder bound to this handle.
func (h *Handle) Encoding() textenc.Encoding { return h.encoding }

// Bytes returns the raw mapped byte range [start, end), clamping end to
// Len() and returning an empty slice when start >= end.
func (h *Handle) Bytes(start, end int64) []byte {
	end = clamp(end, h.Len())
	if start < 0 || start >= end {
		return nil
	}
	return h.mmap[start:end]
}

// Decode decodes the mapped byte range [start, end) through the bound
// encoding, with the same clamping as Bytes.
func (h *Handle) Decode(start, end int64) string {
	b := h.Bytes(start, end)
	if len(b) == 0 {
		return ""
	}
	return h.encoding.Decode(b)
}

func clamp(v, max int64) int64 {
	if v > max {
		return max
	}
	return v
}
