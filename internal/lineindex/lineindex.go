// Package lineindex implements the sparse line index (§4.C): an ordered
// sample of (line_number, byte_offset) pairs taken every P lines, plus a
// total line count. It trades memory for a bounded-but-nonzero
// line-range lookup cost — the sample lets every query start within P
// lines of its answer instead of scanning from the beginning of the
// file.
package lineindex

import (
	"sort"

	"github.com/largefile/ltv/internal/mmapfile"
)

// DefaultSamplePeriod is the P from §3: one sample every 1024 lines.
const DefaultSamplePeriod = 1024

// segmentSize is how much of the mapping Build scans per iteration.
const segmentSize = 1 << 20 // 1 MiB

type sample struct {
	line   int64
	offset int64
}

// Index is a sparse sample of line-start offsets built once per open and
// discarded on close. It is read-only after Build returns and safe for
// concurrent queries.
type Index struct {
	samples    []sample
	totalLines int64
	fileLen    int64
	period     int
}

// Build streams h's mapping in segmentSize chunks and records a sample
// every period newlines. The first sample is always (0, 0); the final
// sentinel sample is (totalLines, fileLen) so the last line's range is
// always computable without a special case.
func Build(h *mmapfile.Handle, period int) *Index {
	if period <= 0 {
		period = DefaultSamplePeriod
	}

	idx := &Index{period: period, fileLen: h.Len()}
	idx.samples = append(idx.samples, sample{line: 0, offset: 0})

	var lineNo int64
	var sinceSample int

	fileLen := h.Len()
	for pos := int64(0); pos < fileLen; pos += segmentSize {
		end := pos + segmentSize
		if end > fileLen {
			end = fileLen
		}
		seg := h.Bytes(pos, end)
		for i, b := range seg {
			if b != '\n' {
				continue
			}
			lineNo++
			sinceSample++
			if sinceSample >= period {
				idx.samples = append(idx.samples, sample{line: lineNo, offset: pos + int64(i) + 1})
				sinceSample = 0
			}
		}
	}

	// Per §3: total_lines is newline count + 1, unless the file ends in a
	// newline, in which case it's exactly the newline count.
	if fileLen > 0 && h.Bytes(fileLen-1, fileLen)[0] == '\n' {
		idx.totalLines = lineNo
	} else {
		idx.totalLines = lineNo + 1
	}

	idx.samples = append(idx.samples, sample{line: idx.totalLines, offset: fileLen})
	return idx
}

// TotalLines returns the file's total line count.
func (idx *Index) TotalLines() int64 { return idx.totalLines }

// floorByOffset returns the index into idx.samples of the last sample
// whose offset is <= offset; floorByLine does the same by line number.
func (idx *Index) floorByOffset(offset int64) int {
	i := sort.Search(len(idx.samples), func(i int) bool {
		return idx.samples[i].offset > offset
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

func (idx *Index) floorByLine(line int64) int {
	i := sort.Search(len(idx.samples), func(i int) bool {
		return idx.samples[i].line > line
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// LineAtOffset returns the 0-based line number containing offset, via a
// binary search over the samples followed by a forward newline scan from
// the nearest preceding sample.
func (idx *Index) LineAtOffset(h *mmapfile.Handle, offset int64) int64 {
	if offset < 0 {
		offset = 0
	}
	if offset > idx.fileLen {
		offset = idx.fileLen
	}

	s := idx.samples[idx.floorByOffset(offset)]
	line := s.line
	b := h.Bytes(s.offset, offset)
	for _, c := range b {
		if c == '\n' {
			line++
		}
	}
	return line
}

// LineRange returns the half-open byte range [start, end) of line n, or
// ok=false if n is out of bounds. end is the byte after the line's
// trailing newline, or the file length at EOF for a final line lacking
// one.
func (idx *Index) LineRange(h *mmapfile.Handle, n int64) (start, end int64, ok bool) {
	if n < 0 || n >= idx.totalLines {
		return 0, 0, false
	}

	s := idx.samples[idx.floorByLine(n)]
	pos := s.offset
	line := s.line

	for line < n {
		nl := indexNewline(h, pos, idx.fileLen)
		if nl < 0 {
			// Should not happen for line < totalLines-worth of newlines,
			// but guards against a corrupt index rather than panicking.
			return 0, 0, false
		}
		pos = nl + 1
		line++
	}
	start = pos

	nl := indexNewline(h, pos, idx.fileLen)
	if nl < 0 {
		end = idx.fileLen
	} else {
		end = nl + 1
	}
	return start, end, true
}

// indexNewline returns the absolute offset of the first '\n' byte at or
// after pos, or -1 if none is found before limit.
func indexNewline(h *mmapfile.Handle, pos, limit int64) int64 {
	const scanChunk = 1 << 20
	for p := pos; p < limit; p += scanChunk {
		end := p + scanChunk
		if end > limit {
			end = limit
		}
		seg := h.Bytes(p, end)
		for i, b := range seg {
			if b == '\n' {
				return p + int64(i)
			}
		}
	}
	return -1
}
