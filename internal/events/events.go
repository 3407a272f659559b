// Package events defines the message payloads the search engine and
// replacer publish on their shared bounded channel (§4.F). The core never
// calls back into a consumer; it only ever sends one of these on the
// channel and lets the consumer poll.
package events

import "fmt"

// DoneKind identifies which kind of job a Done message terminates.
type DoneKind int

const (
	DoneCount DoneKind = iota
	DoneFetch
	DoneReplace
)

func (k DoneKind) String() string {
	switch k {
	case DoneCount:
		return "count"
	case DoneFetch:
		return "fetch"
	case DoneReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Match is a single accepted search hit: the absolute byte offset of its
// start and its byte length.
type Match struct {
	ByteOffset int64
	Len        int64
}

// CountResult carries one worker's partial count from the counting phase
// (§4.D.1). The consumer sums these into a running total.
type CountResult struct {
	Count int64
}

// ChunkResult carries the matches accepted from one fetch chunk (§4.D.2).
type ChunkResult struct {
	Matches []Match
}

// Progress reports how many of a job's total bytes have been processed,
// emitted by the streaming rewrite after each buffer shift (§4.E.1).
type Progress struct {
	ProcessedBytes int64
	TotalBytes     int64
}

// Done marks the clean, non-cancelled termination of a job.
type Done struct {
	Kind DoneKind
}

// Error is terminal for the job that emitted it; no further messages for
// that job follow.
type Error struct {
	Message string
}

// Message is the sum type carried on the shared channel. Exactly one of
// the typed fields is non-nil for a given Message value.
type Message struct {
	Count  *CountResult
	Chunk  *ChunkResult
	Prog   *Progress
	Done   *Done
	ErrMsg *Error
}

func CountMessage(count int64) Message {
	return Message{Count: &CountResult{Count: count}}
}

func ChunkMessage(matches []Match) Message {
	return Message{Chunk: &ChunkResult{Matches: matches}}
}

func ProgressMessage(processed, total int64) Message {
	return Message{Prog: &Progress{ProcessedBytes: processed, TotalBytes: total}}
}

func DoneMessage(kind DoneKind) Message {
	return Message{Done: &Done{Kind: kind}}
}

func ErrorMessage(format string, args ...any) Message {
	if len(args) == 0 {
		return Message{ErrMsg: &Error{Message: format}}
	}
	return Message{ErrMsg: &Error{Message: fmt.Sprintf(format, args...)}}
}
