package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/largefile/ltv/internal/lineindex"
	"github.com/largefile/ltv/internal/mmapfile"
)

// PendingEdit is a staged, not-yet-committed replacement to overlay onto
// the visible region before it is persisted via replace.Splice (§4.G).
type PendingEdit struct {
	Offset  int64
	OldLen  int64
	NewText string
}

// Session is the consumer-side state one open view holds: the file
// handle and its line index, a bounded page cache, and the fields an
// external front-end polls (status, scroll target, pending edits). The
// core never reaches into a Session to push updates to a front-end; it
// only publishes on the shared message channel and leaves Session as the
// place the consumer accumulates what it read from that channel.
type Session struct {
	ID uuid.UUID

	handle *mmapfile.Handle
	index  *lineindex.Index
	cache  *PageCache

	mu           sync.RWMutex
	status       string
	scrollTarget int64
	pending      []PendingEdit
}

// Open builds a session around an already-mapped handle, building its
// line index immediately (§4.C).
func Open(h *mmapfile.Handle, samplePeriod int) *Session {
	return &Session{
		ID:     uuid.New(),
		handle: h,
		index:  lineindex.Build(h, samplePeriod),
		cache:  NewPageCache(DefaultMaxPages, DefaultPageTTL),
		status: "ready",
	}
}

func (s *Session) Handle() *mmapfile.Handle { return s.handle }
func (s *Session) Index() *lineindex.Index  { return s.index }
func (s *Session) Cache() *PageCache        { return s.cache }

// Status returns the user-visible progress string (§4.G).
func (s *Session) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus updates the user-visible progress string.
func (s *Session) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// ScrollTarget returns the line a front-end should scroll to after a
// jump or newly found match (§4.G).
func (s *Session) ScrollTarget() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scrollTarget
}

// RequestScroll sets the line a front-end should scroll to.
func (s *Session) RequestScroll(line int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollTarget = line
}

// PendingEdits returns a copy of the staged overlay list (§4.G).
func (s *Session) PendingEdits() []PendingEdit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PendingEdit, len(s.pending))
	copy(out, s.pending)
	return out
}

// StageEdit appends a pending edit to the overlay. It does not touch
// disk; committing is the caller's job via the replace package.
func (s *Session) StageEdit(edit PendingEdit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, edit)
}

// ClearPending drops all staged edits, typically after a successful
// commit to disk.
func (s *Session) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Close releases the underlying mapping.
func (s *Session) Close() error {
	return s.handle.Close()
}
