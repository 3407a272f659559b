package search

import (
	"context"
	"regexp"
	"runtime"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/largefile/ltv/internal/debug"
	"github.com/largefile/ltv/internal/events"
	"github.com/largefile/ltv/internal/mmapfile"
)

const (
	// CountBatchSize is the per-worker batch size during counting (§4.D.1).
	CountBatchSize = 4 << 20 // 4 MiB
	// FetchChunkSize is the chunk size during paginated fetch (§4.D.2).
	FetchChunkSize = 10 << 20 // 10 MiB
	// minOverlap is the floor applied to pattern_len-1 when computing overlap.
	minOverlap = 1024
)

// Engine runs a configured Query against a shared file handle. Zero value
// is usable; Workers defaults to the machine's available parallelism when
// left at zero.
type Engine struct {
	Query   *Query
	Workers int
}

// Configure rebinds the engine to a freshly compiled query, mirroring the
// set_query entry point from the reference search engine.
func (e *Engine) Configure(pattern string, isRegex, caseSensitive bool) error {
	q, err := NewQuery(pattern, isRegex, caseSensitive)
	if err != nil {
		return err
	}
	e.Query = q
	return nil
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (e *Engine) overlap() int64 {
	o := int64(len(e.Query.Pattern)) - 1
	if o < minOverlap {
		o = minOverlap
	}
	return o
}

// decodeChunk is the §4.D.1 fast path: a batch's raw bytes are tried as
// UTF-8 first regardless of the handle's bound encoding, and only fall
// back to that encoding's decoder when the bytes aren't valid UTF-8.
// Mirrors the reference engine's unconditional std::str::from_utf8
// attempt before reaching for the configured decoder.
func decodeChunk(h *mmapfile.Handle, start, end int64) string {
	raw := h.Bytes(start, end)
	if utf8.Valid(raw) {
		return string(raw)
	}
	return h.Decode(start, end)
}

// send delivers msg on sink, respecting ctx cancellation so a worker never
// blocks forever on a consumer that has walked away.
func send(ctx context.Context, sink chan<- events.Message, msg events.Message) bool {
	select {
	case sink <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// Count runs the parallel counting phase (§4.D.1). It divides [0, len)
// into e.workers() contiguous ranges and has each worker batch through
// its range with overlap, emitting one CountResult per worker followed
// by a single Done(Count). Empty query or empty file short-circuits to
// an immediate zero-count Done, per §4.D.5.
func (e *Engine) Count(ctx context.Context, h *mmapfile.Handle, sink chan<- events.Message, cancel *atomic.Bool) {
	fileLen := h.Len()
	if fileLen == 0 || e.Query == nil || e.Query.IsEmpty() {
		send(ctx, sink, events.CountMessage(0))
		send(ctx, sink, events.DoneMessage(events.DoneCount))
		return
	}
	if e.Query.Regexp() == nil {
		send(ctx, sink, events.ErrorMessage("invalid regex: %s", e.Query.Pattern))
		return
	}

	numWorkers := e.workers()
	chunkSize := (fileLen + int64(numWorkers) - 1) / int64(numWorkers)
	overlap := e.overlap()
	re := e.Query.Regexp()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		threadStart := int64(i) * chunkSize
		if threadStart >= fileLen {
			break
		}
		threadEnd := threadStart + chunkSize
		if threadEnd > fileLen {
			threadEnd = fileLen
		}

		g.Go(func() error {
			count := countRange(gctx, h, re, threadStart, threadEnd, fileLen, overlap, cancel)
			if cancel.Load() {
				return nil
			}
			send(gctx, sink, events.CountMessage(count))
			return nil
		})
	}

	_ = g.Wait()
	if !cancel.Load() {
		send(ctx, sink, events.DoneMessage(events.DoneCount))
	}
	debug.LogSearch("count done query=%q workers=%d", e.Query.Pattern, numWorkers)
}

func countRange(ctx context.Context, h *mmapfile.Handle, re *regexp.Regexp, start, end, fileLen, overlap int64, cancel *atomic.Bool) int64 {
	var count int64
	pos := start
	for pos < end {
		if cancel.Load() {
			return count
		}
		select {
		case <-ctx.Done():
			return count
		default:
		}

		batchEnd := pos + CountBatchSize
		if batchEnd > end {
			batchEnd = end
		}
		readEnd := batchEnd + overlap
		if readEnd > fileLen {
			readEnd = fileLen
		}

		text := decodeChunk(h, pos, readEnd)
		for _, m := range re.FindAllStringIndex(text, -1) {
			if cancel.Load() {
				return count
			}
			absStart := pos + int64(m[0])
			if absStart >= batchEnd {
				continue
			}
			count++
		}
		pos = batchEnd
	}
	return count
}

// Fetch runs the sequential paginated fetch (§4.D.2). It walks from
// startOffset in FetchChunkSize chunks, accepting matches strictly before
// chunkEnd-overlap (or len at EOF), stopping once maxResults have been
// collected or EOF is reached. Emits one ChunkResult per non-empty chunk
// followed by Done(Fetch).
func (e *Engine) Fetch(ctx context.Context, h *mmapfile.Handle, sink chan<- events.Message, startOffset int64, maxResults int, cancel *atomic.Bool) {
	fileLen := h.Len()
	if fileLen == 0 || e.Query == nil || e.Query.IsEmpty() {
		send(ctx, sink, events.DoneMessage(events.DoneFetch))
		return
	}
	if e.Query.Regexp() == nil {
		send(ctx, sink, events.ErrorMessage("invalid regex: %s", e.Query.Pattern))
		return
	}

	re := e.Query.Regexp()
	overlap := e.overlap()
	chunkStart := startOffset
	resultsFound := 0

	for chunkStart < fileLen && resultsFound < maxResults {
		if cancel.Load() {
			return
		}

		chunkEnd := chunkStart + FetchChunkSize
		if chunkEnd > fileLen {
			chunkEnd = fileLen
		}

		validEnd := chunkEnd
		if chunkEnd < fileLen {
			validEnd = chunkEnd - overlap
		}

		text := decodeChunk(h, chunkStart, chunkEnd)
		var matches []events.Match
		for _, m := range re.FindAllStringIndex(text, -1) {
			if cancel.Load() {
				return
			}
			if resultsFound >= maxResults {
				break
			}
			absStart := chunkStart + int64(m[0])
			if absStart >= validEnd {
				continue
			}
			matches = append(matches, events.Match{ByteOffset: absStart, Len: int64(m[1] - m[0])})
			resultsFound++
		}

		if len(matches) > 0 {
			if !send(ctx, sink, events.ChunkMessage(matches)) {
				return
			}
		}

		if chunkEnd >= fileLen {
			break
		}
		chunkStart = chunkEnd - overlap
	}

	if !cancel.Load() {
		send(ctx, sink, events.DoneMessage(events.DoneFetch))
	}
}

// FindAll spawns a counter and a first-page fetcher concurrently for a
// "find all" request (§4.D.3). Their messages interleave on sink; the
// caller sums CountResults and accumulates the first page's ChunkResults.
func (e *Engine) FindAll(ctx context.Context, h *mmapfile.Handle, sink chan<- events.Message, firstPageSize int, cancel *atomic.Bool) {
	var g errgroup.Group
	g.Go(func() error {
		e.Count(ctx, h, sink, cancel)
		return nil
	})
	g.Go(func() error {
		e.Fetch(ctx, h, sink, 0, firstPageSize, cancel)
		return nil
	})
	_ = g.Wait()
}

// FindFirst spawns only a fetcher capped at a single result (§4.D.3).
func (e *Engine) FindFirst(ctx context.Context, h *mmapfile.Handle, sink chan<- events.Message, cancel *atomic.Bool) {
	e.Fetch(ctx, h, sink, 0, 1, cancel)
}

// FindInText returns all non-overlapping matches in a short string, used
// to colorize a visible line without touching the global match index
// (§4.D.4).
func (e *Engine) FindInText(text string) [][2]int {
	if e.Query == nil || e.Query.Regexp() == nil {
		return nil
	}
	locs := e.Query.Regexp().FindAllStringIndex(text, -1)
	if locs == nil {
		return nil
	}
	out := make([][2]int, len(locs))
	for i, loc := range locs {
		out[i] = [2]int{loc[0], loc[1]}
	}
	return out
}
