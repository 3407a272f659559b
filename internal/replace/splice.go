package replace

import (
	"os"
	"sort"

	lerrors "github.com/largefile/ltv/internal/errors"
)

// PendingEdit is a staged pointwise replacement not yet written to disk
// (§4.E.2's "pending edit"). Offset and OldLen describe the byte range
// being replaced; NewText is its replacement.
type PendingEdit struct {
	Offset  int64
	OldLen  int64
	NewText []byte
}

// Splice rewrites path in place: it writes NewText at Offset and, if the
// new length differs from OldLen, shifts the remainder of the file left
// or right and truncates to the new size. The caller is expected to have
// closed any mapped handle over path before calling this and to reopen
// one afterward. A failure partway through a shift leaves the file in an
// inconsistent state; this is documented, not masked (§4.E.3).
func Splice(path string, edit PendingEdit) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return lerrors.NewSpliceError(path, edit.Offset, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return lerrors.NewSpliceError(path, edit.Offset, err)
	}
	fileLen := info.Size()

	delta := int64(len(edit.NewText)) - edit.OldLen
	oldTailStart := edit.Offset + edit.OldLen
	newTailStart := edit.Offset + int64(len(edit.NewText))

	if delta == 0 {
		if _, err := f.WriteAt(edit.NewText, edit.Offset); err != nil {
			return lerrors.NewSpliceError(path, edit.Offset, err)
		}
		return nil
	}

	tailLen := fileLen - oldTailStart
	if tailLen > 0 {
		tail := make([]byte, tailLen)
		if _, err := f.ReadAt(tail, oldTailStart); err != nil {
			return lerrors.NewSpliceError(path, edit.Offset, err)
		}
		if _, err := f.WriteAt(tail, newTailStart); err != nil {
			return lerrors.NewSpliceError(path, edit.Offset, err)
		}
	}

	if _, err := f.WriteAt(edit.NewText, edit.Offset); err != nil {
		return lerrors.NewSpliceError(path, edit.Offset, err)
	}

	newFileLen := fileLen + delta
	if err := f.Truncate(newFileLen); err != nil {
		return lerrors.NewSpliceError(path, edit.Offset, err)
	}
	return nil
}

// ApplyPending commits a batch of staged edits in decreasing order of
// offset, so that splicing a later edit never invalidates the offset
// recorded for an earlier (lower-offset) one still pending.
func ApplyPending(path string, edits []PendingEdit) error {
	sorted := make([]PendingEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset > sorted[j].Offset })

	for _, e := range sorted {
		if err := Splice(path, e); err != nil {
			return err
		}
	}
	return nil
}
