package kqwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInotifyToKqueueParentDirNeedsWriteForChildEvents(t *testing.T) {
	// A directory's own CREATE/DELETE/MOVED_* interest is only observable
	// by noticing its content changed, i.e. NOTE_WRITE.
	assert.Equal(t, NoteWrite, InotifyToKqueue(INCreate, TypeDir, true))
	assert.Equal(t, NoteWrite, InotifyToKqueue(INDelete, TypeDir, true))
	assert.Equal(t, NoteWrite, InotifyToKqueue(INMovedFrom, TypeDir, true))
}

func TestInotifyToKqueueCreateAloneNeedsNoChildWatch(t *testing.T) {
	// A dependency watch on a regular file that only wants to know about
	// CREATE (a directory-level event) should never be opened at all.
	assert.Equal(t, Fflags(0), InotifyToKqueue(INCreate, TypeRegular, false))
}

func TestInotifyToKqueueModifyOnDirectoryIsNotChildCreate(t *testing.T) {
	// IN_MODIFY on a directory watch must not be satisfied by the same
	// NOTE_WRITE that also signals "rescan for CREATE/DELETE" — that would
	// make plain content-change rescans fire even when the caller never
	// asked for CREATE/DELETE/MOVED_*.
	assert.Equal(t, Fflags(0), InotifyToKqueue(INModify, TypeDir, true))
}

func TestInotifyToKqueueDependencyWantingDeleteGetsDeleteAndRename(t *testing.T) {
	// Asking for IN_DELETE on a child pulls in NOTE_RENAME too, since a
	// dependency watch can't tell "deleted" from "renamed away" without it.
	f := InotifyToKqueue(INDelete, TypeRegular, false)
	assert.Equal(t, NoteDelete|NoteRename, f)
}

func TestInotifyToKqueueMonotonic(t *testing.T) {
	// Adding bits to mask never removes bits from the translated result.
	masks := []InotifyMask{
		INAccess, INModify, INAttrib, INOpen, INCloseWrite, INCloseNowrite,
		INCreate, INDelete, INMovedFrom, INMovedTo, INDeleteSelf, INMoveSelf,
	}
	for _, typ := range []FileType{TypeRegular, TypeDir} {
		for _, isParent := range []bool{true, false} {
			var acc InotifyMask
			var prev Fflags
			for _, m := range masks {
				acc |= m
				got := InotifyToKqueue(acc, typ, isParent)
				assert.Equal(t, prev, got&prev, "typ=%v isParent=%v mask=%v lost a bit when adding %v", typ, isParent, acc, m)
				prev = got
			}
		}
	}
}

func TestKqueueToInotifyRoundTripsDirectEvents(t *testing.T) {
	assert.Equal(t, INOpen, KqueueToInotify(NoteOpen, TypeRegular, false))
	assert.Equal(t, INAccess, KqueueToInotify(NoteRead, TypeRegular, false))
	assert.Equal(t, INCloseWrite, KqueueToInotify(NoteCloseWrite, TypeRegular, false))
	assert.Equal(t, INCloseNowrite, KqueueToInotify(NoteClose, TypeRegular, false))
	assert.Equal(t, INDeleteSelf, KqueueToInotify(NoteDelete, TypeRegular, false))
	assert.Equal(t, INMoveSelf, KqueueToInotify(NoteRename, TypeRegular, false))
}

func TestKqueueToInotifyWriteOnParentDirIsNotModify(t *testing.T) {
	// NOTE_WRITE on a directory's own parent watch means "rescan me", not
	// IN_MODIFY — the caller (Registry) interprets it via Rescan instead.
	assert.Equal(t, InotifyMask(0), KqueueToInotify(NoteWrite, TypeDir, true))
	assert.Equal(t, INModify, KqueueToInotify(NoteWrite, TypeRegular, false))
}
