package kqwatch

import "strings"

// Fflags mirrors the EVFILT_VNODE NOTE_* bits from <sys/event.h>. Values are
// pinned to match golang.org/x/sys/unix's NOTE_* constants (checked by an
// init-time assertion in kqworker.go). Keeping this file, the translator,
// and the dependency-tracking core (DepItem, DepList, Watch, WatchSet)
// free of golang.org/x/sys/unix imports lets them build and unit-test on
// any non-Windows GOOS, even though the library only runs on kqueue
// platforms.
type Fflags uint32

const (
	NoteDelete     Fflags = 0x0001
	NoteWrite      Fflags = 0x0002
	NoteExtend     Fflags = 0x0004
	NoteAttrib     Fflags = 0x0008
	NoteLink       Fflags = 0x0010
	NoteRename     Fflags = 0x0020
	NoteRevoke     Fflags = 0x0040
	NoteOpen       Fflags = 0x0080
	NoteClose      Fflags = 0x0100
	NoteCloseWrite Fflags = 0x0200
	NoteRead       Fflags = 0x0400
)

var fflagNames = []struct {
	bit  Fflags
	name string
}{
	{NoteDelete, "DELETE"},
	{NoteWrite, "WRITE"},
	{NoteExtend, "EXTEND"},
	{NoteAttrib, "ATTRIB"},
	{NoteLink, "LINK"},
	{NoteRename, "RENAME"},
	{NoteRevoke, "REVOKE"},
	{NoteOpen, "OPEN"},
	{NoteClose, "CLOSE"},
	{NoteCloseWrite, "CLOSE_WRITE"},
	{NoteRead, "READ"},
}

func (f Fflags) String() string {
	var names []string
	for _, n := range fflagNames {
		if f&n.bit == n.bit {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}
