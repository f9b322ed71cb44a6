//go:build darwin

package kqwatch

import "golang.org/x/sys/unix"

// openMode and openNofollow are the flags Registry.Add opens a top-level
// watch target with — children are always opened no-follow regardless of
// this; this is only the USER watch's own open, which honors
// Options.FollowSymlinks. O_EVTONLY tells the kernel this descriptor is
// for event monitoring only, letting a watch sit on a mounted volume
// without blocking unmount.
const (
	openMode     = unix.O_EVTONLY | unix.O_CLOEXEC
	openNofollow = unix.O_SYMLINK
)

// supportedFflags is the subset of Fflags darwin's EVFILT_VNODE accepts.
// NOTE_OPEN/NOTE_CLOSE/NOTE_CLOSE_WRITE/NOTE_READ are FreeBSD extensions,
// and their bit values mean other things here (0x80 is NOTE_NONE), so they
// must be stripped before reaching kevent.
const supportedFflags = NoteDelete | NoteWrite | NoteExtend | NoteAttrib |
	NoteLink | NoteRename | NoteRevoke

var kqueueNotePairs = []notePair{
	{"NOTE_DELETE", NoteDelete, unix.NOTE_DELETE},
	{"NOTE_WRITE", NoteWrite, unix.NOTE_WRITE},
	{"NOTE_EXTEND", NoteExtend, unix.NOTE_EXTEND},
	{"NOTE_ATTRIB", NoteAttrib, unix.NOTE_ATTRIB},
	{"NOTE_LINK", NoteLink, unix.NOTE_LINK},
	{"NOTE_RENAME", NoteRename, unix.NOTE_RENAME},
	{"NOTE_REVOKE", NoteRevoke, unix.NOTE_REVOKE},
}
