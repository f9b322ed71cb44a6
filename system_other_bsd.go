//go:build openbsd || netbsd || dragonfly

package kqwatch

import "golang.org/x/sys/unix"

// openMode and openNofollow for the BSDs without a quirk of their own
// (darwin and freebsd get their own files): a plain O_NOFOLLOW is enough
// to refuse to open a top-level watch target through a symlink.
const (
	openMode     = unix.O_RDONLY | unix.O_CLOEXEC
	openNofollow = unix.O_NOFOLLOW
)

// supportedFflags is the subset of Fflags these kernels' EVFILT_VNODE
// accepts; the open/close/read notes are FreeBSD extensions.
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
