//go:build freebsd

package kqwatch

import (
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// O_PATH only exists in x/sys/unix's FreeBSD build since release 14; until
// that lands upstream this is the raw value, gated to kernels new enough to
// support it below.
const o_path = 0x00400000

const openMode = unix.O_RDONLY | unix.O_NONBLOCK | unix.O_CLOEXEC

var openNofollow = func() int {
	var n unix.Utsname
	unix.Uname(&n)
	v, _, ok := strings.Cut(string(n.Release[:]), ".")
	if !ok {
		return 0
	}
	vv, _ := strconv.Atoi(v)
	if vv < 13 {
		return 0
	}
	return o_path | unix.O_NOFOLLOW
}()

// supportedFflags: FreeBSD's EVFILT_VNODE understands every bit this
// package defines, including the open/close/read notes added in 11.x.
const supportedFflags = NoteDelete | NoteWrite | NoteExtend | NoteAttrib |
	NoteLink | NoteRename | NoteRevoke | NoteOpen | NoteClose |
	NoteCloseWrite | NoteRead

var kqueueNotePairs = []notePair{
	{"NOTE_DELETE", NoteDelete, unix.NOTE_DELETE},
	{"NOTE_WRITE", NoteWrite, unix.NOTE_WRITE},
	{"NOTE_EXTEND", NoteExtend, unix.NOTE_EXTEND},
	{"NOTE_ATTRIB", NoteAttrib, unix.NOTE_ATTRIB},
	{"NOTE_LINK", NoteLink, unix.NOTE_LINK},
	{"NOTE_RENAME", NoteRename, unix.NOTE_RENAME},
	{"NOTE_REVOKE", NoteRevoke, unix.NOTE_REVOKE},
	{"NOTE_OPEN", NoteOpen, unix.NOTE_OPEN},
	{"NOTE_CLOSE", NoteClose, unix.NOTE_CLOSE},
	{"NOTE_CLOSE_WRITE", NoteCloseWrite, unix.NOTE_CLOSE_WRITE},
	{"NOTE_READ", NoteRead, unix.NOTE_READ},
}
