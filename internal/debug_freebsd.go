package internal

import "golang.org/x/sys/unix"

// noteNames covers the EVFILT_VNODE notes freebsd can deliver, including
// the open/close/read set the other BSDs don't have.
var noteNames = []struct {
	n string
	m uint32
}{
	{"NOTE_ATTRIB", unix.NOTE_ATTRIB},
	{"NOTE_CLOSE", unix.NOTE_CLOSE},
	{"NOTE_CLOSE_WRITE", unix.NOTE_CLOSE_WRITE},
	{"NOTE_DELETE", unix.NOTE_DELETE},
	{"NOTE_EXTEND", unix.NOTE_EXTEND},
	{"NOTE_LINK", unix.NOTE_LINK},
	{"NOTE_OPEN", unix.NOTE_OPEN},
	{"NOTE_READ", unix.NOTE_READ},
	{"NOTE_RENAME", unix.NOTE_RENAME},
	{"NOTE_REVOKE", unix.NOTE_REVOKE},
	{"NOTE_WRITE", unix.NOTE_WRITE},
}
