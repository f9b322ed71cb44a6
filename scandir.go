package kqwatch

import (
	"os"
	"syscall"
)

// ScanDir snapshots path's entries into a fresh DepList, one item per
// entry excluding "." and "..", with a type hint read from the directory
// entry itself (Go's analogue of d_type). The inode comes from an lstat of
// each entry (DirEntry.Info); an entry whose lstat fails is recorded with
// inode 0. A scan failure returns a nil list.
//
// This scans by path rather than by rewinding the directory fd IWatch
// already holds open for kqueue purposes — os.ReadDir has no portable way
// to reset a directory stream's position, so reopening by path on every
// rescan is simplest.
func ScanDir(path string) *DepList {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}

	list := NewDepList()
	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." {
			continue
		}

		var inode uint64
		if info, err := e.Info(); err == nil {
			if st, ok := info.Sys().(*syscall.Stat_t); ok {
				inode = st.Ino
			}
		}
		list.Append(newDepItem(name, inode, dirEntryType(e)))
	}
	return list
}

// dirEntryType maps a directory entry's mode bits to a FileType without an
// extra stat(2) call — the Go equivalent of reading d_type straight out of
// the directory stream.
func dirEntryType(e os.DirEntry) FileType {
	switch {
	case e.Type()&os.ModeSymlink != 0:
		return TypeSymlink
	case e.Type().IsDir():
		return TypeDir
	case e.Type()&os.ModeNamedPipe != 0:
		return TypeFifo
	case e.Type()&os.ModeSocket != 0:
		return TypeSocket
	case e.Type()&os.ModeDevice != 0:
		if e.Type()&os.ModeCharDevice != 0 {
			return TypeCharDev
		}
		return TypeBlockDev
	case e.Type().IsRegular():
		return TypeRegular
	default:
		return TypeUnknown
	}
}
