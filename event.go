// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kqwatch implements the inotify watch-descriptor model on top of
// BSD kqueue's EVFILT_VNODE filter.
//
// inotify watches are path-oriented and deliver events for a directory's
// children without the caller having to open each child itself; kqueue only
// ever reports events for the single vnode a kevent is registered against.
// This package bridges the two: one call to IWatch.Init opens a vnode watch
// on the target and, if it is a directory, a dependent vnode watch on every
// entry it currently contains, then keeps that dependent set in sync as
// entries are created, removed, renamed, or replaced.
//
// IWatch does not open a kqueue itself or read from one; that is the
// Worker contract (see worker.go). kqworker.go supplies a reference
// implementation for callers who don't already own a kqueue loop.
package kqwatch

import "fmt"

// FileType is a lightweight stat-mode hint carried on a DepItem so the flag
// translator (see flags.go) can decide which kqueue fflags are worth
// registering without re-stat'ing.
type FileType uint8

const (
	TypeUnknown FileType = iota
	TypeRegular
	TypeDir
	TypeSymlink
	TypeFifo
	TypeSocket
	TypeBlockDev
	TypeCharDev
)

func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeDir:
		return "dir"
	case TypeSymlink:
		return "symlink"
	case TypeFifo:
		return "fifo"
	case TypeSocket:
		return "socket"
	case TypeBlockDev:
		return "blockdev"
	case TypeCharDev:
		return "chardev"
	default:
		return "unknown"
	}
}

// Event is the (wd, mask, cookie, name) tuple Registry delivers on Events
// after translating a kqueue notification through the flag translator's
// inverse direction (see flags.go) or a directory rescan. Cookie pairs a MovedFrom with the
// MovedTo that belongs to the same rename, scoped to one directory scan;
// it is 0 for every other event.
type Event struct {
	Wd     int
	Mask   InotifyMask
	Cookie uint32
	Name   string
}

func (e Event) String() string {
	if e.Cookie != 0 {
		return fmt.Sprintf("wd=%d %s cookie=%d %q", e.Wd, e.Mask, e.Cookie, e.Name)
	}
	return fmt.Sprintf("wd=%d %s %q", e.Wd, e.Mask, e.Name)
}
