//go:build freebsd || openbsd || netbsd || dragonfly || darwin

package kqwatch

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/libinotify/kqwatch/internal"
)

// notePair pins one package-local Fflags constant to the unix.NOTE_*
// value it must equal. The table itself lives in the per-GOOS system_*.go
// files: NOTE_OPEN/NOTE_CLOSE/NOTE_CLOSE_WRITE/NOTE_READ only exist in
// FreeBSD's <sys/event.h>, so the other platforms assert a shorter list.
type notePair struct {
	name string
	got  Fflags
	want uint32
}

// init asserts the Fflags constants this package was hand-written with
// still match golang.org/x/sys/unix's NOTE_* values on whatever kqueue
// platform this binary was built for. flags.go and fflags.go are
// deliberately free of a unix import so they can be unit-tested on any
// GOOS; this assertion is what keeps that independence honest.
func init() {
	for _, p := range kqueueNotePairs {
		if uint32(p.got) != p.want {
			panic(fmt.Sprintf("kqwatch: Fflags constant for %s (0x%x) disagrees with unix.%s (0x%x)", p.name, p.got, p.name, p.want))
		}
	}
}

// KQWorker is the reference Worker implementation: it owns the process's
// kqueue descriptor, registers/deregisters EVFILT_VNODE interest, and runs
// the blocking read loop that turns ready kevents into callbacks. It
// deliberately keeps routing (which IWatch a kevent belongs to, whether it
// implies a rescan) out of the worker entirely — a kevent's Ident is
// already the fd Register was called with, which is all the caller needs
// to look the Watch back up itself, so KQWorker just forwards (fd, fflags)
// pairs.
type KQWorker struct {
	kq        int
	closepipe [2]int

	onEvent func(fd int, fflags Fflags)
	onError func(err error)

	closeOnce sync.Once
}

// NewKQWorker opens a kqueue descriptor and the self-pipe used to unblock
// Run from Close.
func NewKQWorker(onEvent func(fd int, fflags Fflags), onError func(err error)) (*KQWorker, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}

	var pipe [2]int
	if err := unix.Pipe(pipe[:]); err != nil {
		unix.Close(kq)
		return nil, err
	}
	unix.CloseOnExec(pipe[0])
	unix.CloseOnExec(pipe[1])

	changes := make([]unix.Kevent_t, 1)
	unix.SetKevent(&changes[0], pipe[0], unix.EVFILT_READ, unix.EV_ADD|unix.EV_ENABLE|unix.EV_ONESHOT)
	if ok, err := unix.Kevent(kq, changes, nil, nil); ok == -1 {
		unix.Close(kq)
		unix.Close(pipe[0])
		unix.Close(pipe[1])
		return nil, err
	}

	return &KQWorker{
		kq:        kq,
		closepipe: pipe,
		onEvent:   onEvent,
		onError:   onError,
	}, nil
}

// KqueueFD implements Worker.
func (k *KQWorker) KqueueFD() int { return k.kq }

// Register implements Worker by installing an EV_ADD|EV_CLEAR registration
// for fd with the given fflags, replacing whatever was there before. udata
// is accepted to satisfy the Worker interface but isn't needed here: Run
// already gets fd straight off the kevent's Ident field.
func (k *KQWorker) Register(fd int, fflags Fflags, udata uintptr) error {
	changes := make([]unix.Kevent_t, 1)
	unix.SetKevent(&changes[0], fd, unix.EVFILT_VNODE, unix.EV_ADD|unix.EV_CLEAR|unix.EV_ENABLE)
	changes[0].Fflags = uint32(fflags)
	if ok, err := unix.Kevent(k.kq, changes, nil, nil); ok == -1 {
		return err
	}
	return nil
}

// Deregister implements Worker. EV_DELETE on an fd whose registration the
// kernel already dropped (e.g. because it was closed) returns ENOENT;
// callers ignore that failure, so it's not worth distinguishing here.
func (k *KQWorker) Deregister(fd int) error {
	changes := make([]unix.Kevent_t, 1)
	unix.SetKevent(&changes[0], fd, unix.EVFILT_VNODE, unix.EV_DELETE)
	if ok, err := unix.Kevent(k.kq, changes, nil, nil); ok == -1 {
		return err
	}
	return nil
}

// Run blocks, delivering each ready kevent to onEvent, until Close is
// called. It is meant to be run in its own goroutine.
func (k *KQWorker) Run() {
	buf := make([]unix.Kevent_t, 16)
	for {
		n, err := unix.Kevent(k.kq, nil, buf, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if k.onError != nil {
				k.onError(err)
			}
			return
		}

		for _, ev := range buf[:n] {
			fd := int(ev.Ident)
			if fd == k.closepipe[0] {
				return
			}
			internal.Debug(fd, uint32(ev.Fflags))
			k.onEvent(fd, Fflags(ev.Fflags))
		}
	}
}

// Close unblocks Run and releases the kqueue descriptor. Safe to call more
// than once.
func (k *KQWorker) Close() {
	k.closeOnce.Do(func() {
		unix.Close(k.closepipe[1])
		unix.Close(k.kq)
	})
}
