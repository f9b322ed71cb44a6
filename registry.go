//go:build freebsd || openbsd || netbsd || dragonfly || darwin

package kqwatch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/libinotify/kqwatch/internal"
)

// Registry is the user-facing inotify instance. It allocates watch
// descriptors, owns one IWatch per watched path, and turns kevents
// arriving on its KQWorker into the (wd, mask, cookie, name) tuples
// inotify callers expect, delivered on Events.
type Registry struct {
	opts  Options
	inner *KQWorker

	mu      sync.Mutex
	nextWd  int
	byWd    map[int]*regEntry
	byPath  map[string]int
	fdOwner map[int]*IWatch
	closed  bool

	Events chan Event
	Errors chan error
}

type regEntry struct {
	wd   int
	path string
	iw   *IWatch
}

// NewRegistry opens a kqueue and returns a Registry ready to accept Add
// calls. The caller must arrange for a goroutine to run until Close; use
// Run for that goroutine's body.
func NewRegistry(opts Options) (*Registry, error) {
	r := &Registry{
		opts:    opts,
		byWd:    make(map[int]*regEntry),
		byPath:  make(map[string]int),
		fdOwner: make(map[int]*IWatch),
		Events:  make(chan Event),
		Errors:  make(chan error),
	}

	wrk, err := NewKQWorker(r.handleEvent, r.handleError)
	if err != nil {
		return nil, err
	}
	r.inner = wrk
	return r, nil
}

// Run drains the underlying kqueue until Close is called. It returns when
// the worker loop stops, after which Events and Errors are closed.
func (r *Registry) Run() {
	defer close(r.Events)
	defer close(r.Errors)
	r.inner.Run()
}

// Close removes every watch and stops the worker loop.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	entries := make([]*regEntry, 0, len(r.byWd))
	for _, e := range r.byWd {
		entries = append(entries, e)
	}
	r.byWd = map[int]*regEntry{}
	r.byPath = map[string]int{}
	r.mu.Unlock()

	for _, e := range entries {
		e.iw.Free()
	}
	r.inner.Close()
	return nil
}

// Add is inotify_add_watch: watch path under mask, returning its watch
// descriptor. Adding a path that is already watched merges or replaces its
// mask (governed by Options.MaskAddSemantics and mask's INMaskAdd bit) and
// returns the existing descriptor rather than allocating a new one.
func (r *Registry) Add(path string, mask InotifyMask) (int, error) {
	path = filepath.Clean(path)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, ErrClosed
	}
	if wd, ok := r.byPath[path]; ok {
		entry := r.byWd[wd]
		r.mu.Unlock()
		entry.iw.UpdateFlags(mask)
		return wd, nil
	}
	r.mu.Unlock()

	flags := openMode
	if !r.opts.FollowSymlinks {
		flags |= openNofollow
	}
	fd, err := internal.IgnoringEINTR(func() (int, error) {
		return unix.Open(path, flags, 0)
	})
	if err != nil {
		return 0, fmt.Errorf("kqwatch: open %s: %w", path, err)
	}

	iw := NewIWatch(nil, r.opts)
	iw.wrk = &iwatchWorker{reg: r, iw: iw}
	if err := iw.Init(fd, path, mask); err != nil {
		unix.Close(fd)
		return 0, fmt.Errorf("kqwatch: %s: %w", path, err)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		iw.Free()
		return 0, ErrClosed
	}
	r.nextWd++
	wd := r.nextWd
	r.byWd[wd] = &regEntry{wd: wd, path: path, iw: iw}
	r.byPath[path] = wd
	r.mu.Unlock()

	return wd, nil
}

// Remove is inotify_rm_watch: stop watching wd and release every fd it
// held.
func (r *Registry) Remove(wd int) error {
	r.mu.Lock()
	entry, ok := r.byWd[wd]
	if !ok {
		r.mu.Unlock()
		return ErrNonExistentWatch
	}
	delete(r.byWd, wd)
	delete(r.byPath, entry.path)
	r.mu.Unlock()

	entry.iw.Free()
	r.Events <- Event{Wd: wd, Mask: INIgnored}
	return nil
}

func (r *Registry) bindFD(fd int, iw *IWatch) {
	r.mu.Lock()
	r.fdOwner[fd] = iw
	r.mu.Unlock()
}

func (r *Registry) unbindFD(fd int) {
	r.mu.Lock()
	delete(r.fdOwner, fd)
	r.mu.Unlock()
}

func (r *Registry) ownerOf(fd int) (*IWatch, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iw := r.fdOwner[fd]
	if iw == nil {
		return nil, 0
	}
	for wd, e := range r.byWd {
		if e.iw == iw {
			return iw, wd
		}
	}
	return nil, 0
}

// handleEvent is the KQWorker callback: it resolves fd back to an IWatch
// and a watch descriptor, decides whether the fflags imply a directory
// rescan or a direct event, and pushes the result onto Events.
func (r *Registry) handleEvent(fd int, fflags Fflags) {
	iw, wd := r.ownerOf(fd)
	if iw == nil {
		return
	}

	w, isParent, names := iw.Describe(fd)
	if w == nil {
		return
	}

	if isParent && iw.typ == TypeDir && fflags&NoteWrite != 0 {
		for _, ev := range iw.Rescan() {
			r.Events <- Event{Wd: wd, Mask: ev.Mask, Cookie: ev.Cookie, Name: ev.Name}
		}
	}

	mask := KqueueToInotify(fflags, w.typ, isParent)
	if mask == 0 {
		return
	}

	if isParent {
		r.Events <- Event{Wd: wd, Mask: mask}
		return
	}

	sort.Strings(names)
	for _, name := range names {
		r.Events <- Event{Wd: wd, Mask: mask, Name: name}
	}
}

func (r *Registry) handleError(err error) {
	r.Errors <- err
}

// iwatchWorker adapts Registry's single shared KQWorker into a per-IWatch
// Worker, so every Register/Deregister call an IWatch makes also updates
// Registry's fd-to-IWatch index — the index handleEvent needs to route a
// kevent back to the watch it belongs to.
type iwatchWorker struct {
	reg *Registry
	iw  *IWatch
}

func (w *iwatchWorker) KqueueFD() int { return w.reg.inner.KqueueFD() }

func (w *iwatchWorker) Register(fd int, fflags Fflags, udata uintptr) error {
	if err := w.reg.inner.Register(fd, fflags, udata); err != nil {
		return err
	}
	w.reg.bindFD(fd, w.iw)
	return nil
}

func (w *iwatchWorker) Deregister(fd int) error {
	w.reg.unbindFD(fd)
	return w.reg.inner.Deregister(fd)
}
