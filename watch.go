package kqwatch

// Watch is one EVFILT_VNODE registration tied to one open file descriptor.
// A Watch is either the USER watch (userRequested == true) that exists
// because a caller asked for it, or a DEPENDENCY watch that exists only
// while some directory entry justifies it.
//
// Back-references to the DepItems that justify a DEPENDENCY watch are kept
// as a set of pointers — the owning IWatch's DepList already keeps its
// items alive for the lifetime any Watch cares about, so a plain pointer
// set is enough; no separate arena or index is needed. The userRequested
// bool is what distinguishes the USER watch from a dependency one: the
// close rule is "len(deps) == 0 && !userRequested".
type Watch struct {
	iw            *IWatch // non-owning back-reference, for navigation only
	fd            int
	inode         uint64
	typ           FileType
	userRequested bool
	fflags        Fflags
	deps          map[*DepItem]struct{}
}

func newWatch(iw *IWatch, fd int, inode uint64, typ FileType, userRequested bool) *Watch {
	return &Watch{
		iw:            iw,
		fd:            fd,
		inode:         inode,
		typ:           typ,
		userRequested: userRequested,
		deps:          make(map[*DepItem]struct{}),
	}
}

// init registers fd with the owning IWatch's worker for the fflags the
// translator currently computes for this watch. The caller closes fd on
// failure.
func (w *Watch) init() error {
	return w.registerEvent(InotifyToKqueue(w.iw.flags, w.typ, w.userRequested))
}

// registerEvent replaces the kqueue registration with fflags. Bits the
// platform's EVFILT_VNODE doesn't define (the open/close/read notes
// outside FreeBSD) are stripped at this boundary; w.fflags still records
// the full requested set so flag-change detection stays platform-neutral.
func (w *Watch) registerEvent(fflags Fflags) error {
	if err := w.iw.wrk.Register(w.fd, fflags&supportedFflags, uintptr(w.inode)); err != nil {
		return err
	}
	w.fflags = fflags
	return nil
}

// required returns the fflags the translator currently computes for this
// watch given the owning IWatch's mask.
func (w *Watch) required() Fflags {
	return InotifyToKqueue(w.iw.flags, w.typ, w.userRequested)
}

// depCount reports how many dependencies currently justify this watch.
func (w *Watch) depCount() int { return len(w.deps) }

// hasDep reports whether di is among this watch's current dependencies.
func (w *Watch) hasDep(di *DepItem) bool {
	_, ok := w.deps[di]
	return ok
}

// addDep appends di to the watch's dependency set and re-registers if the
// addition changes the required fflag set. It reports whether the
// translator currently computes no interest at all for this watch — the
// caller (IWatch's hold step) uses that to decide whether to tear the
// watch back down when di was its only dependency.
func (w *Watch) addDep(di *DepItem) (noop bool, err error) {
	w.deps[di] = struct{}{}
	req := w.required()
	if req != w.fflags {
		if err := w.registerEvent(req); err != nil {
			delete(w.deps, di)
			return false, err
		}
	}
	return req == 0, nil
}

// delDep removes di. If deps becomes empty and the watch is not the USER
// watch, it removes itself from the owning IWatch's watch-set, deregisters,
// and closes its fd. Reports whether the watch was torn down.
func (w *Watch) delDep(di *DepItem) (closed bool, err error) {
	delete(w.deps, di)
	if len(w.deps) > 0 || w.userRequested {
		return false, nil
	}
	w.iw.watches.Remove(w.inode)
	if err := w.iw.wrk.Deregister(w.fd); err != nil {
		// Deregister failures are ignored: closing fd implicitly drops the
		// kqueue registration anyway.
		_ = err
	}
	closeFD(w.fd)
	return true, nil
}

// chgDep atomically substitutes from for to: used for a rename where the
// inode is unchanged, so the Watch, its fd, and its kqueue registration are
// untouched — only the dependency bookkeeping moves.
func (w *Watch) chgDep(from, to *DepItem) bool {
	if _, ok := w.deps[from]; !ok {
		return false
	}
	delete(w.deps, from)
	w.deps[to] = struct{}{}
	return true
}
