package kqwatch

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// IWatch is the core of this package: one user-visible watch. It owns a
// parent vnode watch on the target itself and, if the target is a
// directory, a dependent vnode watch on every entry it currently
// contains, keeping that dependent set in sync as entries are created,
// removed, renamed, or replaced.
//
// IWatch only needs Openat/Fstat/Fstatat from golang.org/x/sys/unix, all of
// which have identical signatures on every unix GOOS x/sys/unix supports —
// so, unlike kqworker.go, this file carries no kqueue-platform build
// constraint and its tests can run on Linux CI even though the library
// only ships a Worker for BSD kqueue.
type IWatch struct {
	wrk   Worker
	fd    int
	inode uint64
	dev   uint64
	typ   FileType

	flags        InotifyMask
	watches      *WatchSet
	deps         *DepList
	closed       bool
	skipSubfiles bool

	path string
	opts Options
}

// RescanEvent is one inotify event synthesized by a directory rescan. It
// carries no watch descriptor — assigning one is Registry's job, not the
// core's.
type RescanEvent struct {
	Mask   InotifyMask
	Cookie uint32
	Name   string
}

// NewIWatch allocates an IWatch bound to wrk and opts but not yet backed by
// any fd. It is split from Init so a Worker implementation that needs to
// know which IWatch a registration belongs to (Registry does) can close
// over the returned pointer before the first Register call happens inside
// Init.
func NewIWatch(wrk Worker, opts Options) *IWatch {
	return &IWatch{wrk: wrk, opts: opts, watches: NewWatchSet(), deps: NewDepList()}
}

// Init fstats fd, snapshots its directory (if it is one), opens the
// parent watch, and best-effort opens a dependency watch on every entry
// the snapshot found. A directory scan failure is init-fatal; a single
// subwatch failure is not.
func (iw *IWatch) Init(fd int, path string, mask InotifyMask) error {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return err
	}

	iw.fd = fd
	iw.inode = st.Ino
	iw.dev = uint64(st.Dev)
	iw.typ = statType(uint32(st.Mode))
	iw.flags = mask &^ INMaskAdd
	iw.path = path

	if iw.typ == TypeDir {
		snap := ScanDir(path)
		if snap == nil {
			return syscall.EIO
		}
		iw.deps = snap

		if fstype, err := fsTypeName(fd); err == nil && iw.opts.skipFS(fstype) {
			iw.skipSubfiles = true
		}
	}

	parent := newWatch(iw, fd, iw.inode, iw.typ, true)
	if err := parent.init(); err != nil {
		return err
	}
	if err := iw.watches.Insert(parent); err != nil {
		return err
	}

	if iw.typ == TypeDir {
		for _, di := range iw.deps.All() {
			iw.addSubwatch(di)
		}
	}
	return nil
}

// AddSubwatch opens a dependency watch for di, or adopts/elides one per
// the decision order below. It is exported so a Worker can call it again
// for entries that show up on a later rescan; the decision order below is
// load-bearing — later steps assume earlier ones already ran.
func (iw *IWatch) AddSubwatch(di *DepItem) (*Watch, error) {
	return iw.addSubwatch(di), nil
}

func (iw *IWatch) addSubwatch(di *DepItem) *Watch {
	if iw.closed {
		return nil
	}
	if iw.skipSubfiles {
		iw.lstatFallback(di)
		return nil
	}

	// Step 3: adopt an existing watch on the same inode (hardlink, or a
	// rename into a name that collides with an already-watched inode).
	if existing := iw.watches.Find(di.inode); existing != nil {
		di.setType(existing.typ)
		return iw.hold(existing, di)
	}

	// Step 4: elide watches the translator says would observe nothing.
	if di.typ != TypeUnknown && InotifyToKqueue(iw.flags, di.typ, false) == 0 {
		return nil
	}

	// Step 5: open by name relative to the parent, never following a
	// symlink — subwatches are always opened no-follow, regardless of
	// Options.FollowSymlinks.
	childFD, err := unix.Openat(iw.fd, di.name, unix.O_RDONLY|unix.O_NOFOLLOW|unix.O_CLOEXEC, 0)
	if err != nil {
		iw.report(di.name, err)
		iw.lstatFallback(di)
		return nil
	}

	// Step 6: fstat the opened fd.
	var st unix.Stat_t
	if err := unix.Fstat(childFD, &st); err != nil {
		iw.report(di.name, err)
		closeFD(childFD)
		iw.lstatFallback(di)
		return nil
	}
	newTyp := statType(uint32(st.Mode))

	// Step 7: reconcile the inode seen at open time against the one
	// recorded at scan time.
	switch {
	case st.Ino == di.inode:
		// Accept: nothing changed between scan and open.
	case uint64(st.Dev) != iw.dev:
		// Mountpoint: keep the underlying-directory inode so the caller
		// sees the mountpoint, not whatever is mounted on it. newTyp and
		// childFD describe what's actually there now.
	default:
		// Replace-in-place race: the entry was swapped for a different
		// file of the same name on the same device between scan and open.
		di.setInode(st.Ino)
		if existing := iw.watches.Find(st.Ino); existing != nil {
			closeFD(childFD)
			di.setType(existing.typ)
			return iw.hold(existing, di)
		}
	}

	w := newWatch(iw, childFD, di.inode, newTyp, false)
	if err := w.init(); err != nil {
		iw.report(di.name, err)
		closeFD(childFD)
		iw.lstatFallback(di)
		return nil
	}
	if err := iw.watches.Insert(w); err != nil {
		// Can only happen if step 7's reconciliation raced again after
		// our lookup; treat like any other soft failure.
		iw.report(di.name, err)
		closeFD(childFD)
		return nil
	}
	di.setType(newTyp)
	return iw.hold(w, di)
}

// hold appends di to w's dependents, and if that addition turned out to
// want no kqueue interest at all and di was the watch's only dependent,
// tears the watch back down.
func (iw *IWatch) hold(w *Watch, di *DepItem) *Watch {
	noop, err := w.addDep(di)
	if err != nil {
		// addDep already dropped di again; w survives only if some other
		// dep still justifies it.
		iw.report(di.name, err)
		if w.depCount() == 0 && !w.userRequested {
			iw.teardown(w)
			return nil
		}
		return w
	}
	// di landed in w.deps, so on the no-op path "no other deps" means a
	// count of exactly one. The USER watch is exempt: its user-requested
	// hold keeps it alive regardless.
	if noop && w.depCount() == 1 && !w.userRequested {
		iw.teardown(w)
		return nil
	}
	return w
}

// teardown forcibly removes w from the watch-set and closes its fd,
// regardless of userRequested — used for the parent watch at Free and for
// a dependency watch whose only dependent turned out to want nothing.
func (iw *IWatch) teardown(w *Watch) {
	iw.watches.Remove(w.inode)
	_ = iw.wrk.Deregister(w.fd)
	closeFD(w.fd)
}

// lstatFallback fills in di's type via fstatat without following
// symlinks, for entries that were never opened.
func (iw *IWatch) lstatFallback(di *DepItem) {
	if di.typ != TypeUnknown {
		return
	}
	var st unix.Stat_t
	if err := unix.Fstatat(iw.fd, di.name, &st, unix.AT_SYMLINK_NOFOLLOW); err == nil {
		di.setType(statType(uint32(st.Mode)))
	}
}

// DelSubwatch retires di's hold on its watch, tearing the watch down if
// di was its last dependent.
func (iw *IWatch) DelSubwatch(di *DepItem) {
	w := iw.watches.Find(di.inode)
	if w == nil {
		return
	}
	if _, err := w.delDep(di); err != nil {
		iw.report(di.name, err)
	}
}

// MoveSubwatch retargets a watch's dependent from diFrom to diTo in
// place. Its precondition is diFrom.inode == diTo.inode; callers that
// violate it get false back rather than a corrupted watch.
func (iw *IWatch) MoveSubwatch(diFrom, diTo *DepItem) bool {
	if diFrom.inode != diTo.inode {
		return false
	}
	w := iw.watches.Find(diFrom.inode)
	if w == nil || w.depCount() == 0 {
		return false
	}
	return w.chgDep(diFrom, diTo)
}

// UpdateFlags changes the mask this IWatch watches for, re-registering
// the parent watch and walking every dependency to open, close, or
// re-register its watch as the new mask requires.
func (iw *IWatch) UpdateFlags(mask InotifyMask) {
	if iw.opts.MaskAddSemantics && mask.Has(INMaskAdd) {
		iw.flags |= mask &^ INMaskAdd
	} else {
		iw.flags = mask &^ INMaskAdd
	}

	if parent := iw.watches.Find(iw.inode); parent != nil {
		_ = parent.registerEvent(parent.required())
	}

	for _, di := range iw.deps.All() {
		w := iw.watches.Find(di.inode)
		if w == nil || !w.hasDep(di) {
			iw.addSubwatch(di)
			continue
		}
		req := InotifyToKqueue(iw.flags, di.typ, false)
		if req == 0 {
			iw.DelSubwatch(di)
		} else {
			_ = w.registerEvent(req)
		}
	}
}

// Rescan snapshots the directory again, diffs it against the stored
// snapshot, reconciles the dependency watches (add/remove/rename), and
// returns the inotify events the change implies, removed entries first,
// then renames, then new entries, each group in alphabetical order. A name
// whose inode changed between scans has its watch replaced but yields no
// event. It is
// a no-op (returns nil) for non-directory targets and once the IWatch is
// closed.
func (iw *IWatch) Rescan() []RescanEvent {
	if iw.closed || iw.typ != TypeDir {
		return nil
	}
	fresh := ScanDir(iw.path)
	if fresh == nil {
		return nil
	}

	d := Diff(iw.deps, fresh)
	var events []RescanEvent
	var cookie uint32

	for _, r := range d.Removed {
		iw.DelSubwatch(r)
		events = append(events, RescanEvent{Mask: INDelete, Name: r.Name()})
	}
	for _, pair := range d.Renamed {
		cookie++
		iw.MoveSubwatch(pair.From, pair.To)
		events = append(events,
			RescanEvent{Mask: INMovedFrom, Cookie: cookie, Name: pair.From.Name()},
			RescanEvent{Mask: INMovedTo, Cookie: cookie, Name: pair.To.Name()})
	}
	for _, a := range d.Added {
		iw.addSubwatch(a)
		events = append(events, RescanEvent{Mask: INCreate, Name: a.Name()})
	}

	// Names present on both sides keep their watch: move its dependency
	// over to the fresh item. A name now pointing at a different inode
	// (replaced in place) drops its old hold and is watched anew.
	for _, n := range fresh.All() {
		o := iw.deps.Find(n.Name())
		if o == nil {
			continue
		}
		if o.inode == n.inode {
			iw.MoveSubwatch(o, n)
		} else {
			iw.DelSubwatch(o)
			iw.addSubwatch(n)
		}
	}

	iw.deps = fresh
	return events
}

// Free tears down every dependency watch and the parent watch, regardless
// of whether the parent was userRequested, and leaves iw closed.
func (iw *IWatch) Free() {
	if iw.closed {
		return
	}
	iw.closed = true
	for _, di := range iw.deps.All() {
		iw.DelSubwatch(di)
	}
	if parent := iw.watches.Find(iw.inode); parent != nil {
		iw.teardown(parent)
	}
	iw.deps = NewDepList()
}

// Inode, Dev, and Mask expose the identity and current mask an owning
// Registry needs to route worker events back to this IWatch.
func (iw *IWatch) Inode() uint64 { return iw.inode }
func (iw *IWatch) Dev() uint64 { return iw.dev }
func (iw *IWatch) Mask() InotifyMask { return iw.flags }
func (iw *IWatch) Closed() bool { return iw.closed }
func (iw *IWatch) WatchCount() int { return iw.watches.Len() }

// Describe looks up the watch registered for fd and reports whether it is
// the parent (USER) watch, along with the names of every dependency
// currently justifying it (empty for the parent). A Worker/Registry uses
// this to turn a raw kevent back into an inotify event's (name) field;
// see KqueueToInotify for the (mask) half.
func (iw *IWatch) Describe(fd int) (w *Watch, isParent bool, names []string) {
	for _, w := range iw.watches.All() {
		if w.fd != fd {
			continue
		}
		if w.userRequested {
			return w, true, nil
		}
		names = make([]string, 0, len(w.deps))
		for di := range w.deps {
			names = append(names, di.Name())
		}
		return w, false, names
	}
	return nil, false, nil
}

func (iw *IWatch) report(name string, err error) {
	iw.opts.reporter()(name, err)
}

func statType(mode uint32) FileType {
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return TypeDir
	case unix.S_IFLNK:
		return TypeSymlink
	case unix.S_IFIFO:
		return TypeFifo
	case unix.S_IFSOCK:
		return TypeSocket
	case unix.S_IFBLK:
		return TypeBlockDev
	case unix.S_IFCHR:
		return TypeCharDev
	case unix.S_IFREG:
		return TypeRegular
	default:
		return TypeUnknown
	}
}
