package kqwatch

// InotifyToKqueue translates an inotify interest mask into the minimal
// EVFILT_VNODE fflag set a kqueue registration needs to observe every
// inotify event in mask that's visible on an object of the given type:
// the type of the object a resulting kqueue registration would sit on,
// and whether that object is the USER watch (isParent) or a DEPENDENCY
// watch on one of its children.
//
// A result of 0 is not an error — it means the caller has asked for
// nothing this object can usefully report, and should not open a kqueue
// registration for it at all.
//
// InotifyToKqueue is monotonic in mask: OR-ing more bits into mask can
// only add bits to the result, never remove them.
func InotifyToKqueue(mask InotifyMask, typ FileType, isParent bool) Fflags {
	var f Fflags

	switch {
	case isParent && typ == TypeDir:
		// CREATE/DELETE/MOVED_* on a directory's children aren't visible as
		// a single EVFILT_VNODE bit; they're reconstructed by rescanning the
		// directory whenever NOTE_WRITE fires on it.
		if mask.Has(INCreate) || mask.Has(INDelete) || mask.Has(INMovedFrom) || mask.Has(INMovedTo) {
			f |= NoteWrite
		}
	case mask.Has(INModify):
		f |= NoteWrite | NoteExtend
	}

	if mask.Has(INAttrib) {
		f |= NoteAttrib | NoteLink
	}
	if mask.Has(INDeleteSelf) {
		f |= NoteDelete
	}
	if mask.Has(INMoveSelf) {
		f |= NoteRename
	}
	if !isParent && (mask.Has(INDelete) || mask.Has(INMovedFrom) || mask.Has(INMovedTo)) {
		// A dependency watch needs to notice its own removal/rename so the
		// iwatch bookkeeping (DelSubwatch/MoveSubwatch) can retire or move
		// it, even when nothing else in mask would have required opening it.
		f |= NoteDelete | NoteRename
	}
	if mask.Has(INOpen) {
		f |= NoteOpen
	}
	if mask.Has(INAccess) {
		f |= NoteRead
	}
	if mask.Has(INCloseWrite) {
		f |= NoteCloseWrite
	}
	if mask.Has(INCloseNowrite) {
		f |= NoteClose
	}
	return f
}

// KqueueToInotify is the translator's inverse direction: given a set of
// fflags a kevent reported, the type of the watched object, and whether it
// is the parent or a dependency, it returns the inotify event(s) those
// fflags represent. This is used by a Worker to build the event half of
// the (wd, mask, cookie, name) tuple for fflags that fire
// directly off a vnode (open/close/read/attrib/extend); CREATE, DELETE,
// and the MOVED_* pair are produced from a directory rescan/diff instead,
// not from this function, since kqueue carries no child name on its own.
func KqueueToInotify(fflags Fflags, typ FileType, isParent bool) InotifyMask {
	var m InotifyMask

	if fflags&(NoteWrite|NoteExtend) != 0 && !(isParent && typ == TypeDir) {
		m |= INModify
	}
	if fflags&(NoteAttrib|NoteLink) != 0 {
		m |= INAttrib
	}
	if fflags&NoteDelete != 0 {
		m |= INDeleteSelf
	}
	if fflags&NoteRename != 0 {
		m |= INMoveSelf
	}
	if fflags&NoteOpen != 0 {
		m |= INOpen
	}
	if fflags&NoteRead != 0 {
		m |= INAccess
	}
	if fflags&NoteCloseWrite != 0 {
		m |= INCloseWrite
	}
	if fflags&NoteClose != 0 {
		m |= INCloseNowrite
	}
	return m
}
