package kqwatch

// Worker is the external collaborator that owns a kqueue descriptor and
// drains events from it. The dependency-tracking core never opens a
// kqueue or calls kevent(2) itself; it only calls back into Worker to
// install, replace, or remove a vnode registration.
//
// udata is an opaque tag a Worker implementation may use however it likes
// to help route a kevent back to its Watch later; KQWorker, this
// package's reference implementation, doesn't need it, since a kevent's
// Ident is already the fd Register was called with.
type Worker interface {
	// KqueueFD returns the kqueue descriptor watches are registered
	// against.
	KqueueFD() int
	// Register installs or replaces the EVFILT_VNODE registration for fd.
	Register(fd int, fflags Fflags, udata uintptr) error
	// Deregister removes the registration for fd. Implementations may
	// treat this as a no-op if the fd's owner is about to close it anyway:
	// closing fd implicitly removes the kqueue registration too.
	Deregister(fd int) error
}
