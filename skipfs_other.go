//go:build !(freebsd || openbsd || dragonfly || darwin)

package kqwatch

// fsTypeName has no fstatfs(2) to call here: netbsd only exposes the type
// name through statvfs, and the non-kqueue GOOS this package unit-tests on
// have no EVFILT_VNODE at all. Returning an empty, non-error result means
// Options.SkipFSTypes never matches and skipSubfiles is never set.
func fsTypeName(fd int) (string, error) {
	return "", nil
}
