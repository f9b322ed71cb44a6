//go:build !windows

package kqwatch

import "syscall"

// closeFD closes a raw descriptor a Watch owns. Kept as its own tiny,
// build-tagged file (rather than inline in watch.go) so the
// dependency-tracking core only needs syscall.Close — not the
// platform-specific kqueue bindings kqworker.go requires — to run its
// unit tests on any non-Windows GOOS.
func closeFD(fd int) {
	_ = syscall.Close(fd)
}
