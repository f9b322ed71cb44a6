package kqwatch

import "errors"

var (
	// ErrClosed is returned by Registry.Add once the Registry has been
	// closed. A freed IWatch does not return it: its operations become
	// no-ops that return nil.
	ErrClosed = errors.New("kqwatch: watch closed")
	// ErrDuplicateInode is returned by WatchSet.Insert when a watch
	// already exists for the given inode: Insert fails fast rather than
	// silently merging.
	ErrDuplicateInode = errors.New("kqwatch: watch already exists for this inode")
	// ErrNonExistentWatch is returned by Registry.Remove for a descriptor
	// that isn't currently watched.
	ErrNonExistentWatch = errors.New("kqwatch: no such watch")
)

// Reporter receives subwatch-soft errors: failures that leave the owning
// IWatch valid but mean one dependency went unwatched. The default
// Reporter is a no-op; callers that want tracing can pass one that logs.
type Reporter func(path string, err error)

func nopReporter(string, error) {}
