package kqwatch

// WatchSet is the index of Watch by inode number, scoped to one IWatch. A
// map gives O(1) find/insert/delete while enforcing the one invariant it
// needs to enforce: no two watches in one IWatch share an inode.
type WatchSet struct {
	byInode map[uint64]*Watch
}

// NewWatchSet returns an empty watch set.
func NewWatchSet() *WatchSet {
	return &WatchSet{byInode: make(map[uint64]*Watch)}
}

// Find returns the watch registered for inode, or nil.
func (s *WatchSet) Find(inode uint64) *Watch { return s.byInode[inode] }

// Insert adds w, keyed by its inode. It returns ErrDuplicateInode if a
// watch already exists for that inode, failing fast rather than silently
// overwriting the existing entry.
func (s *WatchSet) Insert(w *Watch) error {
	if _, dup := s.byInode[w.inode]; dup {
		return ErrDuplicateInode
	}
	s.byInode[w.inode] = w
	return nil
}

// Remove drops the watch registered for inode, if any.
func (s *WatchSet) Remove(inode uint64) {
	delete(s.byInode, inode)
}

// Len reports how many watches are currently indexed.
func (s *WatchSet) Len() int { return len(s.byInode) }

// All returns every watch currently indexed, in no particular order.
func (s *WatchSet) All() []*Watch {
	out := make([]*Watch, 0, len(s.byInode))
	for _, w := range s.byInode {
		out = append(out, w)
	}
	return out
}
