package kqwatch

// DepList is a doubly linked, name-ordered collection of DepItem.
// Iteration order is alphabetical by name: rescans diff cleanly against
// the previous snapshot, and synthesized events come out in a
// deterministic order.
type DepList struct {
	head, tail *DepItem
	byName     map[string]*DepItem
}

// NewDepList returns an empty dependency list.
func NewDepList() *DepList {
	return &DepList{byName: make(map[string]*DepItem)}
}

// Len reports the number of items in the list.
func (l *DepList) Len() int { return len(l.byName) }

// Find returns the item named name, or nil if absent.
func (l *DepList) Find(name string) *DepItem { return l.byName[name] }

// Append inserts di in its alphabetically-sorted position. di.name must be
// unique within l; Append panics if it is already present, since a
// directory scan never produces a list with a duplicate name.
func (l *DepList) Append(di *DepItem) {
	if _, dup := l.byName[di.name]; dup {
		panic("kqwatch: DepList.Append: duplicate name " + di.name)
	}
	di.list = l
	l.byName[di.name] = di

	if l.head == nil {
		l.head, l.tail = di, di
		return
	}
	// Insertion sort by name; directory entry counts are small enough that
	// the O(n) scan is cheaper than keeping a separate sorted index.
	var at *DepItem
	for at = l.head; at != nil; at = at.next {
		if at.name > di.name {
			break
		}
	}
	if at == nil {
		di.prev = l.tail
		l.tail.next = di
		l.tail = di
		return
	}
	di.next = at
	di.prev = at.prev
	if at.prev != nil {
		at.prev.next = di
	} else {
		l.head = di
	}
	at.prev = di
}

// Remove splices di out of the list. di must belong to l.
func (l *DepList) Remove(di *DepItem) {
	if di.list != l {
		panic("kqwatch: DepList.Remove: item not in this list")
	}
	if di.prev != nil {
		di.prev.next = di.next
	} else {
		l.head = di.next
	}
	if di.next != nil {
		di.next.prev = di.prev
	} else {
		l.tail = di.prev
	}
	delete(l.byName, di.name)
	di.list, di.prev, di.next = nil, nil, nil
}

// All returns every item in alphabetical order. The returned slice is a
// snapshot; mutating the list afterwards does not affect it.
func (l *DepList) All() []*DepItem {
	out := make([]*DepItem, 0, len(l.byName))
	for d := l.head; d != nil; d = d.next {
		out = append(out, d)
	}
	return out
}

// RenamePair is one MOVED_FROM/MOVED_TO pairing Diff found: the old and
// new DepItem share an inode, so the rename is of a currently-watched
// entry rather than an external file moving in.
type RenamePair struct {
	From, To *DepItem
}

// DepDiff is the result of comparing two directory snapshots: the items
// added, the items removed, and the items that look like one rename
// (matched by inode) rather than an independent create+delete.
type DepDiff struct {
	Added   []*DepItem
	Removed []*DepItem
	Renamed []RenamePair
}

// Diff compares an old snapshot against a new one and categorizes the
// changes. A name present in both lists is neither added nor removed (even
// if its inode changed — that's a replace-in-place race, handled by the
// caller, not by Diff). A name that disappeared from one side and whose
// inode reappears under a different name on the other side is reported as
// a rename instead of a remove+create pair.
func Diff(old, new *DepList) DepDiff {
	var d DepDiff

	removedByInode := make(map[uint64][]*DepItem)
	for _, o := range old.All() {
		if new.byName[o.name] == nil {
			removedByInode[o.inode] = append(removedByInode[o.inode], o)
		}
	}

	consumed := make(map[*DepItem]bool)
	for _, n := range new.All() {
		if old.byName[n.name] != nil {
			continue // same name on both sides: not added, not removed
		}
		cands := removedByInode[n.inode]
		var match *DepItem
		for _, c := range cands {
			if !consumed[c] {
				match = c
				break
			}
		}
		if match != nil {
			consumed[match] = true
			d.Renamed = append(d.Renamed, RenamePair{From: match, To: n})
		} else {
			d.Added = append(d.Added, n)
		}
	}

	// Walk old again rather than ranging removedByInode so Removed comes
	// out in the list's alphabetical order, not map order.
	for _, o := range old.All() {
		if new.byName[o.name] == nil && !consumed[o] {
			d.Removed = append(d.Removed, o)
		}
	}
	return d
}
