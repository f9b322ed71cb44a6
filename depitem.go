package kqwatch

// DepItem records one directory entry as seen by a directory scan: its
// name, the inode it was reported under, and a type hint. name is unique
// within the DepList it belongs to; inode may repeat across items
// (hardlinks).
type DepItem struct {
	name  string
	inode uint64
	typ   FileType

	list *DepList // owning list, for the doubly-linked splice; nil if detached
	prev *DepItem
	next *DepItem
}

func newDepItem(name string, inode uint64, typ FileType) *DepItem {
	return &DepItem{name: name, inode: inode, typ: typ}
}

func (d *DepItem) Name() string { return d.name }
func (d *DepItem) Inode() uint64 { return d.inode }
func (d *DepItem) Type() FileType { return d.typ }

func (d *DepItem) setInode(inode uint64) { d.inode = inode }
func (d *DepItem) setType(typ FileType) { d.typ = typ }
