package kqwatch

// Options is the config surface, carried as an immutable value injected
// at construction rather than read from process-wide global state.
type Options struct {
	// SkipFSTypes lists filesystem type names (as fstatfs reports them,
	// e.g. "procfs", "devfs", "fdescfs") for which subwatches are never
	// opened; see skipfs_bsd.go.
	SkipFSTypes []string
	// FollowSymlinks controls whether the USER watch may follow a
	// symlink target. Subwatches never follow symlinks regardless of
	// this setting. Default false.
	FollowSymlinks bool
	// MaskAddSemantics controls whether IWatch.UpdateFlags honors the
	// INMaskAdd bit as an OR-merge (true, the default) or always replaces
	// the mask outright.
	MaskAddSemantics bool
	// Reporter receives subwatch-soft errors. Defaults to a no-op.
	Reporter Reporter
}

func (o Options) reporter() Reporter {
	if o.Reporter == nil {
		return nopReporter
	}
	return o.Reporter
}

func (o Options) skipFS(fstype string) bool {
	for _, s := range o.SkipFSTypes {
		if s == fstype {
			return true
		}
	}
	return false
}

// DefaultOptions follows no symlinks on children, honors IN_MASK_ADD, and
// skips nothing.
func DefaultOptions() Options {
	return Options{MaskAddSemantics: true}
}
