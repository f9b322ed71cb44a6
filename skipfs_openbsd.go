//go:build openbsd

package kqwatch

import "golang.org/x/sys/unix"

// fsTypeName probes fd's filesystem type via fstatfs(2). Same contract as
// the darwin/freebsd variant; openbsd just spells the struct field with
// its on-disk f_ prefix.
func fsTypeName(fd int) (string, error) {
	var st unix.Statfs_t
	if err := unix.Fstatfs(fd, &st); err != nil {
		return "", err
	}
	b := make([]byte, 0, len(st.F_fstypename))
	for _, c := range st.F_fstypename {
		if c == 0 {
			break
		}
		b = append(b, byte(c))
	}
	return string(b), nil
}
