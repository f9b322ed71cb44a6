//go:build darwin || freebsd || dragonfly

package kqwatch

import "golang.org/x/sys/unix"

// fsTypeName probes fd's filesystem type via fstatfs(2), NUL-terminated
// the way the kernel fills Fstypename. iwatch.go calls this once at Init
// to decide skipSubfiles; it is not consulted again for the lifetime of
// an IWatch — the flag is sticky once set.
func fsTypeName(fd int) (string, error) {
	var st unix.Statfs_t
	if err := unix.Fstatfs(fd, &st); err != nil {
		return "", err
	}
	b := make([]byte, 0, len(st.Fstypename))
	for _, c := range st.Fstypename {
		if c == 0 {
			break
		}
		b = append(b, byte(c))
	}
	return string(b), nil
}
