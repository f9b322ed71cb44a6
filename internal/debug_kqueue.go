//go:build freebsd || openbsd || netbsd || dragonfly || darwin

package internal

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Enabled gates the per-kevent trace line: set KQWATCH_DEBUG=1 to get one
// line per kevent on stderr.
var Enabled = os.Getenv("KQWATCH_DEBUG") != ""

// Debug logs one raw kevent fflags word, decoded against the platform's
// NOTE_* name table (see debug_darwin.go/debug_freebsd.go), labeled with
// fd so it can be correlated with Registry's fd-to-watch index.
func Debug(fd int, fflags uint32) {
	if !Enabled {
		return
	}
	var l []string
	for _, n := range noteNames {
		if fflags&n.m == n.m {
			l = append(l, n.n)
		}
	}
	fmt.Fprintf(os.Stderr, "KQWATCH_DEBUG: %s  fd=%-4d %10d:%-60s\n",
		time.Now().Format("15:04:05.000000000"), fd, fflags, strings.Join(l, " | "))
}
