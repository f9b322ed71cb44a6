//go:build !(freebsd || openbsd || netbsd || dragonfly || darwin)

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "kqinotify needs a kqueue platform (BSD or macOS)")
	os.Exit(1)
}
