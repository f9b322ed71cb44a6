//go:build freebsd || openbsd || netbsd || dragonfly || darwin

// Command kqinotify provides example usage of the kqwatch library.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/libinotify/kqwatch"
)

var usage = `
kqinotify watches paths for changes using inotify-style event masks, on top
of kqueue. This command serves as an example and debugging tool.

Usage:

    kqinotify [-mask NAME,NAME,...] path [path...]

The default mask is CREATE,DELETE,MODIFY,MOVED_FROM,MOVED_TO,ATTRIB.
Available names: ACCESS MODIFY ATTRIB CLOSE_WRITE CLOSE_NOWRITE OPEN
MOVED_FROM MOVED_TO CREATE DELETE DELETE_SELF MOVE_SELF
`[1:]

func exit(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, filepath.Base(os.Args[0])+": "+format+"\n", a...)
	fmt.Print("\n" + usage)
	os.Exit(1)
}

// printTime prints a line prefixed with the time (a bit shorter than
// log.Print; we don't really need the date and ms is useful here).
func printTime(s string, args ...interface{}) {
	fmt.Printf(time.Now().Format("15:04:05.0000")+" "+s+"\n", args...)
}

var maskNames = map[string]kqwatch.InotifyMask{
	"ACCESS":        kqwatch.INAccess,
	"MODIFY":        kqwatch.INModify,
	"ATTRIB":        kqwatch.INAttrib,
	"CLOSE_WRITE":   kqwatch.INCloseWrite,
	"CLOSE_NOWRITE": kqwatch.INCloseNowrite,
	"OPEN":          kqwatch.INOpen,
	"MOVED_FROM":    kqwatch.INMovedFrom,
	"MOVED_TO":      kqwatch.INMovedTo,
	"CREATE":        kqwatch.INCreate,
	"DELETE":        kqwatch.INDelete,
	"DELETE_SELF":   kqwatch.INDeleteSelf,
	"MOVE_SELF":     kqwatch.INMoveSelf,
}

func parseMask(s string) kqwatch.InotifyMask {
	var m kqwatch.InotifyMask
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(strings.ToUpper(name))
		if name == "" {
			continue
		}
		bit, ok := maskNames[name]
		if !ok {
			exit("unknown event name: %q", name)
		}
		m |= bit
	}
	return m
}

func main() {
	args := os.Args[1:]
	mask := kqwatch.INCreate | kqwatch.INDelete | kqwatch.INModify |
		kqwatch.INMovedFrom | kqwatch.INMovedTo | kqwatch.INAttrib

	var paths []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "help", "-h", "-help", "--help":
			fmt.Print(usage)
			os.Exit(0)
		case "-mask":
			if i+1 >= len(args) {
				exit("-mask needs an argument")
			}
			mask = parseMask(args[i+1])
			i++
		default:
			paths = append(paths, args[i])
		}
	}
	if len(paths) == 0 {
		exit("must specify at least one path to watch")
	}

	watch(paths, mask)
}

func watch(paths []string, mask kqwatch.InotifyMask) {
	reg, err := kqwatch.NewRegistry(kqwatch.DefaultOptions())
	if err != nil {
		exit("creating registry: %s", err)
	}
	defer reg.Close()
	go reg.Run()

	for _, p := range paths {
		if _, err := reg.Add(p, mask); err != nil {
			exit("%q: %s", p, err)
		}
	}

	printTime("ready; press ^C to exit")
	watchLoop(reg)
}

func watchLoop(reg *kqwatch.Registry) {
	i := 0
	for {
		select {
		case err, ok := <-reg.Errors:
			if !ok {
				return
			}
			printTime("ERROR: %s", err)
		case e, ok := <-reg.Events:
			if !ok {
				return
			}
			i++
			printTime("%3d %s", i, e)
		}
	}
}
