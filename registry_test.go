//go:build freebsd || openbsd || netbsd || dragonfly || darwin

package kqwatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libinotify/kqwatch/internal"
	"github.com/libinotify/kqwatch/internal/ztest"
)

// eventCollector gathers events off a Registry's channel on its own
// goroutine.
type eventCollector struct {
	t      *testing.T
	reg    *Registry
	events []Event
	done   chan struct{}
}

func collect(t *testing.T, reg *Registry) *eventCollector {
	t.Helper()
	c := &eventCollector{t: t, reg: reg, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		for ev := range reg.Events {
			c.events = append(c.events, ev)
		}
	}()
	go func() {
		for err := range reg.Errors {
			t.Errorf("unexpected error: %s", err)
		}
	}()
	return c
}

func (c *eventCollector) stop(t *testing.T) []Event {
	t.Helper()
	require.NoError(t, c.reg.Close())
	<-c.done
	return c.events
}

func waitForEvents() { time.Sleep(50 * time.Millisecond) }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(DefaultOptions())
	require.NoError(t, err)
	go reg.Run()
	return reg
}

func namesOf(evs []Event, mask InotifyMask) []string {
	var out []string
	for _, e := range evs {
		if e.Mask.Has(mask) {
			out = append(out, e.Name)
		}
	}
	return out
}

func TestRegistryDirectoryCreateAndDelete(t *testing.T) {
	dir := t.TempDir()
	reg := newTestRegistry(t)
	c := collect(t, reg)

	wd, err := reg.Add(dir, INCreate|INDelete)
	require.NoError(t, err)
	assert.NotZero(t, wd)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("x"), 0o644))
	waitForEvents()
	require.NoError(t, os.Remove(filepath.Join(dir, "a")))
	waitForEvents()

	events := c.stop(t)
	if diff := ztest.Diff(joinNames(namesOf(events, INCreate)), "a"); diff != "" {
		t.Errorf("CREATE events: %s", diff)
	}
	if diff := ztest.Diff(joinNames(namesOf(events, INDelete)), "a"); diff != "" {
		t.Errorf("DELETE events: %s", diff)
	}
}

func TestRegistryRenameWithinDirectoryPairsCookie(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old"), []byte("x"), 0o644))

	reg := newTestRegistry(t)
	c := collect(t, reg)
	_, err := reg.Add(dir, INMovedFrom|INMovedTo)
	require.NoError(t, err)

	require.NoError(t, os.Rename(filepath.Join(dir, "old"), filepath.Join(dir, "new")))
	waitForEvents()

	events := c.stop(t)
	var from, to *Event
	for i := range events {
		switch {
		case events[i].Mask.Has(INMovedFrom):
			from = &events[i]
		case events[i].Mask.Has(INMovedTo):
			to = &events[i]
		}
	}
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, "old", from.Name)
	assert.Equal(t, "new", to.Name)
	assert.Equal(t, from.Cookie, to.Cookie)
	assert.NotZero(t, from.Cookie)
}

func TestRegistryUpdateFlagsOpensChildWatchesLater(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("x"), 0o644))

	reg := newTestRegistry(t)
	c := collect(t, reg)

	wd, err := reg.Add(dir, INCreate)
	require.NoError(t, err)

	// Upgrading to IN_MODIFY should start watching the existing children,
	// which a CREATE-only mask never bothered to open (scenario from
	// flags_test.go's TestInotifyToKqueueCreateAloneNeedsNoChildWatch).
	wd2, err := reg.Add(dir, INModify|INMaskAdd)
	require.NoError(t, err)
	assert.Equal(t, wd, wd2)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("xy"), 0o644))
	waitForEvents()

	events := c.stop(t)
	assert.Contains(t, namesOf(events, INModify), "a")
}

func TestRegistryRemoveSendsIgnored(t *testing.T) {
	dir := t.TempDir()
	reg := newTestRegistry(t)
	c := collect(t, reg)

	wd, err := reg.Add(dir, INCreate)
	require.NoError(t, err)
	require.NoError(t, reg.Remove(wd))

	events := c.stop(t)
	require.NotEmpty(t, events)
	assert.Equal(t, INIgnored, events[len(events)-1].Mask)
}

func TestRegistryAddPermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores permission bits")
	}
	dir := t.TempDir()
	unreadable := filepath.Join(dir, "unreadable")
	require.NoError(t, os.Mkdir(unreadable, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(unreadable, "f"), []byte("x"), 0o644))
	require.NoError(t, os.Chmod(unreadable, 0))
	defer os.Chmod(unreadable, 0o755)

	reg := newTestRegistry(t)
	defer reg.Close()

	_, err := reg.Add(unreadable, INCreate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, internal.UnixEACCES), "not unix.EACCES: %T %#[1]v", err)
	assert.True(t, errors.Is(err, internal.SyscallEACCES), "not syscall.EACCES: %T %#[1]v", err)
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out
}
