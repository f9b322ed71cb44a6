package kqwatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDirSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zed"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.Symlink("zed", filepath.Join(dir, "link")))

	l := ScanDir(dir)
	require.NotNil(t, l)
	require.Equal(t, []string{"link", "sub", "zed"}, names(l.All()))

	assert.Equal(t, TypeSymlink, l.Find("link").Type())
	assert.Equal(t, TypeDir, l.Find("sub").Type())
	assert.Equal(t, TypeRegular, l.Find("zed").Type())
	for _, di := range l.All() {
		assert.NotZero(t, di.Inode(), "no inode for %s", di.Name())
	}
}

func TestScanDirError(t *testing.T) {
	assert.Nil(t, ScanDir(filepath.Join(t.TempDir(), "nope")))
}
