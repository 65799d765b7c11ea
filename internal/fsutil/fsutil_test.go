package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestTryOrDefault(t *testing.T) {
	got := TryOrDefault(func() (int, error) { return 7, nil }, -1)
	assert.Equal(t, 7, got)

	got = TryOrDefault(func() (int, error) { return 7, errors.New("boom") }, -1)
	assert.Equal(t, -1, got)
}

func TestSizer_SumsNestedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 100)
	writeFile(t, filepath.Join(root, "pkg", "index.js"), 250)
	writeFile(t, filepath.Join(root, "pkg", "lib", "deep", "x.bin"), 1024)

	assert.Equal(t, int64(1374), NewSizer(2).Size(root))
	assert.Equal(t, int64(1374), DirSize(root))
}

func TestSizer_MissingDirectoryIsZero(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	assert.Equal(t, int64(0), NewSizer(0).Size(missing))
	assert.Equal(t, int64(0), DirSize(missing))
}

func TestSizer_IgnoresSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "big.bin"), 4096)
	writeFile(t, filepath.Join(root, "small.txt"), 10)

	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	assert.Equal(t, int64(10), NewSizer(4).Size(root))
}

func TestSizer_UnreadableSubtreeContributesZero(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.txt"), 50)
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden.bin"), 999)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	assert.Equal(t, int64(50), NewSizer(1).Size(root))
}

func TestCanWrite(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, CanWrite(dir))
	assert.False(t, CanWrite(filepath.Join(dir, "missing")))
}

func TestCanWrite_ReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can write to read-only directories")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(dir, 0o555))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	assert.False(t, CanWrite(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe must not create files")
}

func TestFreeBytes(t *testing.T) {
	free, err := FreeBytes(t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}
