package cleaner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/modkill/internal/restorelog"
)

// fakeRemover deletes permanently for both modes and can inject failures.
type fakeRemover struct {
	mu      sync.Mutex
	fail    map[string]error
	trashed []string
	removed []string
}

func (f *fakeRemover) Trash(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[path]; ok {
		return err
	}
	f.trashed = append(f.trashed, path)
	return os.RemoveAll(path)
}

func (f *fakeRemover) RemoveAll(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[path]; ok {
		return err
	}
	f.removed = append(f.removed, path)
	return os.RemoveAll(path)
}

func makeModule(t *testing.T, root, name string, bytes int) string {
	t.Helper()
	dir := filepath.Join(root, name, "node_modules")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if bytes > 0 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "blob"), make([]byte, bytes), 0o644))
	}
	return dir
}

func newTestCleaner(r Remover) *Cleaner {
	return NewWithRemover(zerolog.Nop(), r)
}

func TestDelete_PermanentEmptyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.Mkdir(dir, 0o755))
	logPath := filepath.Join(t.TempDir(), "restore.log")

	res := New(zerolog.Nop()).Delete([]string{dir}, Options{Permanent: true, RestoreLogPath: logPath})

	assert.True(t, res.Success)
	assert.Equal(t, []string{dir}, res.Deleted)
	assert.Empty(t, res.Skipped)
	assert.Zero(t, res.FreedBytes)
	assert.NoDirExists(t, dir)
}

func TestDelete_MissingPath(t *testing.T) {
	fake := &fakeRemover{}
	logPath := filepath.Join(t.TempDir(), "restore.log")
	missing := filepath.Join(t.TempDir(), "nonexistent", "path")

	res := newTestCleaner(fake).Delete([]string{missing}, Options{RestoreLogPath: logPath})

	assert.Empty(t, res.Deleted)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, missing, res.Skipped[0].Path)
	assert.Equal(t, ReasonNotFound, res.Skipped[0].Reason)
	assert.Equal(t, errorCode(syscall.ENOENT), res.Skipped[0].ErrorCode)
	assert.Empty(t, fake.trashed, "remover must not be called for a missing path")
}

func TestDelete_FreedBytes(t *testing.T) {
	root := t.TempDir()
	a := makeModule(t, root, "a", 1000)
	b := makeModule(t, root, "b", 2500)

	res := newTestCleaner(&fakeRemover{}).Delete([]string{a, b}, Options{RestoreLogPath: filepath.Join(root, "r.log")})

	assert.Equal(t, []string{a, b}, res.Deleted)
	assert.Equal(t, int64(3500), res.FreedBytes)
}

func TestDelete_UsesTrashByDefault(t *testing.T) {
	root := t.TempDir()
	a := makeModule(t, root, "a", 10)
	fake := &fakeRemover{}

	newTestCleaner(fake).Delete([]string{a}, Options{RestoreLogPath: filepath.Join(root, "r.log")})
	assert.Equal(t, []string{a}, fake.trashed)
	assert.Empty(t, fake.removed)

	b := makeModule(t, root, "b", 10)
	newTestCleaner(fake).Delete([]string{b}, Options{Permanent: true, RestoreLogPath: filepath.Join(root, "r2.log")})
	assert.Equal(t, []string{b}, fake.removed)
}

func TestDelete_DryRun(t *testing.T) {
	root := t.TempDir()
	a := makeModule(t, root, "a", 100)
	b := makeModule(t, root, "b", 200)
	fake := &fakeRemover{}

	res := newTestCleaner(fake).Delete([]string{a, b, "/does/not/exist"}, Options{DryRun: true, RestoreLogPath: filepath.Join(root, "r.log")})

	assert.True(t, res.Success)
	assert.Zero(t, res.FreedBytes)
	assert.Empty(t, res.Deleted)
	require.Len(t, res.Skipped, 3)
	for _, s := range res.Skipped {
		assert.Equal(t, ReasonDryRun, s.Reason)
		assert.Empty(t, s.ErrorCode)
	}
	assert.DirExists(t, a)
	assert.DirExists(t, b)
	assert.Empty(t, fake.trashed)
}

func TestDelete_BatchContinuesAfterFailure(t *testing.T) {
	root := t.TempDir()
	a := makeModule(t, root, "a", 10)
	b := makeModule(t, root, "b", 10)
	c := makeModule(t, root, "c", 10)
	d := makeModule(t, root, "d", 10)

	fake := &fakeRemover{fail: map[string]error{
		a: &fs.PathError{Op: "rename", Path: a, Err: syscall.EACCES},
		c: &fs.PathError{Op: "rename", Path: c, Err: syscall.EBUSY},
		d: errors.New("something odd"),
	}}

	res := newTestCleaner(fake).Delete([]string{a, b, c, d}, Options{RestoreLogPath: filepath.Join(root, "r.log")})

	assert.True(t, res.Success)
	assert.Equal(t, []string{b}, res.Deleted)
	require.Len(t, res.Skipped, 3)
	assert.Equal(t, SkippedPath{Path: a, Reason: ReasonPermission, ErrorCode: errorCode(syscall.EACCES)}, res.Skipped[0])
	assert.Equal(t, c, res.Skipped[1].Path)
	assert.Equal(t, d, res.Skipped[2].Path)
	assert.Equal(t, ReasonUnknown, res.Skipped[2].Reason)
	assert.Empty(t, res.Skipped[2].ErrorCode)
}

func TestDelete_BatchTotality(t *testing.T) {
	root := t.TempDir()
	var paths []string
	fail := map[string]error{}
	for i := 0; i < 12; i++ {
		p := makeModule(t, root, fmt.Sprintf("p%02d", i), i*10)
		paths = append(paths, p)
		if i%3 == 0 {
			fail[p] = syscall.EPERM
		}
	}
	paths = append(paths, filepath.Join(root, "gone", "node_modules"))

	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", workers), func(t *testing.T) {
			// Recreate anything a previous run removed.
			for i, p := range paths[:12] {
				if _, err := os.Stat(p); err != nil {
					makeModule(t, root, fmt.Sprintf("p%02d", i), i*10)
				}
			}
			res := newTestCleaner(&fakeRemover{fail: fail}).Delete(paths, Options{
				Concurrency:    workers,
				RestoreLogPath: filepath.Join(t.TempDir(), "r.log"),
			})
			assert.Equal(t, len(paths), len(res.Deleted)+len(res.Skipped))
			assert.Len(t, res.Deleted, 8)

			var want int64
			for i := 0; i < 12; i++ {
				if i%3 != 0 {
					want += int64(i * 10)
				}
			}
			assert.Equal(t, want, res.FreedBytes)
		})
	}
}

func TestDelete_RestoreLogMatchesResult(t *testing.T) {
	root := t.TempDir()
	a := makeModule(t, root, "a", 10)
	b := makeModule(t, root, "b", 10)
	c := makeModule(t, root, "c", 10)
	logPath := filepath.Join(root, "restore.log")

	fake := &fakeRemover{fail: map[string]error{b: syscall.EACCES}}
	res := newTestCleaner(fake).Delete([]string{a, b, c}, Options{RestoreLogPath: logPath, Concurrency: 3})
	assert.Equal(t, logPath, res.RestoreLogPath)

	entries, err := restorelog.Read(logPath)
	require.NoError(t, err)
	assert.Equal(t, []restorelog.Entry{
		restorelog.Deleted(a),
		restorelog.Skipped(b, ReasonPermission),
		restorelog.Deleted(c),
	}, entries)
}

func TestDelete_DefaultLogPath(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	root := t.TempDir()
	a := makeModule(t, root, "a", 10)

	res := newTestCleaner(&fakeRemover{}).Delete([]string{a}, Options{})

	assert.Equal(t, os.TempDir(), filepath.Dir(res.RestoreLogPath))
	assert.Regexp(t, `^modkill-restore-\d+\.log$`, filepath.Base(res.RestoreLogPath))
	assert.FileExists(t, res.RestoreLogPath)
}

func TestDelete_LogWriteFailureIsNotFatal(t *testing.T) {
	root := t.TempDir()
	a := makeModule(t, root, "a", 10)
	logPath := filepath.Join(root, "missing-dir", "restore.log")

	res := newTestCleaner(&fakeRemover{}).Delete([]string{a}, Options{RestoreLogPath: logPath})

	assert.True(t, res.Success)
	assert.Equal(t, []string{a}, res.Deleted)
	assert.NoFileExists(t, logPath)
}

func TestDelete_Observer(t *testing.T) {
	root := t.TempDir()
	a := makeModule(t, root, "a", 10)
	b := makeModule(t, root, "b", 10)

	var dones []int
	var deleted int
	obs := ObserverFunc(func(path string, ok bool, done, total int) {
		assert.Equal(t, 2, total)
		dones = append(dones, done)
		if ok {
			deleted++
		}
	})

	newTestCleaner(&fakeRemover{}).Delete([]string{a, b}, Options{Observer: obs, RestoreLogPath: filepath.Join(root, "r.log")})
	assert.Equal(t, []int{1, 2}, dones)
	assert.Equal(t, 2, deleted)
}

func TestDelete_Empty(t *testing.T) {
	res := newTestCleaner(&fakeRemover{}).Delete(nil, Options{RestoreLogPath: filepath.Join(t.TempDir(), "r.log")})
	assert.True(t, res.Success)
	assert.NotNil(t, res.Deleted)
	assert.NotNil(t, res.Skipped)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not exist", fs.ErrNotExist, ReasonNotFound},
		{"wrapped not exist", &fs.PathError{Op: "lstat", Path: "/x", Err: syscall.ENOENT}, ReasonNotFound},
		{"permission", fs.ErrPermission, ReasonPermission},
		{"eacces", syscall.EACCES, ReasonPermission},
		{"eperm", syscall.EPERM, ReasonPermission},
		{"other", errors.New("boom"), ReasonUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}
