package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caryhaynie/opentk/gen"
)

func files(pairs ...string) []*gen.OutputFile {
	var out []*gen.OutputFile
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, &gen.OutputFile{Path: pairs[i], Content: []byte(pairs[i+1])})
	}
	return out
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCommit_WritesAll(t *testing.T) {
	dir := t.TempDir()
	written, err := Commit(dir, files("gldef++.h", "header", "src/gldef++.cpp", "source"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "gldef++.h"), filepath.Join(dir, "src", "gldef++.cpp")}, written)

	data, err := os.ReadFile(filepath.Join(dir, "gldef++.h"))
	require.NoError(t, err)
	assert.Equal(t, "header", string(data))
	data, err = os.ReadFile(filepath.Join(dir, "src", "gldef++.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "source", string(data))

	assert.ElementsMatch(t, []string{"gldef++.h", "src"}, listDir(t, dir))
}

func TestCommit_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GL.cs"), []byte("old"), 0o644))

	_, err := Commit(dir, files("GL.cs", "new"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "GL.cs"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCommit_FailureLeavesDestinationsUntouched(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gldef++.h"), []byte("old header"), 0o644))

	orig := beforeReplace
	defer func() { beforeReplace = orig }()
	beforeReplace = func(string) error { return errors.New("disk full") }

	written, err := Commit(dir, files("gldef++.h", "new header", "gldef++.cpp", "new source"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Nil(t, written)

	data, err := os.ReadFile(filepath.Join(dir, "gldef++.h"))
	require.NoError(t, err)
	assert.Equal(t, "old header", string(data))
	assert.Equal(t, []string{"gldef++.h"}, listDir(t, dir), "staged files should be removed")
}

func TestCommit_LateFailureRestoresEarlierFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.h"), []byte("old-a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cpp"), []byte("old-b"), 0o644))

	orig := beforeReplace
	defer func() { beforeReplace = orig }()
	beforeReplace = func(dest string) error {
		if filepath.Base(dest) == "b.cpp" {
			return errors.New("rename failed")
		}
		return nil
	}

	_, err := Commit(dir, files("a.h", "new-a", "new.cs", "fresh", "b.cpp", "new-b"))
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.h"))
	require.NoError(t, err)
	assert.Equal(t, "old-a", string(data), "replaced file should be restored")
	data, err = os.ReadFile(filepath.Join(dir, "b.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "old-b", string(data))
	assert.ElementsMatch(t, []string{"a.h", "b.cpp"}, listDir(t, dir), "new files and backups should be removed")
}

func TestCommit_ReplaceLeavesNoBackups(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GL.cs"), []byte("old"), 0o644))
	_, err := Commit(dir, files("GL.cs", "new", "gldef++.h", "header"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"GL.cs", "gldef++.h"}, listDir(t, dir))
}

func TestCommit_RejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"../evil.h", "", filepath.Join(string(filepath.Separator), "abs.h")} {
		_, err := Commit(dir, files(p, "x"))
		assert.Error(t, err, "path %q", p)
	}
	assert.Empty(t, listDir(t, dir))
}

func TestCommit_RejectsDuplicatePaths(t *testing.T) {
	dir := t.TempDir()
	_, err := Commit(dir, files("GL.cs", "a", "./GL.cs", "b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "same.h"), []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "changed.h"), []byte("before"), 0o644))

	got, err := Diff(dir, files("same.h", "same", "changed.h", "after", "new.h", "fresh"))
	require.NoError(t, err)
	assert.ErrorIs(t, got[filepath.Join(dir, "same.h")], ErrUnchanged)
	assert.NoError(t, got[filepath.Join(dir, "changed.h")])
	assert.NoError(t, got[filepath.Join(dir, "new.h")])
}
