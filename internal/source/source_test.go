package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neelbansal/leetion/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestImportDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"0042-trapping-rain-water.py":       "def trap(height): ...",
		"121_best_time_to_buy.go":           "package main",
		"nested/0001-two-sum.py":            "def two_sum(nums, target): ...",
		"README.md":                         "not a solution",
		"notes.txt":                         "also not a solution",
		"no-number.py":                      "def orphan(): ...",
		".git/0007-should-be-ignored.py":    "def hidden(): ...",
		".venv/lib/0008-also-ignored.py":    "def hidden(): ...",
		"0000-zero-is-not-a-problem.py":     "def zero(): ...",
	})
	db := openTestDB(t)

	report, err := ImportDir(db, dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)
	assert.Empty(t, report.Errors)

	snaps, err := db.SnapshotsForProblem(42)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "Python3", snaps[0].Language)
	assert.Equal(t, "def trap(height): ...", snaps[0].Code)

	snaps, err = db.SnapshotsForProblem(121)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "Go", snaps[0].Language)

	snaps, err = db.SnapshotsForProblem(7)
	require.NoError(t, err)
	assert.Empty(t, snaps, "dot directories are skipped")
}

func TestImportDirIsIdempotent(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"0042-trapping-rain-water.py": "def trap(height): ...",
	})
	db := openTestDB(t)

	first, err := ImportDir(db, dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)

	second, err := ImportDir(db, dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Skipped)
}

func TestIsGitURL(t *testing.T) {
	assert.True(t, IsGitURL("https://github.com/user/solutions.git"))
	assert.True(t, IsGitURL("git@github.com:user/solutions.git"))
	assert.True(t, IsGitURL("https://github.com/user/solutions"))
	assert.False(t, IsGitURL("/home/user/solutions"))
	assert.False(t, IsGitURL("solutions"))
}

func TestLocalPathFor(t *testing.T) {
	path, err := LocalPathFor("/repos", "https://github.com/user/solutions.git")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/repos", "github.com", "user", "solutions"), path)

	path, err = LocalPathFor("/repos", "git@github.com:user/solutions.git")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/repos", "github.com", "user", "solutions"), path)

	_, err = LocalPathFor("/repos", "not a url")
	assert.Error(t, err)
}
