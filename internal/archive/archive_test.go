package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestName(t *testing.T) {
	at := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	assert.Equal(t, "backup_2024-03-09_07-05-01.zip", Name("backup_", "2006-01-02_15-04-05", at))
}

func TestBackup(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", "first export")
	b := writeFile(t, root, "nested/b.txt", "second export")

	backup, err := Create(filepath.Join(root, "backups"), "backup_test.zip")
	require.NoError(t, err)
	require.NoError(t, backup.Add(a))
	require.NoError(t, backup.Add(b))
	require.NoError(t, backup.Close())

	assert.Equal(t, filepath.Join(root, "backups", "backup_test.zip"), backup.Path())

	zr, err := zip.OpenReader(backup.Path())
	require.NoError(t, err)
	defer zr.Close()

	got := map[string]string{}
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		got[f.Name] = string(data)
	}

	assert.Equal(t, map[string]string{
		"a.txt": "first export",
		"b.txt": "second export",
	}, got)
}

func TestBackup_AddMissing(t *testing.T) {
	backup, err := Create(t.TempDir(), "x.zip")
	require.NoError(t, err)
	defer backup.Close()

	assert.ErrorIs(t, backup.Add(filepath.Join(t.TempDir(), "missing")), os.ErrNotExist)
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "same bytes")
	b := writeFile(t, dir, "b", "same bytes")
	c := writeFile(t, dir, "c", "other bytes")

	ha, err := HashFile(a)
	require.NoError(t, err)
	hb, err := HashFile(b)
	require.NoError(t, err)
	hc, err := HashFile(c)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
	assert.Len(t, ha, 32)
}

func TestSeen(t *testing.T) {
	s := NewSeen()

	assert.False(t, s.Check("abc"))
	assert.True(t, s.Check("abc"))
	assert.False(t, s.Check("def"))
	assert.Equal(t, 2, s.Len())
}
