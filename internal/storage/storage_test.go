package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONStore_LoadMissingFile(t *testing.T) {
	store, err := NewJSONStore(t.TempDir(), "accounts.json")
	require.NoError(t, err)

	var out []doc
	require.NoError(t, store.Load(&out))
	assert.Nil(t, out)
	_, err = os.Stat(store.filePath)
	assert.True(t, os.IsNotExist(err))
}

func TestJSONStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONStore(dir, "accounts.json")
	require.NoError(t, err)

	in := []doc{{Name: "আমি", Count: 1}, {Name: "b", Count: 2}}
	require.NoError(t, store.Save(in))
	assert.FileExists(t, filepath.Join(dir, "accounts.json"))

	var out []doc
	require.NoError(t, store.Load(&out))
	assert.Equal(t, in, out)

	_, err = os.Stat(filepath.Join(dir, "accounts.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestRecordDir_WriteReadList(t *testing.T) {
	rd, err := NewRecordDir(filepath.Join(t.TempDir(), "contributions"))
	require.NoError(t, err)

	require.NoError(t, rd.Write("20260102T000000_b", doc{Name: "second"}))
	require.NoError(t, rd.Write("20260101T000000_a", doc{Name: "first"}))

	names, err := rd.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101T000000_a", "20260102T000000_b"}, names)

	var got doc
	require.NoError(t, rd.Read("20260102T000000_b", &got))
	assert.Equal(t, "second", got.Name)
}

func TestRecordDir_ReadMissing(t *testing.T) {
	rd, err := NewRecordDir(t.TempDir())
	require.NoError(t, err)

	var got doc
	assert.ErrorIs(t, rd.Read("nope", &got), ErrNotFound)
}

func TestRecordDir_RejectsPathNames(t *testing.T) {
	rd, err := NewRecordDir(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../escape", "a/b", `a\b`} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, rd.Write(name, doc{}), ErrInvalidName)
		})
	}
}

func TestRecordDir_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	rd, err := NewRecordDir(dir)
	require.NoError(t, err)

	require.NoError(t, rd.Write("one", doc{}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.json.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	names, err := rd.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, names)
}
