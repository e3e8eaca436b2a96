package snapshot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/code_analyzer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFiles() []models.FileFingerprint {
	main := models.NewFileFingerprint("src/main.rs", "rs")
	main.Add(models.CategoryTypeDeclaration, "TestStruct")
	main.Add(models.CategoryCallable, "main")
	main.Add(models.CategoryImplementationBlock, "TestStruct")

	lib := models.NewFileFingerprint("src/lib.rs", "rs")
	lib.Add(models.CategoryCallable, "helper")
	return []models.FileFingerprint{main, lib}
}

func sampleSnapshot(name string) *Snapshot {
	return &Snapshot{
		Name:        name,
		Description: "test",
		Language:    "Rust",
		Files:       sampleFiles(),
		CreatedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot(sampleFiles(), "api", "Rust")

	assert.Equal(t, "Snapshot with 2 files containing 4 total items", snap.Description)
	assert.Equal(t, time.UTC, snap.CreatedAt.Location())
	assert.Equal(t, 0, snap.CreatedAt.Nanosecond())

	empty := NewSnapshot(nil, "empty", "Go")
	assert.Equal(t, []models.FileFingerprint{}, empty.Files)
	assert.Equal(t, "Snapshot with 0 files containing 0 total items", empty.Description)
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"api":              "api",
		"My Pattern":       "my_pattern",
		"Web-App v2":       "web-app_v2",
		"../../etc/passwd": "______etc_passwd",
		"a/b":              "a_b",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeKey(in), in)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "scaffs"), nil)
	snap := sampleSnapshot("My Pattern")

	path, err := store.Save(snap)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "my_pattern.json"), path)

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, *snap, loaded[0])
}

func TestStore_SaveWritesCamelCaseDocument(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	snap := sampleSnapshot("api")
	snap.Files = append(snap.Files, models.FileFingerprint{Path: "src/empty.rs", Extension: "rs"})

	path, err := store.Save(snap)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "api", doc["name"])
	assert.Equal(t, "2024-03-01T12:00:00Z", doc["createdAt"])

	files := doc["files"].([]any)
	empty := files[2].(map[string]any)
	assert.Equal(t, []any{}, empty["callables"])
	assert.Equal(t, []any{}, empty["implementationBlocks"])
}

func TestStore_SaveOverwritesSameKey(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	_, err := store.Save(sampleSnapshot("My Pattern"))
	require.NoError(t, err)

	second := sampleSnapshot("my pattern")
	second.Files = second.Files[:1]
	_, err = store.Save(second)
	require.NoError(t, err)

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "my pattern", loaded[0].Name)
	assert.Len(t, loaded[0].Files, 1)
}

func TestStore_SaveRejectsBadNames(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	_, err := store.Save(sampleSnapshot("  "))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = store.Save(sampleSnapshot("Config"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestStore_SaveIOFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	store := NewStore(filepath.Join(blocker, "scaffs"), nil)
	_, err := store.Save(sampleSnapshot("api"))
	assert.True(t, errors.Is(err, apperrors.ErrIOFailure))
}

func TestStore_LoadAllMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent"), nil)
	loaded, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_LoadAllSkipsMalformedAndConfig(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	_, err := store.Save(sampleSnapshot("zeta"))
	require.NoError(t, err)
	_, err = store.Save(sampleSnapshot("alpha"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.json"), []byte(`{"name": 3, "files": []}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{"defaultSnapshot": "alpha"}`), 0644))

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "alpha", loaded[0].Name)
	assert.Equal(t, "zeta", loaded[1].Name)
}

func TestStore_FindByName(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	_, err := store.Save(sampleSnapshot("My Pattern"))
	require.NoError(t, err)

	snap, err := store.FindByName("My Pattern")
	require.NoError(t, err)
	assert.Equal(t, "My Pattern", snap.Name)

	snap, err = store.FindByName("my_pattern")
	require.NoError(t, err)
	assert.Equal(t, "My Pattern", snap.Name)

	_, err = store.FindByName("missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "missing")
	assert.Equal(t, ListHint, apperrors.HintOf(err))
}

func TestStore_List(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	_, err := store.Save(sampleSnapshot("api"))
	require.NoError(t, err)
	_, err = store.Save(sampleSnapshot("web"))
	require.NoError(t, err)

	cfg, err := store.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.SetDefault("web"))

	listing, err := store.List()
	require.NoError(t, err)
	require.Len(t, listing.Entries, 2)
	require.NotNil(t, listing.Default)
	assert.Equal(t, "web", *listing.Default)

	assert.False(t, listing.Entries[0].IsDefault)
	assert.True(t, listing.Entries[1].IsDefault)
	assert.Equal(t, 2, listing.Entries[0].FileCount)
	assert.Equal(t, 4, listing.Entries[0].ItemCount)
}

func TestStore_ListSurvivesCorruptConfig(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)
	_, err := store.Save(sampleSnapshot("api"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{"), 0644))

	listing, err := store.List()
	require.NoError(t, err)
	require.Len(t, listing.Entries, 1)
	assert.Nil(t, listing.Default)
	assert.False(t, listing.Entries[0].IsDefault)
}
