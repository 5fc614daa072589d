package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaffoldWritesPair(t *testing.T) {
	dir := t.TempDir()

	p, err := Scaffold(dir, "add listing photos", "photo keys on properties")
	require.NoError(t, err)

	assert.Len(t, p.Version, 14)
	assert.Equal(t, "add_listing_photos", p.Slug)
	assert.Equal(t, p.Version+"_add_listing_photos", p.Base())

	up, err := os.ReadFile(p.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "photo keys on properties")

	down, err := os.ReadFile(p.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(down)")
}

func TestScaffoldCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db", "migrations")

	p, err := Scaffold(dir, "seed branches", "")
	require.NoError(t, err)

	assert.FileExists(t, p.UpPath)
	assert.FileExists(t, p.DownPath)
}

func TestScaffoldRejectsUnusableName(t *testing.T) {
	_, err := Scaffold(t.TempDir(), "!!!", "")
	require.Error(t, err)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users--Table", "add_users_table"},
		{"  create_offers  ", "create_offers"},
		{"v2: drop FK!", "v2_drop_fk"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), tt.in)
	}
}

func TestListReturnsSortedBaseNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"20250102000000_second.up.sql",
		"20250102000000_second.down.sql",
		"20250101000000_first.up.sql",
		"20250101000000_first.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- x\n"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0755))

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20250101000000_first", "20250102000000_second"}, names)
}

func TestListMissingDirectoryIsEmpty(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
