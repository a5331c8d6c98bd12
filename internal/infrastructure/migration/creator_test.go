package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/billbook/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add invoices table", "add_invoices_table"},
		{"Add-Invoices-Table", "add_invoices_table"},
		{"ADD_INVOICES_TABLE", "add_invoices_table"},
		{"add__invoice__index", "add_invoice_index"},
		{"Add Column 123", "add_column_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add remark index", "Index invoices by remark")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_remark_index.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_remark_index.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add remark index")
	assert.Contains(t, string(up), "-- Description: Index invoices by remark")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := CreateMigration(dir, "Drop Remark", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	up, err = os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(up), "Description")
}

func TestCreateMigration_EmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_second.up.sql":   {Data: []byte("")},
		"000001_first.up.sql":    {Data: []byte("")},
		"000001_first.down.sql":  {Data: []byte("")},
		"000003_orphan.down.sql": {Data: []byte("")},
		"README.md":              {Data: []byte("")},
		"abc_bad.up.sql":         {Data: []byte("")},
	}

	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, Migration{Version: 1, Name: "first", HasDown: true}, list[0])
	assert.Equal(t, Migration{Version: 2, Name: "second", HasDown: false}, list[1])
}

func TestListMigrations_MissingDir(t *testing.T) {
	list, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrations(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for i, m := range list {
		assert.Equal(t, uint(i+1), m.Version, "versions are contiguous")
		assert.True(t, m.HasDown, "migration %d has a rollback", m.Version)
	}
}
