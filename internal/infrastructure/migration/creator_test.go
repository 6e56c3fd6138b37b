package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add recibos index", "add_recibos_index"},
		{"Add-Recibos-Index", "add_recibos_index"},
		{"ADD__RECIBOS__INDEX", "add_recibos_index"},
		{"cuota 2024", "cuota_2024"},
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
	t.Run("numbers after existing migrations", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000001_create_clientes.up.sql", "000001_create_clientes.down.sql", "000002_create_recibos.up.sql"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		mf, err := CreateMigration(dir, "add recibos index", "Index receipts by emission date")
		require.NoError(t, err)

		assert.Equal(t, "000003", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000003_add_recibos_index.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000003_add_recibos_index.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "-- Migration: add recibos index")
		assert.Contains(t, string(up), "Index receipts by emission date")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "-- Rollback: add recibos index")
	})

	t.Run("first migration in empty directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")

		mf, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)
		assert.Equal(t, "000001", mf.Version)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("repository migrations", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_create_clientes", "000002_create_recibos"}, list)
	})
}
