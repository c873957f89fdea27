package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create orders table", "create_orders_table"},
		{"Create-Orders-Table", "create_orders_table"},
		{"CREATE_ORDERS_TABLE", "create_orders_table"},
		{"create__orders__table", "create_orders_table"},
		{"Add Stock 2", "add_stock_2"},
		{"  padded  ", "padded"},
		{"drop!@#legacy", "droplegacy"},
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

	mf, err := CreateMigration(dir, "create orders table", "orders plus snapshot items")
	require.NoError(t, err)

	// version is a sortable 14-digit timestamp
	assert.Len(t, mf.Version, 14)

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "create orders table")
	assert.Contains(t, string(up), "orders plus snapshot items")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "revert: create orders table")
}

func TestCreateMigrationMakesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	mf, err := CreateMigration(nested, "seed categories", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(mf.UpPath)
	assert.NoError(t, err)
	_, err = os.Stat(mf.DownPath)
	assert.NoError(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, f := range []string{
		"000001_create_catalog.up.sql",
		"000001_create_catalog.down.sql",
		"000002_create_users.up.sql",
		"000002_create_users.down.sql",
		"README.md",
		".gitkeep",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- sql"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archived.up.sql"), 0o755))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_catalog", "000002_create_users"}, names)
}

func TestListMigrationsMissingDirectory(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
