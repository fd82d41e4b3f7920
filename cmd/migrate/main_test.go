package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"zestyy/internal/config"
	"zestyy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = &config.Config{Env: "test", DBSchemaMode: "sql"}

func backups(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "db_backup_*.json"))
	require.NoError(t, err)
	return matches
}

func TestImportJSON_BacksUpAfterSuccess(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	doc := `{"users": [{"id": "u1", "name": "A", "username": "alice", "email": "a@x.io"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	require.NoError(t, importJSON(context.Background(), db, testCfg, path))

	assert.Equal(t, int64(1), testutil.CountRows(t, db, "users", ""))
	copies := backups(t, dir)
	require.Len(t, copies, 1)
	data, err := os.ReadFile(copies[0])
	require.NoError(t, err)
	assert.Equal(t, doc, string(data))
}

func TestImportJSON_FailureLeavesNoBackup(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": [`), 0o600))

	assert.Error(t, importJSON(context.Background(), db, testCfg, path))
	assert.Empty(t, backups(t, dir))
}

func TestImportJSON_MissingFileOnlyAppliesSchema(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()

	require.NoError(t, importJSON(context.Background(), db, testCfg, filepath.Join(dir, "absent.json")))
	assert.True(t, db.Migrator().HasTable("posts"))
	assert.Zero(t, testutil.CountRows(t, db, "users", ""))
	assert.Empty(t, backups(t, dir))
}
