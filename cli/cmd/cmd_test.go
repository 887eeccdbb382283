package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
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

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sqlrevision.yaml", `
databases:
  local:
    connection: postgres://user:pw@localhost:5432/db
    lock_timeout: 5s
  prod:
    connection: azuresql://prod.database.windows.net?database=db
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Databases, 2)
	assert.Equal(t, "postgres://user:pw@localhost:5432/db", cfg.Databases["local"].Connection)
	assert.Equal(t, 5*time.Second, cfg.Databases["local"].LockTimeout)
	assert.Equal(t, time.Duration(0), cfg.Databases["prod"].LockTimeout)
}

func TestLoadConfig_Missing(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Equal(t, "no sqlrevision.yaml found in "+dir, err.Error())
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sqlrevision.yaml", "databases: [")
	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlrevision.yaml")
}

func TestDatabaseConfig_Open_BadDsn(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := DatabaseConfig{Connection: "host=localhost"}.Open(context.Background(), logger)
	assert.EqualError(t, err, "expected URI-style dsn; sqlserver://, azuresql://, postgres:// or postgresql://")

	_, err = DatabaseConfig{Connection: "mysql://localhost"}.Open(context.Background(), logger)
	assert.EqualError(t, err, `unsupported dsn scheme "mysql"`)
}

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001.sql", "-- first\ncreate table a (id int);\ninsert into a values (1);\n")
	writeFile(t, dir, "0002.sql", "select ';' from a")

	out, err := execute(t, "split", "-d", dir)
	require.NoError(t, err)
	assert.Equal(t, `-- 0001.sql
create table a (id int)
===
insert into a values (1)
===
-- 0002.sql
select ';' from a
===
`, out)
}

func TestSplitCommand_Files(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nested/0003.sql", "select 1; select 2")
	writeFile(t, dir, "0001.sql", "select 0")

	out, err := execute(t, "split", path)
	require.NoError(t, err)
	assert.Equal(t, "-- 0003.sql\nselect 1\n===\nselect 2\n===\n", out)
}

func TestSplitCommand_ReservedCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001.sql", "begin;\nselect 1;\ncommit;")

	_, err := execute(t, "split", "-d", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001.sql: BEGIN command is not supported in a revision")
}

func TestHashCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001.sql", "select 1")

	out, err := execute(t, "hash", "-d", dir)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{64} 0001\.sql\n$`, out)
}

func TestRemoteCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sqlrevision.yaml", `
databases:
  b:
    connection: postgres://localhost/b
  a:
    connection: sqlserver://localhost?database=a
`)

	out, err := execute(t, "remote", "-d", dir)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)
}
