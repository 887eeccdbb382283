package example

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/sqlrevision"
	"github.com/vippsas/sqlrevision/sqltest"
)

func TestRevisions(t *testing.T) {
	assert.Equal(t, []string{
		"revisions/0001.account.sql",
		"revisions/0002.account-note.sql",
	}, Revisions.Names())

	assert.Equal(t, 2, Revisions[0].Statements.Len())
	assert.Equal(t, []string{"alter table account add note varchar(max) null"}, Revisions[1].Statements.Strings())
}

func TestDevRevisions(t *testing.T) {
	require.Len(t, DevRevisions, 3)
	seed := DevRevisions[2]
	assert.Equal(t, "revisions/seed/0003.account-test-data.sql", seed.Name)
	assert.Equal(t, []string{"dev"}, seed.IncludeIf)
	assert.Equal(t, []string{
		"insert into account (account_id, display_name) values (1, 'Alice; the first')",
		"insert into account (account_id, display_name) values (2, 'Bob ''the builder''')",
	}, seed.Statements.Strings())
}

func TestUp(t *testing.T) {
	f := sqltest.NewFixture(t, sqltest.DriverMssql)
	ctx := context.Background()

	result, err := sqlrevision.NewRunner(nil).Up(ctx, f.DB, DevRevisions)
	require.NoError(t, err)
	assert.Len(t, result.Applied, 3)

	var name string
	require.NoError(t, f.DB.QueryRowContext(ctx, `select display_name from account where account_id = 2`).Scan(&name))
	assert.Equal(t, "Bob 'the builder'", name)
}
