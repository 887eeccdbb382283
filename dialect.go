package sqlrevision

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
)

// TableName is the bookkeeping table holding applied revisions.
const TableName = "sqlrevision_applied"

// lockResource names the application lock serializing concurrent runners.
const lockResource = "sqlrevision.Up"

// dialect holds the SQL that differs between SQL Server and PostgreSQL.
type dialect struct {
	name        string
	createTable string
	tableExists string
	selectAll   string
	selectOne   string
	insert      string
	lock        func(ctx context.Context, q Querier, ex Execer, timeout time.Duration) error
}

var mssqlDialect = dialect{
	name: "mssql",
	createTable: `if object_id(N'` + TableName + `', N'U') is null
create table ` + TableName + ` (
    name nvarchar(400) not null primary key,
    checksum varchar(64) not null,
    applied_at datetime2 not null default sysutcdatetime(),
    duration_ms bigint not null
)`,
	tableExists: `select cast(case when object_id(N'` + TableName + `', N'U') is null then 0 else 1 end as bit)`,
	selectAll:   `select name, checksum, applied_at, duration_ms from ` + TableName + ` order by name`,
	selectOne:   `select checksum from ` + TableName + ` where name = @p1`,
	insert:      `insert into ` + TableName + ` (name, checksum, duration_ms) values (@p1, @p2, @p3)`,
	lock: func(ctx context.Context, q Querier, _ Execer, timeout time.Duration) error {
		// With the Transaction lock owner the lock is released on
		// commit or rollback.
		var retCode int
		err := q.QueryRowContext(ctx, `
declare @ret int;
exec @ret = sp_getapplock @Resource = @p1, @LockMode = 'Exclusive', @LockOwner = 'Transaction', @LockTimeout = @p2;
select @ret`, lockResource, timeout.Milliseconds()).Scan(&retCode)
		if err != nil {
			return err
		}
		if retCode < 0 {
			return errors.New("was not able to get lock before timeout")
		}
		return nil
	},
}

var pgsqlDialect = dialect{
	name: "pgsql",
	createTable: `create table if not exists ` + TableName + ` (
    name text not null primary key,
    checksum text not null,
    applied_at timestamptz not null default now(),
    duration_ms bigint not null
)`,
	tableExists: `select to_regclass('` + TableName + `') is not null`,
	selectAll:   `select name, checksum, applied_at, duration_ms from ` + TableName + ` order by name`,
	selectOne:   `select checksum from ` + TableName + ` where name = $1`,
	insert:      `insert into ` + TableName + ` (name, checksum, duration_ms) values ($1, $2, $3)`,
	lock: func(ctx context.Context, _ Querier, ex Execer, timeout time.Duration) error {
		// The timeout only guards the advisory lock; the statements of the
		// revision run with the configured lock_timeout.
		if _, err := ex.ExecContext(ctx, fmt.Sprintf(`set local lock_timeout = %d`, timeout.Milliseconds())); err != nil {
			return err
		}
		if _, err := ex.ExecContext(ctx, `select pg_advisory_xact_lock(hashtext($1))`, lockResource); err != nil {
			return err
		}
		_, err := ex.ExecContext(ctx, `set local lock_timeout = default`)
		return err
	},
}

func dialectFor(d driver.Driver) (dialect, error) {
	switch d.(type) {
	case *mssql.Driver:
		return mssqlDialect, nil
	case *stdlib.Driver:
		return pgsqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("%w: %T", ErrUnsupportedDriver, d)
	}
}
