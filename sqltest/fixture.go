package sqltest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/sirupsen/logrus"
)

const (
	DriverMssql = "mssql"
	DriverPgsql = "pgsql"
)

// dsnEnv names the environment variable holding the admin connection string
// for each driver.
var dsnEnv = map[string]string{
	DriverMssql: "SQLSERVER_DSN",
	DriverPgsql: "PGSQL_DSN",
}

// driverLogger sends go-mssqldb logging to logrus.
type driverLogger struct {
	logrus.FieldLogger
}

func (l driverLogger) Printf(format string, v ...interface{}) {
	l.Debugf(format, v...)
}

func (l driverLogger) Println(v ...interface{}) {
	l.Debugln(v...)
}

var _ mssql.Logger = driverLogger{}

// Fixture is a throwaway database, created on a server given by an
// environment variable and dropped again by Teardown.
type Fixture struct {
	DB      *sql.DB
	DBName  string
	Driver  string
	adminDB *sql.DB
}

// NewFixture creates a database for the driver, or skips the test if the
// environment variable for the driver is not set.
func NewFixture(t testing.TB, driver string) *Fixture {
	t.Helper()
	dsn := os.Getenv(dsnEnv[driver])
	if dsn == "" {
		t.Skipf("set %s to run tests against %s", dsnEnv[driver], driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	fixture := Fixture{
		Driver: driver,
		DBName: "sqlrevision_" + strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", ""),
	}

	var err error
	switch driver {
	case DriverMssql:
		mssql.SetLogger(driverLogger{logrus.StandardLogger()})
		err = fixture.createMssql(ctx, dsn)
	case DriverPgsql:
		err = fixture.createPgsql(ctx, dsn)
	default:
		err = fmt.Errorf("unknown driver %s", driver)
	}
	if err != nil {
		fixture.Teardown()
		t.Fatal(err)
	}
	t.Cleanup(fixture.Teardown)
	return &fixture
}

func (f *Fixture) createMssql(ctx context.Context, dsn string) error {
	var err error
	f.adminDB, err = sql.Open("sqlserver", dsn)
	if err != nil {
		return err
	}
	if _, err = f.adminDB.ExecContext(ctx, fmt.Sprintf(`create database [%s]`, f.DBName)); err != nil {
		return err
	}
	// These settings are just to get "worst-case" for our tests, since snapshot could interfere
	if _, err = f.adminDB.ExecContext(ctx, fmt.Sprintf(`alter database [%s] set allow_snapshot_isolation on`, f.DBName)); err != nil {
		return err
	}
	if _, err = f.adminDB.ExecContext(ctx, fmt.Sprintf(`alter database [%s] set read_committed_snapshot on`, f.DBName)); err != nil {
		return err
	}

	pdsn, err := msdsn.Parse(dsn)
	if err != nil {
		return err
	}
	pdsn.Database = f.DBName
	f.DB, err = sql.Open("sqlserver", pdsn.URL().String())
	return err
}

func (f *Fixture) createPgsql(ctx context.Context, dsn string) error {
	var err error
	f.adminDB, err = sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	if _, err = f.adminDB.ExecContext(ctx, fmt.Sprintf(`create database "%s"`, f.DBName)); err != nil {
		return err
	}

	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return err
	}
	config.Database = f.DBName
	f.DB = stdlib.OpenDB(*config)
	return nil
}

func (f *Fixture) Teardown() {
	if f.adminDB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if f.DB != nil {
		_ = f.DB.Close()
		f.DB = nil
	}
	switch f.Driver {
	case DriverMssql:
		_, _ = f.adminDB.ExecContext(ctx, fmt.Sprintf(`drop database [%s]`, f.DBName))
	case DriverPgsql:
		_, _ = f.adminDB.ExecContext(ctx, fmt.Sprintf(`drop database "%s" with (force)`, f.DBName))
	}
	_ = f.adminDB.Close()
	f.adminDB = nil
}

// RunForEachDriver runs f as a subtest against every driver, each with its
// own fresh database.
func RunForEachDriver(t *testing.T, name string, f func(t *testing.T, fixture *Fixture)) {
	for _, driver := range []string{DriverMssql, DriverPgsql} {
		t.Run(driver+"/"+name, func(t *testing.T) {
			f(t, NewFixture(t, driver))
		})
	}
}
