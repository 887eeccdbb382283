package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
	"gopkg.in/yaml.v3"
)

const configFilename = "sqlrevision.yaml"

type DatabaseConfig struct {
	Connection  string        `yaml:"connection"`
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

type Config struct {
	Databases map[string]DatabaseConfig `yaml:"databases"`
}

func socksDialer() (proxy.ContextDialer, error) {
	socksProxyAddress := os.Getenv("SQL_SOCKS")
	if socksProxyAddress == "" {
		return nil, nil
	}
	dialer, err := proxy.SOCKS5("tcp", socksProxyAddress, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Could not connect with SOCKS5 to %s", socksProxyAddress))
	}
	return dialer.(proxy.ContextDialer), nil
}

func openMssql(dsn string, dialer proxy.ContextDialer) (*sql.DB, error) {
	var err error
	var connector *mssql.Connector

	if strings.HasPrefix(dsn, "azuresql://") {
		connector, err = azuread.NewConnector(dsn)
	} else {
		connector, err = mssql.NewConnector(dsn)
	}
	if err != nil {
		return nil, err
	}
	if dialer != nil {
		connector.Dialer = dialer
	}
	return sql.OpenDB(connector), nil
}

func openPgsql(dsn string, dialer proxy.ContextDialer) (*sql.DB, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if dialer != nil {
		config.DialFunc = dialer.DialContext
	}
	return stdlib.OpenDB(*config), nil
}

// Open connects to the database. The scheme of the connection string picks
// the driver: sqlserver:// for password login or azuresql:// for AD login
// to SQL Server, postgres:// or postgresql:// for PostgreSQL.
func (dbcfg DatabaseConfig) Open(ctx context.Context, logger logrus.FieldLogger) (*sql.DB, error) {
	dsn := dbcfg.Connection
	scheme, _, found := strings.Cut(dsn, "://")
	if !found {
		return nil, errors.New("expected URI-style dsn; sqlserver://, azuresql://, postgres:// or postgresql://")
	}

	dialer, err := socksDialer()
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"scheme": scheme,
		"socks":  dialer != nil,
	}).Debug("opening database")

	var dbc *sql.DB
	switch scheme {
	case "sqlserver", "azuresql":
		dbc, err = openMssql(dsn, dialer)
	case "postgres", "postgresql":
		dbc, err = openPgsql(dsn, dialer)
	default:
		return nil, fmt.Errorf("unsupported dsn scheme %q", scheme)
	}
	if err != nil {
		return nil, err
	}
	if err := dbc.PingContext(ctx); err != nil {
		_ = dbc.Close()
		return nil, err
	}
	return dbc, nil
}

func LoadConfig(dir string) (Config, error) {
	var result Config

	filename := path.Join(dir, configFilename)
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("no %s found in %s", configFilename, dir)
	}

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(yamlFile, &result)
	if err != nil {
		return Config{}, errors.Wrap(err, filename)
	}
	return result, nil
}

// database looks up and opens a database from the config file.
func database(ctx context.Context, logger logrus.FieldLogger, dbname string) (*sql.DB, DatabaseConfig, error) {
	config, err := LoadConfig(directory)
	if err != nil {
		return nil, DatabaseConfig{}, err
	}
	dbconfig, ok := config.Databases[dbname]
	if !ok {
		return nil, DatabaseConfig{}, fmt.Errorf("database %s not present in configuration file", dbname)
	}
	dbc, err := dbconfig.Open(ctx, logger)
	if err != nil {
		return nil, DatabaseConfig{}, err
	}
	return dbc, dbconfig, nil
}
