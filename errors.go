package sqlrevision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
)

// ErrUnsupportedDriver is returned when the database handle is neither
// go-mssqldb nor pgx.
var ErrUnsupportedDriver = errors.New("unsupported sql driver")

// RevisionParseError is a revision file that could not be split into
// statements.
type RevisionParseError struct {
	Source string
	Err    error
}

func (e RevisionParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Err)
}

func (e RevisionParseError) Unwrap() error {
	return e.Err
}

// RevisionParseErrors collects the failures of all files passed to Include.
type RevisionParseErrors struct {
	Errors []RevisionParseError
}

func (e RevisionParseErrors) Error() string {
	var msg strings.Builder
	msg.WriteString("sqlrevision parse error:\n\n")
	for _, e := range e.Errors {
		msg.WriteString(e.Error())
		msg.WriteString("\n")
	}
	return msg.String()
}

func (e RevisionParseErrors) Unwrap() []error {
	result := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		result[i] = err
	}
	return result
}

// ChecksumMismatchError means a revision has been applied already, but the
// file has been changed since.
type ChecksumMismatchError struct {
	Name             string
	AppliedChecksum  string
	RevisionChecksum string
}

func (e ChecksumMismatchError) Error() string {
	return fmt.Sprintf("revision %s was applied with checksum %s, but the file now has checksum %s",
		e.Name, e.AppliedChecksum, e.RevisionChecksum)
}

// StatementPos points at a statement within a revision. Index is 0-based.
type StatementPos struct {
	Source    string
	Index     int
	Statement string
}

func (p StatementPos) String() string {
	return fmt.Sprintf("%s statement #%d", p.Source, p.Index+1)
}

// MSSQLUserError is an error from SQL Server while executing a statement.
type MSSQLUserError struct {
	Wrapped mssql.Error
	Pos     StatementPos
}

func (s MSSQLUserError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "\n%s:\n%s\n", s.Pos, s.Pos.Statement)
	for _, item := range s.Wrapped.All {
		fmt.Fprintf(&buf, "\nline %d (%s): %s", item.LineNo, item.ProcName, item.Message)
	}
	return buf.String()
}

func (s MSSQLUserError) Unwrap() error {
	return s.Wrapped
}

// PGSQLUserError is an error from PostgreSQL while executing a statement.
type PGSQLUserError struct {
	Wrapped *pgconn.PgError
	Pos     StatementPos
}

func (s PGSQLUserError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "\n%s:\n%s\n", s.Pos, s.Pos.Statement)
	fmt.Fprintf(&buf, "\n%s (SQLSTATE %s): %s", s.Wrapped.Severity, s.Wrapped.Code, s.Wrapped.Message)
	if s.Wrapped.Position > 0 {
		fmt.Fprintf(&buf, " at character %d", s.Wrapped.Position)
	}
	if s.Wrapped.Detail != "" {
		fmt.Fprintf(&buf, "\n%s", s.Wrapped.Detail)
	}
	return buf.String()
}

func (s PGSQLUserError) Unwrap() error {
	return s.Wrapped
}

// wrapStatementError attaches the statement position to driver errors.
func wrapStatementError(err error, pos StatementPos) error {
	var mssqlErr mssql.Error
	if errors.As(err, &mssqlErr) {
		return MSSQLUserError{Wrapped: mssqlErr, Pos: pos}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return PGSQLUserError{Wrapped: pgErr, Pos: pos}
	}
	return fmt.Errorf("%s: %w", pos, err)
}
