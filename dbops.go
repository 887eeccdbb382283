package sqlrevision

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// AppliedRevision is a row of the bookkeeping table.
type AppliedRevision struct {
	Name      string
	Checksum  string
	AppliedAt time.Time
	Duration  time.Duration
}

// EnsureTable creates the bookkeeping table unless it exists.
func EnsureTable(ctx context.Context, dbc DB) error {
	d, err := dialectFor(dbc.Driver())
	if err != nil {
		return err
	}
	_, err = dbc.ExecContext(ctx, d.createTable)
	return err
}

// TableExists reports whether the bookkeeping table has been created.
func TableExists(ctx context.Context, dbc DB) (bool, error) {
	d, err := dialectFor(dbc.Driver())
	if err != nil {
		return false, err
	}
	var exists bool
	err = dbc.QueryRowContext(ctx, d.tableExists).Scan(&exists)
	return exists, err
}

// ListApplied returns the revisions recorded in the bookkeeping table, by name.
// The table must exist; see EnsureTable.
func ListApplied(ctx context.Context, dbc DB) (map[string]AppliedRevision, error) {
	d, err := dialectFor(dbc.Driver())
	if err != nil {
		return nil, err
	}
	rows, err := dbc.QueryContext(ctx, d.selectAll)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]AppliedRevision)
	for rows.Next() {
		var a AppliedRevision
		var durationMs int64
		if err := rows.Scan(&a.Name, &a.Checksum, &a.AppliedAt, &durationMs); err != nil {
			return nil, err
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		result[a.Name] = a
	}
	return result, rows.Err()
}

// appliedChecksum looks up a single revision inside a transaction.
// found is false if the revision has not been applied.
func appliedChecksum(ctx context.Context, q Querier, d dialect, name string) (checksum string, found bool, err error) {
	err = q.QueryRowContext(ctx, d.selectOne, name).Scan(&checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return checksum, true, nil
}

func markApplied(ctx context.Context, ex Execer, d dialect, rev Revision, duration time.Duration) error {
	_, err := ex.ExecContext(ctx, d.insert, rev.Name, rev.Checksum, duration.Milliseconds())
	return err
}
