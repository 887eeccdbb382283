package sqlrevision

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vippsas/sqlrevision/statements"
)

// DefaultLockTimeout is used when Runner.LockTimeout is zero.
const DefaultLockTimeout = 20 * time.Second

// Runner applies revisions to a database, one transaction per revision,
// executing and timing the statements of each revision one at a time.
type Runner struct {
	Logger      logrus.FieldLogger
	LockTimeout time.Duration
}

func NewRunner(logger logrus.FieldLogger) *Runner {
	return &Runner{Logger: logger}
}

// UpResult summarizes a call to Up.
type UpResult struct {
	RunID    uuid.UUID
	Applied  []string
	Skipped  []string
	Duration time.Duration
}

// RevisionState is how a revision compares to the bookkeeping table.
type RevisionState int

const (
	Pending RevisionState = iota
	Applied
	Modified
)

func (s RevisionState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Applied:
		return "applied"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

type RevisionStatus struct {
	Revision Revision
	// AppliedRevision is nil if the revision is pending.
	AppliedRevision *AppliedRevision
	State           RevisionState
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

func (r *Runner) lockTimeout() time.Duration {
	if r.LockTimeout <= 0 {
		return DefaultLockTimeout
	}
	return r.LockTimeout
}

// Up applies the revisions that are not in the bookkeeping table yet, in
// order. It stops at the first failure; revisions applied before the
// failure stay applied.
//
// An exclusive application lock is taken in every revision transaction, and
// the applied state is checked again after taking it, so that several
// processes starting at the same time line up nicely.
func (r *Runner) Up(ctx context.Context, dbc DB, revs Revisions) (result UpResult, err error) {
	start := time.Now()
	result.RunID, err = uuid.NewV4()
	if err != nil {
		return result, err
	}
	logger := r.logger().WithField("run_id", result.RunID.String())

	d, err := dialectFor(dbc.Driver())
	if err != nil {
		return result, err
	}
	if _, err = dbc.ExecContext(ctx, d.createTable); err != nil {
		return result, fmt.Errorf("failed to create %s: %w", TableName, err)
	}

	for _, rev := range revs {
		applied, err := r.apply(ctx, dbc, d, rev, logger.WithField("revision", rev.Name))
		if err != nil {
			logger.WithError(err).WithField("revision", rev.Name).Error("revision failed")
			return result, err
		}
		if applied {
			result.Applied = append(result.Applied, rev.Name)
		} else {
			result.Skipped = append(result.Skipped, rev.Name)
		}
	}

	result.Duration = time.Since(start)
	logger.WithFields(logrus.Fields{
		"applied":  len(result.Applied),
		"skipped":  len(result.Skipped),
		"duration": result.Duration,
	}).Info("revisions up to date")
	return result, nil
}

func (r *Runner) apply(ctx context.Context, dbc DB, d dialect, rev Revision, logger logrus.FieldLogger) (bool, error) {
	tx, err := dbc.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	if err := d.lock(ctx, tx, tx, r.lockTimeout()); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to lock %s: %w", lockResource, err)
	}

	checksum, found, err := appliedChecksum(ctx, tx, d, rev.Name)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	skip, err := alreadyApplied(rev, checksum, found)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if skip {
		_ = tx.Rollback()
		logger.Debug("revision already applied")
		return false, nil
	}

	logger.WithField("statements", rev.Statements.Len()).Info("applying revision")
	duration, err := r.execStatements(ctx, tx, rev, logger)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}

	if err := markApplied(ctx, tx, d, rev, duration); err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	logger.WithField("duration", duration).Info("revision applied")
	return true, nil
}

// alreadyApplied decides whether rev can be skipped, given the checksum
// found in the bookkeeping table. A revision recorded with another checksum
// has been edited after it was applied.
func alreadyApplied(rev Revision, recorded string, found bool) (bool, error) {
	if !found {
		return false, nil
	}
	if recorded != rev.Checksum {
		return false, ChecksumMismatchError{
			Name:             rev.Name,
			AppliedChecksum:  recorded,
			RevisionChecksum: rev.Checksum,
		}
	}
	return true, nil
}

// execStatements runs the statements of rev in order, stopping at the
// first error. It returns the total time spent executing.
func (r *Runner) execStatements(ctx context.Context, ex Execer, rev Revision, logger logrus.FieldLogger) (time.Duration, error) {
	if mode := rev.Statements.Unterminated(); mode != statements.Unquoted {
		logger.WithField("mode", mode.String()).Debug("unterminated quote")
	}

	var total time.Duration
	for i, stmt := range rev.Statements.All() {
		pos := StatementPos{Source: rev.Source, Index: i, Statement: stmt.String()}
		start := time.Now()
		res, err := ex.ExecContext(ctx, stmt.String())
		elapsed := time.Since(start)
		total += elapsed
		if err != nil {
			return total, wrapStatementError(err, pos)
		}

		fields := logrus.Fields{
			"statement": i + 1,
			"duration":  elapsed,
		}
		if res != nil {
			if n, err := res.RowsAffected(); err == nil {
				fields["rows_affected"] = n
			}
		}
		logger.WithFields(fields).Debug("executed statement")
	}
	return total, nil
}

// Status compares revs with the bookkeeping table. It does not write to
// the database; if the table does not exist yet every revision is pending.
func (r *Runner) Status(ctx context.Context, dbc DB, revs Revisions) ([]RevisionStatus, error) {
	exists, err := TableExists(ctx, dbc)
	if err != nil {
		return nil, err
	}
	if !exists {
		r.logger().WithField("table", TableName).Debug("bookkeeping table missing, all revisions pending")
		return compareApplied(revs, nil), nil
	}
	applied, err := ListApplied(ctx, dbc)
	if err != nil {
		return nil, err
	}
	return compareApplied(revs, applied), nil
}

func compareApplied(revs Revisions, applied map[string]AppliedRevision) []RevisionStatus {
	result := make([]RevisionStatus, 0, len(revs))
	for _, rev := range revs {
		status := RevisionStatus{Revision: rev, State: Pending}
		if a, ok := applied[rev.Name]; ok {
			status.AppliedRevision = &a
			status.State = Applied
			if a.Checksum != rev.Checksum {
				status.State = Modified
			}
		}
		result = append(result, status)
	}
	return result
}
