package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/sethvargo/go-retry"
)

// TxFn is a function that executes within a database transaction.
// It receives the context and a transaction, and returns an error if the operation fails.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// The function handles rollbacks in case of panic and logs appropriate information.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			// ALLOW-PANIC: Propagating caught panic from transaction
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if errors.Is(rollbackErr, sql.ErrTxDone) {
			// database/sql already rolled back when ctx ended
			log.Debug("transaction already rolled back",
				slog.String("error", err.Error()))
			return err
		}
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	err = tx.Commit()
	if err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debug("transaction committed successfully")
	return nil
}

// RetryPolicy bounds how often a conflicting transaction is re-run.
type RetryPolicy struct {
	// MaxRetries is the number of re-runs after the first attempt. Zero disables retrying.
	MaxRetries int
	// BaseBackoff is the first delay; each later delay doubles it.
	BaseBackoff time.Duration
	// Retryable decides whether a failed attempt may be re-run.
	// Nil means errors.Is(err, ErrConflict).
	Retryable func(error) bool
	// Timeout bounds a detached transaction block, retries included. Zero means no bound.
	Timeout time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseBackoff: 25 * time.Millisecond, Timeout: 30 * time.Second}
}

// Detach returns a context that keeps ctx's values but not its cancellation,
// bounded by the policy timeout. A transaction started on it runs to commit or
// rollback even if the caller goes away.
func (p RetryPolicy) Detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if p.Timeout <= 0 {
		return detached, func() {}
	}
	return context.WithTimeout(detached, p.Timeout)
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return errors.Is(err, ErrConflict)
}

// RunInTransactionWithRetry runs fn through RunInTransaction and re-runs the whole
// transaction with exponential backoff while it fails with a retryable error.
// fn must be safe to run more than once: every attempt starts from a fresh transaction.
// Non-retryable errors and the last retryable error are returned unchanged.
func RunInTransactionWithRetry(ctx context.Context, db *sql.DB, policy RetryPolicy, fn TxFn) error {
	log := logger.FromContext(ctx)

	base := policy.BaseBackoff
	if base <= 0 {
		base = DefaultRetryPolicy().BaseBackoff
	}
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := retry.WithMaxRetries(uint64(maxRetries), retry.NewExponential(base))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := RunInTransaction(ctx, db, fn)
		if err != nil && policy.retryable(err) {
			log.Warn("transaction conflict, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return err
	})
}
