package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
)

// refreshStore implements driven.RefreshStore.
type refreshStore struct {
	store *Store
}

var _ driven.RefreshStore = (*refreshStore)(nil)

// SaveRefresh records status under name.
func (s *refreshStore) SaveRefresh(ctx context.Context, name string, status domain.RefreshStatus) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO refresh_state (name, last_run, last_success, last_error, papers)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			last_run = excluded.last_run,
			last_success = excluded.last_success,
			last_error = excluded.last_error,
			papers = excluded.papers
	`, name, unixOrNull(status.LastRun), unixOrNull(status.LastSuccess), status.LastError, status.Papers)
	if err != nil {
		return fmt.Errorf("saving refresh state: %w", err)
	}
	return nil
}

// GetRefresh returns the record for name.
func (s *refreshStore) GetRefresh(ctx context.Context, name string) (*domain.RefreshStatus, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT last_run, last_success, last_error, papers
		FROM refresh_state WHERE name = ?
	`, name)

	var (
		status      domain.RefreshStatus
		lastRun     sql.NullInt64
		lastSuccess sql.NullInt64
	)
	if err := row.Scan(&lastRun, &lastSuccess, &status.LastError, &status.Papers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning refresh state: %w", err)
	}

	if lastRun.Valid {
		status.LastRun = time.Unix(lastRun.Int64, 0)
	}
	if lastSuccess.Valid {
		status.LastSuccess = time.Unix(lastSuccess.Int64, 0)
	}
	return &status, nil
}

func unixOrNull(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
