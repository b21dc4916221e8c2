package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PinnedRepoStore = (*PinnedRepoRepo)(nil)

// PinnedRepoRepo is the SQLite implementation of the PinnedRepoStore port interface.
type PinnedRepoRepo struct {
	db *DB
}

// NewPinnedRepoRepo creates a new PinnedRepoRepo backed by the given DB.
func NewPinnedRepoRepo(db *DB) *PinnedRepoRepo {
	return &PinnedRepoRepo{db: db}
}

// Add pins a repository. Returns ErrRepoAlreadyExists if it is already pinned.
func (r *PinnedRepoRepo) Add(ctx context.Context, repo model.PinnedRepo) error {
	const query = `INSERT INTO pinned_repos (full_name, owner, name, pinned_at) VALUES (?, ?, ?, ?)`

	pinnedAt := repo.PinnedAt
	if pinnedAt.IsZero() {
		pinnedAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query, repo.FullName, repo.Owner, repo.Name, pinnedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("pin repository %s: %w", repo.FullName, driven.ErrRepoAlreadyExists)
		}
		return fmt.Errorf("pin repository %s: %w", repo.FullName, err)
	}

	return nil
}

// Remove unpins a repository by full name. Returns ErrRepoNotFound if it is not pinned.
func (r *PinnedRepoRepo) Remove(ctx context.Context, fullName string) error {
	const query = `DELETE FROM pinned_repos WHERE full_name = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, fullName)
	if err != nil {
		return fmt.Errorf("unpin repository %s: %w", fullName, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("unpin repository %s: %w", fullName, driven.ErrRepoNotFound)
	}

	return nil
}

// GetByFullName retrieves a pinned repository by its full name. Returns nil, nil if
// the repository is not pinned.
func (r *PinnedRepoRepo) GetByFullName(ctx context.Context, fullName string) (*model.PinnedRepo, error) {
	const query = `SELECT id, full_name, owner, name, pinned_at FROM pinned_repos WHERE full_name = ?`

	repo, err := scanPinnedRepo(r.db.Reader.QueryRowContext(ctx, query, fullName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pinned repository %s: %w", fullName, err)
	}

	return repo, nil
}

// ListAll returns all pinned repositories ordered by full name.
func (r *PinnedRepoRepo) ListAll(ctx context.Context) ([]model.PinnedRepo, error) {
	const query = `SELECT id, full_name, owner, name, pinned_at FROM pinned_repos ORDER BY full_name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pinned repositories: %w", err)
	}
	defer rows.Close()

	repos := []model.PinnedRepo{}
	for rows.Next() {
		repo, err := scanPinnedRepo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pinned repository: %w", err)
		}
		repos = append(repos, *repo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pinned repositories: %w", err)
	}

	return repos, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPinnedRepo(s scanner) (*model.PinnedRepo, error) {
	var repo model.PinnedRepo
	var pinnedAt string

	err := s.Scan(&repo.ID, &repo.FullName, &repo.Owner, &repo.Name, &pinnedAt)
	if err != nil {
		return nil, err
	}

	repo.PinnedAt, err = parseTime(pinnedAt)
	if err != nil {
		return nil, fmt.Errorf("parse pinned_at: %w", err)
	}

	return &repo, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
