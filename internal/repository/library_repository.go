package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"moviematch/internal/models"
)

// LibraryRepository handles database operations for library items.
type LibraryRepository struct {
	db *sql.DB
}

// NewLibraryRepository creates a new LibraryRepository.
func NewLibraryRepository(db *sql.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// Insert adds a movie to a user's library. The second return value is
// false when the (user_id, movie_id) pair already exists; that case is
// not an error.
func (r *LibraryRepository) Insert(ctx context.Context, item *models.LibraryItem) (bool, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO library_items (user_id, movie_id, title, poster_path, release_date, vote_average)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, movie_id) DO NOTHING
		RETURNING id, created_at
	`, item.UserID, item.MovieID, item.Title, item.PosterPath, item.ReleaseDate, item.VoteAverage).
		Scan(&item.ID, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert library item: %w", err)
	}
	return true, nil
}

// ListByUser returns a user's library, newest first.
func (r *LibraryRepository) ListByUser(ctx context.Context, userID int) ([]models.LibraryItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, movie_id, title, poster_path, release_date, vote_average, created_at
		FROM library_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query library: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListByUsers returns all library items owned by any of the given users
// in one query. Rows come back in insertion order (by id); no other
// sort is applied.
func (r *LibraryRepository) ListByUsers(ctx context.Context, userIDs []int) ([]models.LibraryItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, movie_id, title, poster_path, release_date, vote_average, created_at
		FROM library_items
		WHERE user_id = ANY($1)
		ORDER BY id
	`, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("query group libraries: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Delete removes a movie from a user's library. Returns false when the
// item was not present.
func (r *LibraryRepository) Delete(ctx context.Context, userID, movieID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM library_items WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("delete library item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanItems(rows *sql.Rows) ([]models.LibraryItem, error) {
	items := make([]models.LibraryItem, 0)
	for rows.Next() {
		var item models.LibraryItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.MovieID, &item.Title,
			&item.PosterPath, &item.ReleaseDate, &item.VoteAverage, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan library item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
