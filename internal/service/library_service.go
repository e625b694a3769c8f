package service

import (
	"context"
	"errors"
	"fmt"

	"moviematch/internal/models"
)

var (
	// ErrInvalidMovie is returned when the add payload lacks id or title.
	ErrInvalidMovie = errors.New("missing required fields: id, title")
	// ErrNotFound is returned when removing a movie that is not in the library.
	ErrNotFound = errors.New("not found")
)

// LibraryStore is the persistence surface for library items.
type LibraryStore interface {
	Insert(ctx context.Context, item *models.LibraryItem) (bool, error)
	ListByUser(ctx context.Context, userID int) ([]models.LibraryItem, error)
	ListByUsers(ctx context.Context, userIDs []int) ([]models.LibraryItem, error)
	Delete(ctx context.Context, userID, movieID int) (bool, error)
}

// LibraryService handles a user's liked-movie library.
type LibraryService struct {
	library LibraryStore
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(library LibraryStore) *LibraryService {
	return &LibraryService{library: library}
}

// Add stores a movie in the user's library. The second return value is
// false when the movie was already present (a no-op success).
func (s *LibraryService) Add(ctx context.Context, userID int, movie *models.LibraryMovie) (*models.LibraryItem, bool, error) {
	if movie == nil || movie.ID == 0 || movie.Title == "" {
		return nil, false, ErrInvalidMovie
	}

	item := &models.LibraryItem{
		UserID:      userID,
		MovieID:     movie.ID,
		Title:       movie.Title,
		PosterPath:  movie.PosterPath,
		ReleaseDate: movie.ReleaseDate,
		VoteAverage: movie.VoteAverage,
	}

	added, err := s.library.Insert(ctx, item)
	if err != nil {
		return nil, false, fmt.Errorf("add to library: %w", err)
	}
	if !added {
		return nil, false, nil
	}
	return item, true, nil
}

// List returns the user's library, newest first.
func (s *LibraryService) List(ctx context.Context, userID int) ([]models.LibraryItem, error) {
	items, err := s.library.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	return items, nil
}

// Remove deletes a movie from the user's library.
func (s *LibraryService) Remove(ctx context.Context, userID, movieID int) error {
	removed, err := s.library.Delete(ctx, userID, movieID)
	if err != nil {
		return fmt.Errorf("remove from library: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}
