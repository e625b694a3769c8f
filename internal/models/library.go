package models

import "time"

// LibraryItem is a movie a user has added to their library. The
// (user_id, movie_id) pair is unique; adding the same movie twice is a
// no-op rather than an error.
type LibraryItem struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	MovieID     int       `json:"movie_id"`
	Title       string    `json:"title"`
	PosterPath  string    `json:"poster_path"`
	ReleaseDate string    `json:"release_date"`
	VoteAverage float64   `json:"vote_average"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddLibraryRequest is the request body for adding a movie to the library.
type AddLibraryRequest struct {
	Movie *LibraryMovie `json:"movie"`
}

// LibraryMovie carries the catalog fields the client sends when adding
// a movie. ID and Title are required; the rest is display metadata.
type LibraryMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}
