package service

import (
	"context"
	"fmt"

	"moviematch/internal/models"
	"moviematch/internal/tmdb"
)

// Catalog is the external movie-catalog surface the movie service needs.
type Catalog interface {
	Search(ctx context.Context, query string, page int) (*tmdb.SearchPage, error)
	Popular(ctx context.Context, page int) (*tmdb.SearchPage, error)
	Details(ctx context.Context, movieID int) (*tmdb.MovieDetails, error)
}

const maxCastMembers = 15

// MovieService maps catalog responses to the public wire shapes.
type MovieService struct {
	catalog Catalog
}

// NewMovieService creates a new MovieService.
func NewMovieService(catalog Catalog) *MovieService {
	return &MovieService{catalog: catalog}
}

// Search runs a catalog title search.
func (s *MovieService) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	result, err := s.catalog.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return mapPage(result), nil
}

// Popular returns the catalog's popular listing.
func (s *MovieService) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	result, err := s.catalog.Popular(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("popular movies: %w", err)
	}
	return mapPage(result), nil
}

// Detail returns a movie's detail with genre names, videos, the top
// billed cast and the full crew.
func (s *MovieService) Detail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	d, err := s.catalog.Details(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("movie details: %w", err)
	}

	detail := &models.MovieDetail{
		MovieSummary: mapMovie(d.Movie),
		Genres:       make([]string, 0, len(d.Genres)),
		Videos:       make([]models.Video, 0, len(d.Videos.Results)),
		Cast:         make([]models.CastMember, 0, maxCastMembers),
		Crew:         make([]models.CrewMember, 0, len(d.Credits.Crew)),
	}

	for _, g := range d.Genres {
		detail.Genres = append(detail.Genres, g.Name)
	}
	for _, v := range d.Videos.Results {
		detail.Videos = append(detail.Videos, models.Video(v))
	}
	for i, c := range d.Credits.Cast {
		if i == maxCastMembers {
			break
		}
		detail.Cast = append(detail.Cast, models.CastMember{
			ID:          c.ID,
			Name:        c.Name,
			Character:   c.Character,
			ProfilePath: c.ProfilePath,
			Order:       c.Order,
		})
	}
	for _, c := range d.Credits.Crew {
		detail.Crew = append(detail.Crew, models.CrewMember{
			ID:         c.ID,
			Name:       c.Name,
			Job:        c.Job,
			Department: c.Department,
		})
	}

	return detail, nil
}

func mapPage(p *tmdb.SearchPage) *models.MoviePage {
	out := &models.MoviePage{
		Results:      make([]models.MovieSummary, 0, len(p.Results)),
		Page:         p.Page,
		TotalResults: p.TotalResults,
		TotalPages:   p.TotalPages,
	}
	for _, m := range p.Results {
		out.Results = append(out.Results, mapMovie(m))
	}
	return out
}

func mapMovie(m tmdb.Movie) models.MovieSummary {
	return models.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		PosterURL:   models.PosterURL(m.PosterPath),
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
	}
}
