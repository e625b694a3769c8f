package handler

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"moviematch/internal/models"
	"moviematch/internal/service"
)

// MovieHandler handles HTTP requests for catalog browsing.
type MovieHandler struct {
	svc *service.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// Search runs a catalog title search.
// GET /api/movies/search?q=&page=
func (h *MovieHandler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	page := fiber.Query(c, "page", 1)

	if query == "" {
		return c.JSON(fiber.Map{
			"results": []models.MovieSummary{},
			"message": "No search query provided.",
		})
	}

	result, err := h.svc.Search(c.Context(), query, page)
	if err != nil {
		slog.Error("movie search failed", "query", query, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to search movies"})
	}

	return c.JSON(result)
}

// Popular returns the catalog's popular listing.
// GET /api/movies/popular?page=
func (h *MovieHandler) Popular(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)

	result, err := h.svc.Popular(c.Context(), page)
	if err != nil {
		slog.Error("popular movies failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to retrieve popular movies"})
	}

	return c.JSON(result)
}

// Detail returns a movie's detail with genres, videos and credits.
// GET /api/movies/:id
func (h *MovieHandler) Detail(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	detail, err := h.svc.Detail(c.Context(), movieID)
	if err != nil {
		slog.Error("movie detail failed", "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to retrieve movie details"})
	}

	return c.JSON(detail)
}
