package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"moviematch/internal/middleware"
	"moviematch/internal/models"
	"moviematch/internal/service"
)

// LibraryHandler handles HTTP requests for the user's library.
type LibraryHandler struct {
	svc *service.LibraryService
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(svc *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

// List returns the authenticated user's library.
// GET /api/library
func (h *LibraryHandler) List(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	items, err := h.svc.List(c.Context(), userID)
	if err != nil {
		slog.Error("failed to list library", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to retrieve library"})
	}

	return c.JSON(items)
}

// Add stores a movie in the authenticated user's library.
// POST /api/library/add
func (h *LibraryHandler) Add(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req models.AddLibraryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	item, added, err := h.svc.Add(c.Context(), userID, req.Movie)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMovie) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
		slog.Error("failed to add to library", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to add to library"})
	}
	if !added {
		return c.JSON(fiber.Map{"message": "Already in library"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Added",
		"item":    item,
	})
}

// Remove deletes a movie from the authenticated user's library.
// DELETE /api/library/remove/:movie_id
func (h *LibraryHandler) Remove(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	movieID, err := strconv.Atoi(c.Params("movie_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	if err := h.svc.Remove(c.Context(), userID, movieID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Not found"})
		}
		slog.Error("failed to remove from library", "user_id", userID, "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to remove from library"})
	}

	return c.JSON(fiber.Map{
		"message":  "Removed",
		"movie_id": movieID,
	})
}
