package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"moviematch/internal/middleware"
	"moviematch/internal/models"
	"moviematch/internal/service"
)

// Recommender produces group recommendations for a requesting user.
type Recommender interface {
	Recommend(ctx context.Context, requesterID int, rawIDs []any) ([]models.ResolvedRecommendation, error)
}

// RecommendationHandler handles HTTP requests for group recommendations.
type RecommendationHandler struct {
	svc Recommender
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc Recommender) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// Recommend runs the group-recommendation pipeline for the
// authenticated user plus the ids in the body.
// POST /api/recommendations
func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req models.RecommendationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.UserIDs == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Missing user_ids in request body"})
	}

	results, err := h.svc.Recommend(c.Context(), userID, req.UserIDs)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUserIDs) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
		slog.Error("recommendation pipeline failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to generate recommendations"})
	}

	return c.JSON(fiber.Map{"results": results})
}

// Health returns service health status.
// GET /api/health
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "moviematch-api",
	})
}
