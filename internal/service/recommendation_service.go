package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"moviematch/internal/models"
	"moviematch/internal/tmdb"
)

var (
	// ErrInvalidUserIDs is returned when a requested id cannot be
	// coerced to an integer.
	ErrInvalidUserIDs = errors.New("user_ids must be a list of integers")
	// ErrMalformedGeneration is returned when the model output is not
	// the expected JSON object. Fatal for the whole request.
	ErrMalformedGeneration = errors.New("malformed model output")
)

const systemInstruction = "You are a movie recommendation expert. " +
	"Given multiple users' liked movies (title, year), propose ~10 movies " +
	"they will enjoy together. Avoid anything already liked. " +
	"Return ONLY a JSON object with key 'recommendations', an array of " +
	"items with {title, year, why}."

// UserDirectory is the slice of user storage the aggregator needs.
type UserDirectory interface {
	DisplayNames(ctx context.Context, ids []int) (map[int]string, error)
}

// GroupLibraryLister is the slice of library storage the aggregator needs.
type GroupLibraryLister interface {
	ListByUsers(ctx context.Context, userIDs []int) ([]models.LibraryItem, error)
}

// CatalogSearcher is the slice of the catalog the resolver needs.
type CatalogSearcher interface {
	Search(ctx context.Context, query string, page int) (*tmdb.SearchPage, error)
}

// TextGenerator is the generative-model surface: one blocking call that
// returns a JSON object as text.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// RecommendationService runs the group-recommendation pipeline:
// aggregate the members' libraries, ask the model for proposals, then
// resolve each proposal against the catalog.
type RecommendationService struct {
	users   UserDirectory
	library GroupLibraryLister
	catalog CatalogSearcher
	model   TextGenerator
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(users UserDirectory, library GroupLibraryLister, catalog CatalogSearcher, model TextGenerator) *RecommendationService {
	return &RecommendationService{users: users, library: library, catalog: catalog, model: model}
}

// JoinUserLibraries aggregates the given users' libraries into one
// structure keyed by user id. Every requested id gets an entry, even
// with zero items; an unknown id gets a nil name. Items keep the
// storage layer's insertion order. Duplicate ids collapse onto one key
// (last write wins). Empty input returns an empty map with no queries.
func (s *RecommendationService) JoinUserLibraries(ctx context.Context, userIDs []int) (models.GroupLibrary, error) {
	group := models.GroupLibrary{}
	if len(userIDs) == 0 {
		return group, nil
	}

	names, err := s.users.DisplayNames(ctx, userIDs)
	if err != nil {
		slog.Error("failed to fetch display names", "user_ids", userIDs, "error", err)
		return nil, fmt.Errorf("join user libraries: %w", err)
	}

	items, err := s.library.ListByUsers(ctx, userIDs)
	if err != nil {
		slog.Error("failed to fetch group libraries", "user_ids", userIDs, "error", err)
		return nil, fmt.Errorf("join user libraries: %w", err)
	}

	for _, id := range userIDs {
		var name *string
		if n, ok := names[id]; ok {
			name = &n
		}
		group[strconv.Itoa(id)] = &models.GroupMember{
			Name:    name,
			Library: []models.LibraryEntry{},
		}
	}

	for _, item := range items {
		member := group[strconv.Itoa(item.UserID)]
		member.Library = append(member.Library, models.LibraryEntry{
			Name: item.Title,
			Date: item.ReleaseDate,
		})
	}

	return group, nil
}

// GenerateRecommendations serializes the group library, issues one
// model call and parses the proposals out of the returned JSON object.
func (s *RecommendationService) GenerateRecommendations(ctx context.Context, group models.GroupLibrary) ([]models.Proposal, error) {
	payload, err := json.Marshal(group)
	if err != nil {
		return nil, fmt.Errorf("serialize group library: %w", err)
	}

	prompt := fmt.Sprintf(
		"Members' libraries:\n%s\n\nReturn only JSON with: { \"recommendations\": [{\"title\":\"...\",\"year\":YYYY,\"why\":\"...\"}] }",
		payload,
	)

	content, err := s.model.GenerateJSON(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}
	raw, ok := out["recommendations"]
	if !ok {
		return nil, fmt.Errorf("%w: missing recommendations key", ErrMalformedGeneration)
	}
	var proposals []models.Proposal
	if err := json.Unmarshal(raw, &proposals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}

	return proposals, nil
}

// Recommend runs the full pipeline for a requesting user and a set of
// other user ids. The requester's id is always included in the
// aggregate. Per-proposal resolution failures are absorbed: a proposal
// whose catalog search errors or comes back empty is logged and
// skipped, never failing the batch. Output preserves proposal order.
func (s *RecommendationService) Recommend(ctx context.Context, requesterID int, rawIDs []any) ([]models.ResolvedRecommendation, error) {
	userIDs, err := coerceUserIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	userIDs = append(userIDs, requesterID)

	if len(userIDs) == 0 {
		return []models.ResolvedRecommendation{}, nil
	}

	group, err := s.JoinUserLibraries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	proposals, err := s.GenerateRecommendations(ctx, group)
	if err != nil {
		return nil, err
	}

	results := make([]models.ResolvedRecommendation, 0, len(proposals))
	skipped := 0
	for _, p := range proposals {
		page, err := s.catalog.Search(ctx, p.Title, 1)
		if err != nil {
			slog.Warn("skipping proposal, catalog search failed", "title", p.Title, "error", err)
			skipped++
			continue
		}
		if len(page.Results) == 0 {
			slog.Warn("skipping proposal, no catalog match", "title", p.Title)
			skipped++
			continue
		}

		m := page.Results[0]
		results = append(results, models.ResolvedRecommendation{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			PosterURL:   models.PosterURL(m.PosterPath),
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			Why:         p.Why,
		})
	}

	slog.Info("recommendation pipeline completed",
		"members", len(userIDs), "proposals", len(proposals),
		"resolved", len(results), "skipped", skipped)

	return results, nil
}

// coerceUserIDs normalizes the loosely typed user_ids payload. JSON
// numbers are truncated to integers and numeric strings are parsed;
// anything else rejects the whole request.
func coerceUserIDs(raw []any) ([]int, error) {
	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case float64:
			ids = append(ids, int(math.Trunc(t)))
		case int:
			ids = append(ids, t)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(t))
			if err != nil {
				return nil, ErrInvalidUserIDs
			}
			ids = append(ids, n)
		case json.Number:
			n, err := t.Int64()
			if err != nil {
				return nil, ErrInvalidUserIDs
			}
			ids = append(ids, int(n))
		default:
			return nil, ErrInvalidUserIDs
		}
	}
	return ids, nil
}
