package models

// GroupLibrary maps a user id (as string key) to that user's library
// snapshot. Built fresh per recommendation request, never persisted.
type GroupLibrary map[string]*GroupMember

// GroupMember is one user's entry in a GroupLibrary. Name is nil when
// the requested id does not exist.
type GroupMember struct {
	Name    *string        `json:"name"`
	Library []LibraryEntry `json:"library"`
}

// LibraryEntry is a compact liked-movie record fed to the model.
type LibraryEntry struct {
	Name  string  `json:"name"`
	Date  string  `json:"date"`
	Genre *string `json:"genre"`
}

// Proposal is a model-generated, not-yet-verified movie suggestion.
type Proposal struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	Why   string `json:"why"`
}

// ResolvedRecommendation is a proposal resolved to its canonical
// catalog record, with the model's rationale merged in.
type ResolvedRecommendation struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterURL   *string `json:"poster_url"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Why         string  `json:"why"`
}

// RecommendationRequest is the request body for group recommendations.
// UserIDs is kept loosely typed so numeric strings can be coerced the
// same way as JSON numbers.
type RecommendationRequest struct {
	UserIDs []any `json:"user_ids"`
}
