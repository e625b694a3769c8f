package models

// MovieSummary is the public shape of a catalog movie.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterURL   *string `json:"poster_url"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// MoviePage is a page of catalog results.
type MoviePage struct {
	Results      []MovieSummary `json:"results"`
	Page         int            `json:"page"`
	TotalResults int            `json:"total_results"`
	TotalPages   int            `json:"total_pages"`
}

// MovieDetail is the public shape of a catalog movie detail, including
// genre names, videos and credits.
type MovieDetail struct {
	MovieSummary
	Genres []string     `json:"genres"`
	Videos []Video      `json:"videos"`
	Cast   []CastMember `json:"cast"`
	Crew   []CrewMember `json:"crew"`
}

// Video is a trailer/clip attached to a movie.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// CastMember is a credited actor.
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

// CrewMember is a credited crew member.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// TMDBImageBase is the poster image base URL (w342 rendition).
const TMDBImageBase = "https://image.tmdb.org/t/p/w342"

// PosterURL maps a raw catalog poster path to a full image URL, or nil
// when the movie has no poster.
func PosterURL(path string) *string {
	if path == "" {
		return nil
	}
	u := TMDBImageBase + path
	return &u
}
