package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviematch/internal/models"
	"moviematch/internal/tmdb"
)

type fakeUserDirectory struct {
	names map[int]string
	err   error
	calls int
}

func (f *fakeUserDirectory) DisplayNames(_ context.Context, ids []int) (map[int]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

type fakeGroupLibrary struct {
	items []models.LibraryItem
	err   error
	calls int
}

func (f *fakeGroupLibrary) ListByUsers(_ context.Context, ids []int) ([]models.LibraryItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeCatalog struct {
	pages  map[string]*tmdb.SearchPage
	errFor map[string]error
	calls  []string
}

func (f *fakeCatalog) Search(_ context.Context, query string, page int) (*tmdb.SearchPage, error) {
	f.calls = append(f.calls, query)
	if err, ok := f.errFor[query]; ok {
		return nil, err
	}
	if p, ok := f.pages[query]; ok {
		return p, nil
	}
	return &tmdb.SearchPage{Results: []tmdb.Movie{}}, nil
}

type fakeModel struct {
	content string
	err     error
	calls   int
}

func (f *fakeModel) GenerateJSON(_ context.Context, system, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func newService(users *fakeUserDirectory, lib *fakeGroupLibrary, cat *fakeCatalog, model *fakeModel) *RecommendationService {
	if users == nil {
		users = &fakeUserDirectory{}
	}
	if lib == nil {
		lib = &fakeGroupLibrary{}
	}
	if cat == nil {
		cat = &fakeCatalog{}
	}
	if model == nil {
		model = &fakeModel{}
	}
	return NewRecommendationService(users, lib, cat, model)
}

func searchPage(movies ...tmdb.Movie) *tmdb.SearchPage {
	return &tmdb.SearchPage{Page: 1, Results: movies, TotalPages: 1, TotalResults: len(movies)}
}

func TestJoinUserLibraries_EmptyInputIssuesNoQueries(t *testing.T) {
	users := &fakeUserDirectory{}
	lib := &fakeGroupLibrary{}
	svc := newService(users, lib, nil, nil)

	group, err := svc.JoinUserLibraries(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, group)
	assert.Zero(t, users.calls)
	assert.Zero(t, lib.calls)
}

func TestJoinUserLibraries_GroupsItemsByOwner(t *testing.T) {
	users := &fakeUserDirectory{names: map[int]string{1: "Alice", 2: "Bob"}}
	lib := &fakeGroupLibrary{items: []models.LibraryItem{
		{UserID: 1, Title: "Inception", ReleaseDate: "2010-07-16"},
		{UserID: 2, Title: "The Matrix", ReleaseDate: "1999-03-31"},
		{UserID: 1, Title: "Heat", ReleaseDate: "1995-12-15"},
	}}
	svc := newService(users, lib, nil, nil)

	group, err := svc.JoinUserLibraries(context.Background(), []int{1, 2, 3})

	require.NoError(t, err)
	require.Len(t, group, 3)

	require.NotNil(t, group["1"].Name)
	assert.Equal(t, "Alice", *group["1"].Name)
	require.Len(t, group["1"].Library, 2)
	// Storage return order is preserved within each member's library.
	assert.Equal(t, "Inception", group["1"].Library[0].Name)
	assert.Equal(t, "2010-07-16", group["1"].Library[0].Date)
	assert.Nil(t, group["1"].Library[0].Genre)
	assert.Equal(t, "Heat", group["1"].Library[1].Name)

	require.Len(t, group["2"].Library, 1)
	assert.Equal(t, "The Matrix", group["2"].Library[0].Name)

	// Unknown user still gets an entry, with no name and no items.
	require.Contains(t, group, "3")
	assert.Nil(t, group["3"].Name)
	assert.Empty(t, group["3"].Library)

	assert.Equal(t, 1, users.calls)
	assert.Equal(t, 1, lib.calls)
}

func TestJoinUserLibraries_DuplicateIDsCollapse(t *testing.T) {
	users := &fakeUserDirectory{names: map[int]string{7: "Solo"}}
	lib := &fakeGroupLibrary{items: []models.LibraryItem{{UserID: 7, Title: "Alien"}}}
	svc := newService(users, lib, nil, nil)

	group, err := svc.JoinUserLibraries(context.Background(), []int{7, 7})

	require.NoError(t, err)
	require.Len(t, group, 1)
	assert.Len(t, group["7"].Library, 1)
}

func TestJoinUserLibraries_StorageErrorPropagates(t *testing.T) {
	lib := &fakeGroupLibrary{err: errors.New("connection refused")}
	svc := newService(&fakeUserDirectory{}, lib, nil, nil)

	_, err := svc.JoinUserLibraries(context.Background(), []int{1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCoerceUserIDs(t *testing.T) {
	ids, err := coerceUserIDs([]any{float64(1), "2", float64(3.7)})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	_, err = coerceUserIDs([]any{"abc"})
	assert.ErrorIs(t, err, ErrInvalidUserIDs)

	_, err = coerceUserIDs([]any{float64(1), true})
	assert.ErrorIs(t, err, ErrInvalidUserIDs)

	ids, err = coerceUserIDs([]any{})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGenerateRecommendations_ParsesProposals(t *testing.T) {
	model := &fakeModel{content: `{"recommendations":[{"title":"Tenet","year":2020,"why":"time"},{"title":"Looper","year":2012,"why":"loops"}]}`}
	svc := newService(nil, nil, nil, model)

	proposals, err := svc.GenerateRecommendations(context.Background(), models.GroupLibrary{})

	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, "Tenet", proposals[0].Title)
	assert.Equal(t, 2020, proposals[0].Year)
	assert.Equal(t, "loops", proposals[1].Why)
	assert.Equal(t, 1, model.calls)
}

func TestGenerateRecommendations_MalformedJSONIsFatal(t *testing.T) {
	model := &fakeModel{content: `here are some movies you might like`}
	svc := newService(nil, nil, nil, model)

	_, err := svc.GenerateRecommendations(context.Background(), models.GroupLibrary{})

	assert.ErrorIs(t, err, ErrMalformedGeneration)
}

func TestGenerateRecommendations_MissingKeyIsFatal(t *testing.T) {
	model := &fakeModel{content: `{"movies":[]}`}
	svc := newService(nil, nil, nil, model)

	_, err := svc.GenerateRecommendations(context.Background(), models.GroupLibrary{})

	assert.ErrorIs(t, err, ErrMalformedGeneration)
}

func TestRecommend_SkipsUnresolvedProposals(t *testing.T) {
	model := &fakeModel{content: `{"recommendations":[
		{"title":"Tenet","year":2020,"why":"first"},
		{"title":"Ghost Film","year":1900,"why":"second"},
		{"title":"Looper","year":2012,"why":"third"}]}`}
	cat := &fakeCatalog{pages: map[string]*tmdb.SearchPage{
		"Tenet":  searchPage(tmdb.Movie{ID: 10, Title: "Tenet", PosterPath: "/t.jpg", VoteAverage: 7.4}),
		"Looper": searchPage(tmdb.Movie{ID: 20, Title: "Looper"}),
	}}
	svc := newService(&fakeUserDirectory{names: map[int]string{1: "A"}}, &fakeGroupLibrary{}, cat, model)

	results, err := svc.Recommend(context.Background(), 1, []any{})

	require.NoError(t, err)
	// The unresolvable middle proposal is dropped with no gap marker;
	// the rest keep proposal order and carry their own rationale.
	require.Len(t, results, 2)
	assert.Equal(t, 10, results[0].ID)
	assert.Equal(t, "first", results[0].Why)
	require.NotNil(t, results[0].PosterURL)
	assert.Equal(t, models.TMDBImageBase+"/t.jpg", *results[0].PosterURL)
	assert.Equal(t, 20, results[1].ID)
	assert.Equal(t, "third", results[1].Why)
	assert.Equal(t, []string{"Tenet", "Ghost Film", "Looper"}, cat.calls)
}

func TestRecommend_CatalogErrorOnlySkipsThatProposal(t *testing.T) {
	model := &fakeModel{content: `{"recommendations":[
		{"title":"Broken","year":2000,"why":"a"},
		{"title":"Tenet","year":2020,"why":"b"}]}`}
	cat := &fakeCatalog{
		pages:  map[string]*tmdb.SearchPage{"Tenet": searchPage(tmdb.Movie{ID: 10, Title: "Tenet"})},
		errFor: map[string]error{"Broken": fmt.Errorf("tmdb: API returned status 500")},
	}
	svc := newService(&fakeUserDirectory{}, &fakeGroupLibrary{}, cat, model)

	results, err := svc.Recommend(context.Background(), 1, []any{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Why)
}

func TestRecommend_InvalidIDsRejectBeforeAnyCalls(t *testing.T) {
	users := &fakeUserDirectory{}
	lib := &fakeGroupLibrary{}
	cat := &fakeCatalog{}
	model := &fakeModel{}
	svc := newService(users, lib, cat, model)

	_, err := svc.Recommend(context.Background(), 1, []any{"abc"})

	assert.ErrorIs(t, err, ErrInvalidUserIDs)
	assert.Zero(t, users.calls)
	assert.Zero(t, lib.calls)
	assert.Empty(t, cat.calls)
	assert.Zero(t, model.calls)
}

func TestRecommend_GeneratorFailureIsFatal(t *testing.T) {
	model := &fakeModel{err: errors.New("model unavailable")}
	cat := &fakeCatalog{}
	svc := newService(&fakeUserDirectory{}, &fakeGroupLibrary{}, cat, model)

	_, err := svc.Recommend(context.Background(), 1, []any{float64(2)})

	require.Error(t, err)
	assert.Empty(t, cat.calls)
}

func TestRecommend_RequesterAlwaysIncluded(t *testing.T) {
	users := &fakeUserDirectory{names: map[int]string{5: "Me"}}
	lib := &fakeGroupLibrary{items: []models.LibraryItem{{UserID: 5, Title: "Dune"}}}
	model := &fakeModel{content: `{"recommendations":[]}`}
	svc := newService(users, lib, nil, model)

	results, err := svc.Recommend(context.Background(), 5, []any{})

	require.NoError(t, err)
	assert.Empty(t, results)
	// The requester's own library was aggregated even with no ids in the body.
	assert.Equal(t, 1, users.calls)
	assert.Equal(t, 1, lib.calls)
}
