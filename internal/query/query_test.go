package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/ranking"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

func setupCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c := catalog.New()
	movies := []models.MovieInput{
		{Title: "A", Year: 2000, Genres: []string{"Drama"}, Cast: []string{"x"}, Duration: 100},
		{Title: "B", Year: 2000, Genres: []string{"Drama"}, Cast: []string{"x", "y"}, Duration: 120},
		{Title: "C", Year: 1999, Genres: []string{"Comedy"}, Cast: []string{"y"}, Duration: 90},
	}
	for _, m := range movies {
		_, err := c.RegisterMovie(m)
		require.NoError(t, err)
	}
	_, err := c.RegisterShow(models.ShowInput{
		Title: "S", Year: 2000, Genres: []string{"Drama"}, Cast: []string{"x"},
		Seasons: []models.SeasonInput{{Duration: 30}, {Duration: 40}},
	})
	require.NoError(t, err)

	_, err = c.RegisterActor(models.ActorInput{
		Name:              "x",
		CareerDescription: "Won an Oscar. Known for Drama roles!",
		Awards:            map[string]int{"BEST_DIRECTOR": 1, "PEOPLE_CHOICE_AWARD": 2},
	})
	require.NoError(t, err)
	_, err = c.RegisterActor(models.ActorInput{
		Name:              "y",
		CareerDescription: "A comedy actor",
		Awards:            map[string]int{"BEST_DIRECTOR": 3},
	})
	require.NoError(t, err)

	_, err = c.RegisterUser(models.UserInput{Username: "ana", FavoriteMovies: []string{"B"}})
	require.NoError(t, err)
	_, err = c.RegisterUser(models.UserInput{Username: "bob", FavoriteMovies: []string{"B", "C"}})
	require.NoError(t, err)

	b, _ := c.Movie("B")
	b.View("ana")
	b.Rate("ana", 4.5)

	m, _ := c.Movie("C")
	m.View("bob")
	m.Rate("bob", 3)

	s, _ := c.Show("S")
	s.View("ana")
	s.View("bob")
	s.Seasons[0].Rate("ana", 3)
	s.Seasons[1].Rate("bob", 5)

	return c
}

func request(order ranking.Order) Request {
	return Request{Order: order, Limit: 10}
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters [][]string
		want    Filters
	}{
		{"none", nil, Filters{}},
		{"year and genre", [][]string{{"2000"}, {"Drama"}}, Filters{Year: 2000, HasYear: true, Genre: models.GenreDrama, HasGenre: true}},
		{"malformed year", [][]string{{"abc"}, {"Drama"}}, Filters{Genre: models.GenreDrama, HasGenre: true}},
		{"unknown genre", [][]string{{"2000"}, {"Opera"}}, Filters{Year: 2000, HasYear: true}},
		{"null lists", [][]string{nil, nil, nil, nil}, Filters{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := models.ActionInput{Filters: tt.filters}
			assert.Equal(t, tt.want, ParseFilters(&a))
		})
	}
}

func TestParseMetric(t *testing.T) {
	m, ok := ParseMetric("most_viewed")
	assert.True(t, ok)
	assert.Equal(t, MetricViews, m)

	_, ok = ParseMetric("shortest")
	assert.False(t, ok)
}

func TestMoviesByRatingWithYearFilter(t *testing.T) {
	c := setupCatalog(t)
	req := request(ranking.Descending)
	req.Filters = Filters{Year: 2000, HasYear: true}

	assert.Equal(t, []string{"B"}, Videos(c, catalog.KindMovie, MetricRating, req))
}

func TestMoviesByRating(t *testing.T) {
	c := setupCatalog(t)
	assert.Equal(t, []string{"C", "B"}, Videos(c, catalog.KindMovie, MetricRating, request(ranking.Ascending)))
}

func TestVideosByFavorites(t *testing.T) {
	c := setupCatalog(t)
	assert.Equal(t, []string{"B", "C"}, Videos(c, catalog.KindMovie, MetricFavorites, request(ranking.Descending)))
	assert.Empty(t, Videos(c, catalog.KindShow, MetricFavorites, request(ranking.Descending)))
}

func TestVideosByDuration(t *testing.T) {
	c := setupCatalog(t)
	assert.Equal(t, []string{"B", "A", "C"}, Videos(c, catalog.KindMovie, MetricDuration, request(ranking.Descending)))
	assert.Equal(t, []string{"S"}, Videos(c, catalog.KindShow, MetricDuration, request(ranking.Descending)))
}

func TestVideosByViewsBreaksTiesByName(t *testing.T) {
	c := setupCatalog(t)
	assert.Equal(t, []string{"B", "C"}, Videos(c, catalog.KindMovie, MetricViews, request(ranking.Ascending)))
	assert.Equal(t, []string{"C", "B"}, Videos(c, catalog.KindMovie, MetricViews, request(ranking.Descending)))
}

func TestVideosGenreFilter(t *testing.T) {
	c := setupCatalog(t)
	req := request(ranking.Ascending)
	req.Filters = Filters{Genre: models.GenreComedy, HasGenre: true}

	assert.Equal(t, []string{"C"}, Videos(c, catalog.KindMovie, MetricDuration, req))
}

func TestLimitTruncatesAfterSorting(t *testing.T) {
	c := setupCatalog(t)
	req := request(ranking.Descending)
	req.Limit = 1
	assert.Equal(t, []string{"B"}, Videos(c, catalog.KindMovie, MetricDuration, req))

	req.Limit = 0
	assert.Empty(t, Videos(c, catalog.KindMovie, MetricDuration, req))
}

func TestActorsByAverage(t *testing.T) {
	c := setupCatalog(t)

	assert.Equal(t, []string{"y", "x"}, ActorsByAverage(c, request(ranking.Ascending)))
	assert.Equal(t, []string{"x", "y"}, ActorsByAverage(c, request(ranking.Descending)))
}

func TestActorsByAverageSkipsUnratedTitles(t *testing.T) {
	c := catalog.New()
	_, err := c.RegisterMovie(models.MovieInput{Title: "A", Cast: []string{"z"}})
	require.NoError(t, err)

	assert.Empty(t, ActorsByAverage(c, request(ranking.Ascending)))
}

func TestActorsByAwards(t *testing.T) {
	c := setupCatalog(t)

	req := request(ranking.Ascending)
	req.Awards = []string{"BEST_DIRECTOR"}
	assert.Equal(t, []string{"x", "y"}, ActorsByAwards(c, req))

	req.Awards = []string{"BEST_DIRECTOR", "PEOPLE_CHOICE_AWARD"}
	assert.Equal(t, []string{"x"}, ActorsByAwards(c, req))

	req.Awards = []string{"BEST_COSTUME"}
	assert.Empty(t, ActorsByAwards(c, req))

	req.Awards = nil
	req.Order = ranking.Descending
	assert.Equal(t, []string{"y", "x"}, ActorsByAwards(c, req))
}

func TestActorsByDescription(t *testing.T) {
	c := setupCatalog(t)

	req := request(ranking.Ascending)
	req.Words = []string{"oscar"}
	assert.Equal(t, []string{"x"}, ActorsByDescription(c, req))

	req.Words = []string{"DRAMA", "known"}
	assert.Equal(t, []string{"x"}, ActorsByDescription(c, req))

	req.Words = []string{"act"}
	assert.Empty(t, ActorsByDescription(c, req), "matching is on whole words")

	req.Words = nil
	req.Order = ranking.Unsorted
	assert.Equal(t, []string{"x", "y"}, ActorsByDescription(c, req))
}

func TestUsersByRatings(t *testing.T) {
	c := setupCatalog(t)

	assert.Equal(t, []string{"ana", "bob"}, UsersByRatings(c, request(ranking.Ascending)))
	assert.Equal(t, []string{"bob", "ana"}, UsersByRatings(c, request(ranking.Descending)))

	s, _ := c.Show("S")
	s.Seasons[1].Rate("ana", 2)
	assert.Equal(t, []string{"ana", "bob"}, UsersByRatings(c, request(ranking.Descending)))
}

func TestNewRequest(t *testing.T) {
	a := models.ActionInput{
		SortType: "desc",
		Number:   3,
		Filters:  [][]string{{"1999"}, nil, {"", "oscar"}, {"BEST_DIRECTOR"}},
	}

	req := NewRequest(&a)
	assert.Equal(t, ranking.Descending, req.Order)
	assert.Equal(t, 3, req.Limit)
	assert.Equal(t, Filters{Year: 1999, HasYear: true}, req.Filters)
	assert.Equal(t, []string{"oscar"}, req.Words)
	assert.Equal(t, []string{"BEST_DIRECTOR"}, req.Awards)
}
