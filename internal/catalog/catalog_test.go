package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := New()
	_, err := c.RegisterMovie(models.MovieInput{Title: "Heat", Year: 1995, Genres: []string{"Crime", "Drama"}, Cast: []string{"Al Pacino"}, Duration: 170})
	require.NoError(t, err)
	_, err = c.RegisterMovie(models.MovieInput{Title: "Alien", Year: 1979, Genres: []string{"Horror"}, Duration: 117})
	require.NoError(t, err)
	_, err = c.RegisterShow(models.ShowInput{
		Title:   "Dark",
		Year:    2017,
		Genres:  []string{"Sci-Fi & Fantasy", "Mystery"},
		Seasons: []models.SeasonInput{{Duration: 500}, {Duration: 450}},
	})
	require.NoError(t, err)
	_, err = c.RegisterUser(models.UserInput{Username: "ana", SubscriptionType: "PREMIUM", FavoriteMovies: []string{"Heat"}})
	require.NoError(t, err)
	_, err = c.RegisterUser(models.UserInput{Username: "bob", SubscriptionType: "BASIC"})
	require.NoError(t, err)

	return c
}

func TestCatalogOrder(t *testing.T) {
	c := newTestCatalog(t)

	assert.Equal(t, []string{"Heat", "Alien", "Dark"}, c.Order())

	pos, ok := c.Position("Dark")
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	_, ok = c.Position("Missing")
	assert.False(t, ok)

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, KindMovie, items[0].Kind)
	assert.Equal(t, KindShow, items[2].Kind)
	assert.Equal(t, "Dark", items[2].Title())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.RegisterMovie(models.MovieInput{Title: "Heat"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = c.RegisterShow(models.ShowInput{Title: "Alien"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = c.RegisterUser(models.UserInput{Username: "ana"})
	assert.ErrorIs(t, err, ErrDuplicate)

	assert.Len(t, c.Order(), 3)
}

func TestApplyHistory(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.ApplyHistory("bob", "Heat", 3))
	require.NoError(t, c.ApplyHistory("bob", "Dark", 1))
	assert.ErrorIs(t, c.ApplyHistory("bob", "Missing", 1), ErrUnknownTitle)

	heat, _ := c.Movie("Heat")
	assert.Equal(t, 3, heat.Views("bob"))
	assert.Equal(t, 4, heat.View("bob"))
	assert.True(t, heat.Seen("bob"))
	assert.False(t, heat.Seen("ana"))

	dark, _ := c.Show("Dark")
	assert.Equal(t, 1, dark.TotalViews())
}

func TestAddViewsIgnoresNonPositive(t *testing.T) {
	c := newTestCatalog(t)
	heat, _ := c.Movie("Heat")

	heat.AddViews("bob", 2)
	heat.AddViews("bob", -5)
	heat.AddViews("bob", 0)

	assert.Equal(t, 2, heat.Views("bob"))
}

func TestMovieRatingIsMeanOfGrades(t *testing.T) {
	c := newTestCatalog(t)
	heat, _ := c.Movie("Heat")

	assert.Equal(t, 0.0, heat.Rating())
	assert.True(t, heat.Rate("ana", 4))
	assert.True(t, heat.Rate("bob", 5))
	assert.False(t, heat.Rate("ana", 1))

	assert.Equal(t, 4.5, heat.Rating())
	assert.Equal(t, []string{"ana", "bob"}, heat.Raters())

	grade, ok := heat.Grade("ana")
	assert.True(t, ok)
	assert.Equal(t, 4.0, grade)
}

func TestShowRatingAndDuration(t *testing.T) {
	c := newTestCatalog(t)
	dark, _ := c.Show("Dark")

	first, ok := dark.Season(1)
	require.True(t, ok)
	second, ok := dark.Season(2)
	require.True(t, ok)
	_, ok = dark.Season(3)
	assert.False(t, ok)
	_, ok = dark.Season(0)
	assert.False(t, ok)

	first.Rate("ana", 3)
	second.Rate("ana", 5)

	assert.Equal(t, 4.0, dark.Rating())
	assert.Equal(t, 950, dark.Duration())

	it, ok := c.Lookup("Dark")
	require.True(t, ok)
	assert.Equal(t, 4.0, it.Rating())
	assert.Equal(t, 950, it.Duration())
}

func TestShowRatingCountsUnratedSeasons(t *testing.T) {
	c := newTestCatalog(t)
	dark, _ := c.Show("Dark")
	first, _ := dark.Season(1)
	first.Rate("ana", 4)

	assert.Equal(t, 2.0, dark.Rating())
}

func TestShowWithoutSeasons(t *testing.T) {
	c := New()
	s, err := c.RegisterShow(models.ShowInput{Title: "Pilot"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Rating())
	assert.Equal(t, 0, s.Duration())
}

func TestActorAwards(t *testing.T) {
	c := New()
	a, err := c.RegisterActor(models.ActorInput{
		Name: "Al Pacino",
		Awards: map[string]int{
			"BEST_PERFORMANCE": 2,
			"BEST_DIRECTOR":    0,
			"BEST_CATERING":    4,
		},
	})
	require.NoError(t, err)

	assert.True(t, a.HasAward(models.AwardBestPerformance))
	assert.False(t, a.HasAward(models.AwardBestDirector))
	assert.Equal(t, 2, a.AwardCount())
	assert.Len(t, a.Awards, 1)
}

func TestUserFavorites(t *testing.T) {
	c := newTestCatalog(t)
	ana, _ := c.User("ana")

	assert.True(t, ana.Premium())
	assert.True(t, ana.IsFavorite("Heat"))
	assert.False(t, ana.AddFavorite("Heat"))
	assert.True(t, ana.AddFavorite("Dark"))
	assert.Equal(t, []string{"Heat", "Dark"}, ana.Favorites())

	bob, _ := c.User("bob")
	assert.False(t, bob.Premium())
	bob.AddFavorite("Dark")

	assert.Equal(t, map[string]int{"Heat": 1, "Dark": 2}, c.FavoriteCounts())
}

func TestLookupPrefersMovies(t *testing.T) {
	c := newTestCatalog(t)

	it, ok := c.Lookup("Heat")
	require.True(t, ok)
	assert.Equal(t, KindMovie, it.Kind)
	assert.Equal(t, 170, it.Duration())
	assert.True(t, it.Video().HasGenre(models.GenreCrime))

	_, ok = c.Lookup("Missing")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	c := newTestCatalog(t)

	assert.Equal(t, Stats{Movies: 2, Shows: 1, Users: 2}, c.Stats())
	assert.Len(t, c.ItemsOf(KindMovie), 2)
	assert.Len(t, c.ItemsOf(KindShow), 1)
}
