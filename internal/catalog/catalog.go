package catalog

import (
	"errors"
	"fmt"

	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

var (
	// ErrDuplicate is returned when a registered key is registered again
	ErrDuplicate = errors.New("already registered")
	// ErrUnknownTitle is returned when history references a missing title
	ErrUnknownTitle = errors.New("unknown title")
)

// Catalog owns the movies, shows, actors and users of one run, plus the
// order in which videos were registered.
//
// Catalog is not safe for concurrent use; callers serialize access.
type Catalog struct {
	movies map[string]*Movie
	shows  map[string]*Show
	actors map[string]*Actor
	users  map[string]*User

	movieOrder []string
	showOrder  []string
	actorOrder []string
	userOrder  []string
	order      []string
	position   map[string]int
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		movies:   make(map[string]*Movie),
		shows:    make(map[string]*Show),
		actors:   make(map[string]*Actor),
		users:    make(map[string]*User),
		position: make(map[string]int),
	}
}

// RegisterMovie adds a movie and appends it to the catalog order.
func (c *Catalog) RegisterMovie(in models.MovieInput) (*Movie, error) {
	if c.hasTitle(in.Title) {
		return nil, fmt.Errorf("movie %q: %w", in.Title, ErrDuplicate)
	}

	m := &Movie{
		Video:    newVideo(in.Title, in.Year, in.Genres, in.Cast),
		Duration: in.Duration,
		ratings:  newRatings(),
	}
	c.movies[in.Title] = m
	c.movieOrder = append(c.movieOrder, in.Title)
	c.appendOrder(in.Title)

	return m, nil
}

// RegisterShow adds a show and appends it to the catalog order. Seasons are
// numbered from 1 in input order.
func (c *Catalog) RegisterShow(in models.ShowInput) (*Show, error) {
	if c.hasTitle(in.Title) {
		return nil, fmt.Errorf("show %q: %w", in.Title, ErrDuplicate)
	}

	s := &Show{
		Video:   newVideo(in.Title, in.Year, in.Genres, in.Cast),
		Seasons: make([]*Season, 0, len(in.Seasons)),
	}
	for i, season := range in.Seasons {
		s.Seasons = append(s.Seasons, &Season{
			Number:   i + 1,
			Duration: season.Duration,
			ratings:  newRatings(),
		})
	}
	c.shows[in.Title] = s
	c.showOrder = append(c.showOrder, in.Title)
	c.appendOrder(in.Title)

	return s, nil
}

// RegisterActor adds an actor. Award kinds that are unknown or carry a
// non-positive count are dropped.
func (c *Catalog) RegisterActor(in models.ActorInput) (*Actor, error) {
	if _, ok := c.actors[in.Name]; ok {
		return nil, fmt.Errorf("actor %q: %w", in.Name, ErrDuplicate)
	}

	a := &Actor{
		Name:        in.Name,
		Description: in.CareerDescription,
		Awards:      make(map[models.Award]int, len(in.Awards)),
		Filmography: append([]string(nil), in.Filmography...),
	}
	for name, count := range in.Awards {
		kind, ok := models.ParseAward(name)
		if !ok || count <= 0 {
			continue
		}
		a.Awards[kind] += count
	}
	c.actors[in.Name] = a
	c.actorOrder = append(c.actorOrder, in.Name)

	return a, nil
}

// RegisterUser adds a user along with any pre-seeded favorites. History is
// applied separately through ApplyHistory.
func (c *Catalog) RegisterUser(in models.UserInput) (*User, error) {
	if _, ok := c.users[in.Username]; ok {
		return nil, fmt.Errorf("user %q: %w", in.Username, ErrDuplicate)
	}

	u := &User{
		Name:         in.Username,
		Subscription: models.ParseSubscription(in.SubscriptionType),
		favorites:    make(map[string]struct{}),
	}
	for _, title := range in.FavoriteMovies {
		u.AddFavorite(title)
	}
	c.users[in.Username] = u
	c.userOrder = append(c.userOrder, in.Username)

	return u, nil
}

// ApplyHistory adds count pre-seeded views of title for user.
func (c *Catalog) ApplyHistory(user, title string, count int) error {
	found := false
	if m, ok := c.movies[title]; ok {
		m.AddViews(user, count)
		found = true
	}
	if s, ok := c.shows[title]; ok {
		s.AddViews(user, count)
		found = true
	}
	if !found {
		return fmt.Errorf("history of %q for %q: %w", user, title, ErrUnknownTitle)
	}
	return nil
}

func (c *Catalog) hasTitle(title string) bool {
	_, movie := c.movies[title]
	_, show := c.shows[title]
	return movie || show
}

func (c *Catalog) appendOrder(title string) {
	c.position[title] = len(c.order)
	c.order = append(c.order, title)
}

// Movie looks up a movie by title
func (c *Catalog) Movie(title string) (*Movie, bool) {
	m, ok := c.movies[title]
	return m, ok
}

// Show looks up a show by title
func (c *Catalog) Show(title string) (*Show, bool) {
	s, ok := c.shows[title]
	return s, ok
}

// Actor looks up an actor by name
func (c *Catalog) Actor(name string) (*Actor, bool) {
	a, ok := c.actors[name]
	return a, ok
}

// User looks up a user by username
func (c *Catalog) User(name string) (*User, bool) {
	u, ok := c.users[name]
	return u, ok
}

// Lookup finds a movie or show by title. Movies take precedence.
func (c *Catalog) Lookup(title string) (Item, bool) {
	if m, ok := c.movies[title]; ok {
		return MovieItem(m), true
	}
	if s, ok := c.shows[title]; ok {
		return ShowItem(s), true
	}
	return Item{}, false
}

// Position returns the 0-based catalog position of title
func (c *Catalog) Position(title string) (int, bool) {
	p, ok := c.position[title]
	return p, ok
}

// Order returns the registered titles: movies and shows in registration order
func (c *Catalog) Order() []string {
	return append([]string(nil), c.order...)
}

// Items returns every video in catalog order
func (c *Catalog) Items() []Item {
	items := make([]Item, 0, len(c.order))
	for _, title := range c.order {
		if it, ok := c.Lookup(title); ok {
			items = append(items, it)
		}
	}
	return items
}

// ItemsOf returns the videos of one kind in registration order
func (c *Catalog) ItemsOf(kind Kind) []Item {
	switch kind {
	case KindMovie:
		items := make([]Item, 0, len(c.movieOrder))
		for _, m := range c.Movies() {
			items = append(items, MovieItem(m))
		}
		return items
	case KindShow:
		items := make([]Item, 0, len(c.showOrder))
		for _, s := range c.Shows() {
			items = append(items, ShowItem(s))
		}
		return items
	default:
		return nil
	}
}

// Movies returns the movies in registration order
func (c *Catalog) Movies() []*Movie {
	movies := make([]*Movie, 0, len(c.movieOrder))
	for _, title := range c.movieOrder {
		movies = append(movies, c.movies[title])
	}
	return movies
}

// Shows returns the shows in registration order
func (c *Catalog) Shows() []*Show {
	shows := make([]*Show, 0, len(c.showOrder))
	for _, title := range c.showOrder {
		shows = append(shows, c.shows[title])
	}
	return shows
}

// Actors returns the actors in registration order
func (c *Catalog) Actors() []*Actor {
	actors := make([]*Actor, 0, len(c.actorOrder))
	for _, name := range c.actorOrder {
		actors = append(actors, c.actors[name])
	}
	return actors
}

// Users returns the users in registration order
func (c *Catalog) Users() []*User {
	users := make([]*User, 0, len(c.userOrder))
	for _, name := range c.userOrder {
		users = append(users, c.users[name])
	}
	return users
}

// FavoriteCounts returns, per title, how many users hold it as a favorite.
// Titles nobody favorited are absent.
func (c *Catalog) FavoriteCounts() map[string]int {
	counts := make(map[string]int)
	for _, u := range c.Users() {
		for _, title := range u.favoriteOrder {
			counts[title]++
		}
	}
	return counts
}

// Stats summarizes the catalog size
type Stats struct {
	Movies int `json:"movies"`
	Shows  int `json:"shows"`
	Actors int `json:"actors"`
	Users  int `json:"users"`
}

// Stats returns the number of registered entities per collection
func (c *Catalog) Stats() Stats {
	return Stats{
		Movies: len(c.movies),
		Shows:  len(c.shows),
		Actors: len(c.actors),
		Users:  len(c.users),
	}
}
