// Package recommendation picks titles for a single user out of the catalog.
package recommendation

import (
	"errors"
	"fmt"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/ranking"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

var (
	// ErrNotApplicable is returned when an algorithm yields no candidate
	ErrNotApplicable = errors.New("recommendation cannot be applied")
	// ErrUnknownUser is returned for a user missing from the catalog
	ErrUnknownUser = fmt.Errorf("user not found: %w", ErrNotApplicable)
	// ErrNotPremium is returned by premium-only algorithms for regular users
	ErrNotPremium = fmt.Errorf("premium subscription required: %w", ErrNotApplicable)
)

func lookup(c *catalog.Catalog, username string, premium bool) (*catalog.User, error) {
	u, ok := c.User(username)
	if !ok {
		return nil, ErrUnknownUser
	}
	if premium && !u.Premium() {
		return nil, ErrNotPremium
	}
	return u, nil
}

// Standard returns the first title in catalog order the user has not seen.
// When the scan finds nothing it falls back to the shows and keeps the last
// unseen one.
func Standard(c *catalog.Catalog, username string) (string, error) {
	if _, err := lookup(c, username, false); err != nil {
		return "", err
	}

	for _, it := range c.Items() {
		if !it.Video().Seen(username) {
			return it.Title(), nil
		}
	}

	// The fallback overwrites its candidate on every unseen show, so the
	// last one wins. Catalog order already holds every show, so this only
	// matters if the two ever diverge.
	result := ""
	for _, s := range c.Shows() {
		if !s.Seen(username) {
			result = s.Title
		}
	}
	if result == "" {
		return "", ErrNotApplicable
	}
	return result, nil
}

// BestUnseen returns the best rated title the user has not seen. Equal
// ratings go to the title registered later.
func BestUnseen(c *catalog.Catalog, username string) (string, error) {
	if _, err := lookup(c, username, false); err != nil {
		return "", err
	}

	var entries []ranking.Entry
	for _, it := range c.Items() {
		if it.Video().Seen(username) {
			continue
		}
		pos, _ := c.Position(it.Title())
		entries = append(entries, ranking.NewWithSecondary(it.Title(), it.Rating(), float64(pos)))
	}
	return first(entries, ranking.Descending)
}

// Popular walks the genres from most to least frequent in the catalog and
// returns the first unseen title, in catalog order, of the first genre that
// has one. Premium only.
func Popular(c *catalog.Catalog, username string) (string, error) {
	if _, err := lookup(c, username, true); err != nil {
		return "", err
	}

	items := c.Items()
	counts := make(map[models.Genre]int)
	var genres []models.Genre
	for _, it := range items {
		for _, g := range it.Video().Genres {
			if _, ok := counts[g]; !ok {
				genres = append(genres, g)
			}
			counts[g]++
		}
	}

	entries := make([]ranking.Entry, 0, len(genres))
	for _, g := range genres {
		entries = append(entries, ranking.New(string(g), float64(counts[g])))
	}
	ranking.Sort(entries, ranking.Descending)

	for _, e := range entries {
		genre := models.Genre(e.Name)
		for _, it := range items {
			v := it.Video()
			if v.HasGenre(genre) && !v.Seen(username) {
				return it.Title(), nil
			}
		}
	}
	return "", ErrNotApplicable
}

// Favorite returns the unseen title found in the most favorite lists. Equal
// counts go to the title registered later. Premium only.
func Favorite(c *catalog.Catalog, username string) (string, error) {
	if _, err := lookup(c, username, true); err != nil {
		return "", err
	}

	counts := c.FavoriteCounts()
	var entries []ranking.Entry
	for _, it := range c.Items() {
		n := counts[it.Title()]
		if n == 0 || it.Video().Seen(username) {
			continue
		}
		pos, _ := c.Position(it.Title())
		entries = append(entries, ranking.NewWithSecondary(it.Title(), float64(n), float64(pos)))
	}
	return first(entries, ranking.Descending)
}

// Search lists every unseen title of genre, movies first, ordered by rating
// then title. Premium only.
func Search(c *catalog.Catalog, username, genre string) ([]string, error) {
	if _, err := lookup(c, username, true); err != nil {
		return nil, err
	}

	g, ok := models.ParseGenre(genre)
	if !ok {
		return nil, ErrNotApplicable
	}

	var entries []ranking.Entry
	for _, kind := range []catalog.Kind{catalog.KindMovie, catalog.KindShow} {
		for _, it := range c.ItemsOf(kind) {
			v := it.Video()
			if v.HasGenre(g) && !v.Seen(username) {
				entries = append(entries, ranking.New(it.Title(), it.Rating()))
			}
		}
	}
	if len(entries) == 0 {
		return nil, ErrNotApplicable
	}

	ranking.Sort(entries, ranking.Ascending)
	return ranking.Names(entries), nil
}

func first(entries []ranking.Entry, order ranking.Order) (string, error) {
	if len(entries) == 0 {
		return "", ErrNotApplicable
	}
	ranking.Sort(entries, order)
	return entries[0].Name, nil
}
