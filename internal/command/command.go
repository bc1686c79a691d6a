// Package command applies view, favorite and rating commands to a catalog.
package command

import (
	"errors"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
)

var (
	ErrNotFound         = errors.New("title not found")
	ErrNotSeen          = errors.New("title not seen")
	ErrAlreadyRated     = errors.New("title already rated")
	ErrAlreadyFavorited = errors.New("title already in favorites")
	ErrUnknownUser      = errors.New("user not found")
	ErrUnknownSeason    = errors.New("season not found")
)

// View records one view of title by user and returns the user's
// cumulative view count for it.
func View(c *catalog.Catalog, title, user string) (int, error) {
	it, ok := c.Lookup(title)
	if !ok {
		return 0, ErrNotFound
	}
	return it.Video().View(user), nil
}

// Favorite adds title to the user's favorites. A title already in the
// favorites reports ErrAlreadyFavorited whatever its view state; otherwise
// the user must have viewed it.
func Favorite(c *catalog.Catalog, title, user string) error {
	it, ok := c.Lookup(title)
	if !ok {
		return ErrNotFound
	}
	u, ok := c.User(user)
	if !ok {
		return ErrUnknownUser
	}

	if u.IsFavorite(title) {
		return ErrAlreadyFavorited
	}
	if !it.Video().Seen(user) {
		return ErrNotSeen
	}

	u.AddFavorite(title)
	return nil
}

// Rate records grade for title by user. Movies are rated once per user;
// shows once per user and season, with season being 1-based. A title
// registered as a movie never reaches the show branch.
func Rate(c *catalog.Catalog, title, user string, grade float64, season int) error {
	if m, ok := c.Movie(title); ok {
		if m.Rated(user) {
			return ErrAlreadyRated
		}
		if !m.Seen(user) {
			return ErrNotSeen
		}
		m.Rate(user, grade)
		return nil
	}

	if s, ok := c.Show(title); ok {
		if !s.Seen(user) {
			return ErrNotSeen
		}
		target, ok := s.Season(season)
		if !ok {
			return ErrUnknownSeason
		}
		if !target.Rate(user, grade) {
			return ErrAlreadyRated
		}
		return nil
	}

	return ErrNotFound
}
