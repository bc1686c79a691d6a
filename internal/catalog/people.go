package catalog

import (
	"slices"

	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// Actor is a cast member with a career description and awards
type Actor struct {
	Name        string
	Description string
	Awards      map[models.Award]int
	Filmography []string
}

// HasAward reports whether the actor holds at least one award of kind
func (a *Actor) HasAward(kind models.Award) bool {
	return a.Awards[kind] > 0
}

// AwardCount returns the number of awards summed over all kinds
func (a *Actor) AwardCount() int {
	total := 0
	for _, n := range a.Awards {
		total += n
	}
	return total
}

// User is a catalog viewer
type User struct {
	Name         string
	Subscription models.SubscriptionType

	favorites     map[string]struct{}
	favoriteOrder []string
}

// Premium reports whether the user holds the premium tier
func (u *User) Premium() bool {
	return u.Subscription == models.SubscriptionPremium
}

// IsFavorite reports whether title is in the user's favorites
func (u *User) IsFavorite(title string) bool {
	_, ok := u.favorites[title]
	return ok
}

// AddFavorite adds title to the favorites. It returns false if the title
// was already present, leaving the set unchanged.
func (u *User) AddFavorite(title string) bool {
	if u.IsFavorite(title) {
		return false
	}
	u.favorites[title] = struct{}{}
	u.favoriteOrder = append(u.favoriteOrder, title)
	return true
}

// Favorites lists favorite titles in the order they were added
func (u *User) Favorites() []string {
	return slices.Clone(u.favoriteOrder)
}
