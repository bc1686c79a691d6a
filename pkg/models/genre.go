package models

import "strings"

// Genre is a catalog video genre
type Genre string

// Genre constants
const (
	GenreAction          Genre = "ACTION"
	GenreAdventure       Genre = "ADVENTURE"
	GenreDrama           Genre = "DRAMA"
	GenreComedy          Genre = "COMEDY"
	GenreCrime           Genre = "CRIME"
	GenreRomance         Genre = "ROMANCE"
	GenreWar             Genre = "WAR"
	GenreHistory         Genre = "HISTORY"
	GenreThriller        Genre = "THRILLER"
	GenreMystery         Genre = "MYSTERY"
	GenreFamily          Genre = "FAMILY"
	GenreHorror          Genre = "HORROR"
	GenreFantasy         Genre = "FANTASY"
	GenreScienceFiction  Genre = "SCIENCE_FICTION"
	GenreActionAdventure Genre = "ACTION_ADVENTURE"
	GenreSciFiFantasy    Genre = "SCI_FI_FANTASY"
	GenreAnimation       Genre = "ANIMATION"
	GenreKids            Genre = "KIDS"
	GenreWestern         Genre = "WESTERN"
	GenreTVMovie         Genre = "TV_MOVIE"
)

// genreTokens maps the display names used by input documents to genres.
var genreTokens = map[string]Genre{
	"action":             GenreAction,
	"adventure":          GenreAdventure,
	"drama":              GenreDrama,
	"comedy":             GenreComedy,
	"crime":              GenreCrime,
	"romance":            GenreRomance,
	"war":                GenreWar,
	"war & politics":     GenreWar,
	"history":            GenreHistory,
	"thriller":           GenreThriller,
	"mystery":            GenreMystery,
	"family":             GenreFamily,
	"horror":             GenreHorror,
	"fantasy":            GenreFantasy,
	"science fiction":    GenreScienceFiction,
	"action & adventure": GenreActionAdventure,
	"sci-fi & fantasy":   GenreSciFiFantasy,
	"animation":          GenreAnimation,
	"kids":               GenreKids,
	"western":            GenreWestern,
	"tv movie":           GenreTVMovie,
}

func init() {
	for _, g := range genreTokens {
		genreTokens[strings.ToLower(string(g))] = g
	}
}

// ParseGenre resolves a genre from its display name or constant name.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseGenre(s string) (Genre, bool) {
	g, ok := genreTokens[strings.ToLower(strings.TrimSpace(s))]
	return g, ok
}

// ParseGenres resolves every known genre in names, dropping unknown tokens
// and duplicates while keeping the first-seen order.
func ParseGenres(names []string) []Genre {
	genres := make([]Genre, 0, len(names))
	seen := make(map[Genre]bool, len(names))
	for _, name := range names {
		g, ok := ParseGenre(name)
		if !ok || seen[g] {
			continue
		}
		seen[g] = true
		genres = append(genres, g)
	}
	return genres
}
