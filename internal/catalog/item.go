package catalog

// Kind tags the variant held by an Item
type Kind int

const (
	KindMovie Kind = iota
	KindShow
)

// String returns the object type name used by queries.
func (k Kind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindShow:
		return "show"
	default:
		return "unknown"
	}
}

// Item is either a movie or a show. Exactly one of Movie and Show is set,
// matching Kind.
type Item struct {
	Kind  Kind
	Movie *Movie
	Show  *Show
}

// MovieItem wraps a movie
func MovieItem(m *Movie) Item {
	return Item{Kind: KindMovie, Movie: m}
}

// ShowItem wraps a show
func ShowItem(s *Show) Item {
	return Item{Kind: KindShow, Show: s}
}

// Video returns the shared attributes of the item
func (it Item) Video() *Video {
	if it.Kind == KindShow {
		return &it.Show.Video
	}
	return &it.Movie.Video
}

// Title returns the item's title
func (it Item) Title() string {
	return it.Video().Title
}

// Rating returns the movie rating or the mean season rating of a show
func (it Item) Rating() float64 {
	if it.Kind == KindShow {
		return it.Show.Rating()
	}
	return it.Movie.Rating()
}

// Duration returns the movie duration or the summed season durations
func (it Item) Duration() int {
	if it.Kind == KindShow {
		return it.Show.Duration()
	}
	return it.Movie.Duration
}
