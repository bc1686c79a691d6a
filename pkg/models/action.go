package models

// ActionKind constants
const (
	ActionCommand        = "command"
	ActionQuery          = "query"
	ActionRecommendation = "recommendation"
)

// Command type constants
const (
	CommandView     = "view"
	CommandFavorite = "favorite"
	CommandRating   = "rating"
)

// Query object type constants
const (
	ObjectActors = "actors"
	ObjectMovies = "movies"
	ObjectShows  = "shows"
	ObjectUsers  = "users"
)

// Query criteria constants
const (
	CriteriaAverage           = "average"
	CriteriaAwards            = "awards"
	CriteriaFilterDescription = "filter_description"
	CriteriaRatings           = "ratings"
	CriteriaFavorite          = "favorite"
	CriteriaLongest           = "longest"
	CriteriaMostViewed        = "most_viewed"
	CriteriaNumRatings        = "num_ratings"
)

// Recommendation type constants
const (
	RecommendationStandard   = "standard"
	RecommendationBestUnseen = "best_unseen"
	RecommendationPopular    = "popular"
	RecommendationFavorite   = "favorite"
	RecommendationSearch     = "search"
)

// Positions of the filter lists inside ActionInput.Filters
const (
	FilterYear = iota
	FilterGenre
	FilterWords
	FilterAwards
)

// ActionInput is a single command, query or recommendation request
type ActionInput struct {
	ActionID     int        `json:"action_id"`
	ActionType   string     `json:"action_type"`
	Type         string     `json:"type"`
	Username     string     `json:"user"`
	Title        string     `json:"title"`
	Grade        float64    `json:"grade"`
	SeasonNumber int        `json:"season"`
	ObjectType   string     `json:"object_type"`
	SortType     string     `json:"sort_type"`
	Criteria     string     `json:"criteria"`
	Number       int        `json:"number"`
	Filters      [][]string `json:"filters"`
	Genre        string     `json:"genre"`
}

// Filter returns the filter list at position, or nil when it was not supplied.
func (a *ActionInput) Filter(position int) []string {
	if position < 0 || position >= len(a.Filters) {
		return nil
	}
	return a.Filters[position]
}
