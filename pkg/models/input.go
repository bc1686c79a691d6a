package models

// Input is a complete input document: the catalog records followed by the
// actions to execute against them
type Input struct {
	Actors  []ActorInput  `json:"actors"`
	Users   []UserInput   `json:"users"`
	Movies  []MovieInput  `json:"movies"`
	Shows   []ShowInput   `json:"serials"`
	Actions []ActionInput `json:"actions"`
}

// MovieInput is a movie record
type MovieInput struct {
	Title    string   `json:"title" validate:"required"`
	Year     int      `json:"year" validate:"gte=0"`
	Cast     []string `json:"cast"`
	Genres   []string `json:"genres"`
	Duration int      `json:"duration" validate:"gte=0"`
}

// SeasonInput is a single season of a show record
type SeasonInput struct {
	Duration int `json:"duration" validate:"gte=0"`
}

// ShowInput is a multi-season show record
type ShowInput struct {
	Title           string        `json:"title" validate:"required"`
	Year            int           `json:"year" validate:"gte=0"`
	Cast            []string      `json:"cast"`
	Genres          []string      `json:"genres"`
	NumberOfSeasons int           `json:"number_of_seasons"`
	Seasons         []SeasonInput `json:"seasons" validate:"dive"`
}

// ActorInput is an actor record
type ActorInput struct {
	Name              string         `json:"name" validate:"required"`
	CareerDescription string         `json:"career_description"`
	Filmography       []string       `json:"filmography"`
	Awards            map[string]int `json:"awards"`
}

// UserInput is a user record. History holds pre-seeded view counts per title.
type UserInput struct {
	Username         string         `json:"username" validate:"required"`
	SubscriptionType string         `json:"subscription_type"`
	History          map[string]int `json:"history"`
	FavoriteMovies   []string       `json:"favorite_movies"`
}
