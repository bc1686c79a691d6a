package catalog

import (
	"slices"

	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// Video holds the attributes shared by movies and shows
type Video struct {
	Title  string
	Year   int
	Genres []models.Genre
	Cast   []string

	views map[string]int
}

func newVideo(title string, year int, genres []string, cast []string) Video {
	return Video{
		Title:  title,
		Year:   year,
		Genres: models.ParseGenres(genres),
		Cast:   slices.Clone(cast),
		views:  make(map[string]int),
	}
}

// AddViews adds count views for user. Non-positive counts are ignored so a
// user's view count never decreases.
func (v *Video) AddViews(user string, count int) {
	if count <= 0 {
		return
	}
	v.views[user] += count
}

// View records one view by user and returns the user's cumulative count.
func (v *Video) View(user string) int {
	v.views[user]++
	return v.views[user]
}

// Views returns the number of times user viewed the video
func (v *Video) Views(user string) int {
	return v.views[user]
}

// Seen reports whether user viewed the video at least once
func (v *Video) Seen(user string) bool {
	return v.views[user] > 0
}

// TotalViews returns the views summed over all users
func (v *Video) TotalViews() int {
	total := 0
	for _, n := range v.views {
		total += n
	}
	return total
}

// HasGenre reports whether the video belongs to genre
func (v *Video) HasGenre(genre models.Genre) bool {
	return slices.Contains(v.Genres, genre)
}

// ratings keeps one grade per user and remembers the order users rated in.
type ratings struct {
	grades map[string]float64
	raters []string
}

func newRatings() ratings {
	return ratings{grades: make(map[string]float64)}
}

func (r *ratings) has(user string) bool {
	_, ok := r.grades[user]
	return ok
}

func (r *ratings) add(user string, grade float64) bool {
	if r.has(user) {
		return false
	}
	r.grades[user] = grade
	r.raters = append(r.raters, user)
	return true
}

func (r *ratings) mean() float64 {
	if len(r.raters) == 0 {
		return 0
	}
	sum := 0.0
	for _, user := range r.raters {
		sum += r.grades[user]
	}
	return sum / float64(len(r.raters))
}

// Movie is a single-part video with a fixed duration
type Movie struct {
	Video
	Duration int

	ratings ratings
}

// Rated reports whether user already rated the movie
func (m *Movie) Rated(user string) bool {
	return m.ratings.has(user)
}

// Rate records grade for user. It returns false when user already rated.
func (m *Movie) Rate(user string, grade float64) bool {
	return m.ratings.add(user, grade)
}

// Grade returns the grade user gave the movie
func (m *Movie) Grade(user string) (float64, bool) {
	g, ok := m.ratings.grades[user]
	return g, ok
}

// Raters lists the users who rated the movie, in rating order
func (m *Movie) Raters() []string {
	return slices.Clone(m.ratings.raters)
}

// Rating is the mean of all grades, 0 if unrated
func (m *Movie) Rating() float64 {
	return m.ratings.mean()
}

// Season is one season of a show
type Season struct {
	Number   int
	Duration int

	ratings ratings
}

// Rated reports whether user already rated the season
func (s *Season) Rated(user string) bool {
	return s.ratings.has(user)
}

// Rate records grade for user. It returns false when user already rated.
func (s *Season) Rate(user string, grade float64) bool {
	return s.ratings.add(user, grade)
}

// Raters lists the users who rated the season, in rating order
func (s *Season) Raters() []string {
	return slices.Clone(s.ratings.raters)
}

// Rating is the mean of all grades, 0 if unrated
func (s *Season) Rating() float64 {
	return s.ratings.mean()
}

// Show is a multi-season video. Duration and rating derive from its seasons.
type Show struct {
	Video
	Seasons []*Season
}

// Season returns the season with the 1-based number
func (s *Show) Season(number int) (*Season, bool) {
	if number < 1 || number > len(s.Seasons) {
		return nil, false
	}
	return s.Seasons[number-1], true
}

// Rating is the mean of the season ratings, 0 without seasons
func (s *Show) Rating() float64 {
	if len(s.Seasons) == 0 {
		return 0
	}
	sum := 0.0
	for _, season := range s.Seasons {
		sum += season.Rating()
	}
	return sum / float64(len(s.Seasons))
}

// Duration is the sum of the season durations
func (s *Show) Duration() int {
	total := 0
	for _, season := range s.Seasons {
		total += season.Duration
	}
	return total
}
