// Package query implements the read-only aggregations over a catalog:
// actors, movies, shows and users, each producing a ranked, capped list.
package query

import (
	"regexp"
	"strings"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/ranking"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// Request carries the parameters shared by every query family
type Request struct {
	Order   ranking.Order
	Limit   int
	Filters Filters
	Words   []string
	Awards  []string
}

// NewRequest builds a request from an action
func NewRequest(a *models.ActionInput) Request {
	return Request{
		Order:   ranking.ParseOrder(a.SortType),
		Limit:   a.Number,
		Filters: ParseFilters(a),
		Words:   nonEmpty(a.Filter(models.FilterWords)),
		Awards:  nonEmpty(a.Filter(models.FilterAwards)),
	}
}

func (r Request) rank(entries []ranking.Entry) []string {
	return ranking.Names(ranking.Rank(entries, r.Order, r.Limit))
}

// Metric selects the value a video query ranks by
type Metric int

const (
	MetricRating Metric = iota
	MetricFavorites
	MetricDuration
	MetricViews
)

// ParseMetric maps a video query criteria to its metric
func ParseMetric(criteria string) (Metric, bool) {
	switch criteria {
	case models.CriteriaRatings:
		return MetricRating, true
	case models.CriteriaFavorite:
		return MetricFavorites, true
	case models.CriteriaLongest:
		return MetricDuration, true
	case models.CriteriaMostViewed:
		return MetricViews, true
	default:
		return 0, false
	}
}

// ActorsByAverage ranks cast members by the mean rating of the titles they
// appear in. Unrated titles do not count, and a cast member with no rated
// title is left out.
func ActorsByAverage(c *catalog.Catalog, req Request) []string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var names []string

	for _, it := range c.ItemsOf(catalog.KindMovie) {
		names = accumulate(it, sums, counts, names)
	}
	for _, it := range c.ItemsOf(catalog.KindShow) {
		names = accumulate(it, sums, counts, names)
	}

	entries := make([]ranking.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, ranking.New(name, sums[name]/float64(counts[name])))
	}
	return req.rank(entries)
}

func accumulate(it catalog.Item, sums map[string]float64, counts map[string]int, names []string) []string {
	rating := it.Rating()
	if rating == 0 {
		return names
	}
	for _, name := range it.Video().Cast {
		if _, ok := counts[name]; !ok {
			names = append(names, name)
		}
		sums[name] += rating
		counts[name]++
	}
	return names
}

// ActorsByAwards ranks the actors holding every requested award by their
// total award count.
func ActorsByAwards(c *catalog.Catalog, req Request) []string {
	wanted := make([]models.Award, 0, len(req.Awards))
	for _, name := range req.Awards {
		award, ok := models.ParseAward(name)
		if !ok {
			// nobody holds an award kind that does not exist
			return []string{}
		}
		wanted = append(wanted, award)
	}

	var entries []ranking.Entry
	for _, a := range c.Actors() {
		if holdsAll(a, wanted) {
			entries = append(entries, ranking.New(a.Name, float64(a.AwardCount())))
		}
	}
	return req.rank(entries)
}

func holdsAll(a *catalog.Actor, awards []models.Award) bool {
	for _, award := range awards {
		if !a.HasAward(award) {
			return false
		}
	}
	return true
}

var nonWord = regexp.MustCompile(`\W+`)

// ActorsByDescription selects the actors whose career description contains
// every requested keyword as a whole word, ignoring case.
func ActorsByDescription(c *catalog.Catalog, req Request) []string {
	keywords := make([]string, 0, len(req.Words))
	for _, w := range req.Words {
		keywords = append(keywords, strings.ToLower(w))
	}

	var entries []ranking.Entry
	for _, a := range c.Actors() {
		if containsAll(tokenize(a.Description), keywords) {
			entries = append(entries, ranking.New(a.Name, 0))
		}
	}
	return req.rank(entries)
}

func tokenize(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range nonWord.Split(strings.ToLower(text), -1) {
		if w != "" {
			words[w] = struct{}{}
		}
	}
	return words
}

func containsAll(words map[string]struct{}, keywords []string) bool {
	for _, k := range keywords {
		if _, ok := words[k]; !ok {
			return false
		}
	}
	return true
}

// Videos ranks the movies or shows that pass the request filters by metric.
// Rating, favorite and view queries leave out titles whose value is zero.
func Videos(c *catalog.Catalog, kind catalog.Kind, metric Metric, req Request) []string {
	var favorites map[string]int
	if metric == MetricFavorites {
		favorites = c.FavoriteCounts()
	}

	var entries []ranking.Entry
	for _, it := range c.ItemsOf(kind) {
		if !req.Filters.Match(it.Video()) {
			continue
		}

		var value float64
		switch metric {
		case MetricRating:
			value = it.Rating()
		case MetricFavorites:
			value = float64(favorites[it.Title()])
		case MetricDuration:
			value = float64(it.Duration())
		case MetricViews:
			value = float64(it.Video().TotalViews())
		}

		if metric != MetricDuration && value <= 0 {
			continue
		}
		entries = append(entries, ranking.New(it.Title(), value))
	}
	return req.rank(entries)
}

// UsersByRatings ranks the users who rated anything by the number of
// ratings they gave, counting movies and individual seasons.
func UsersByRatings(c *catalog.Catalog, req Request) []string {
	counts := make(map[string]int)
	var names []string
	count := func(raters []string) {
		for _, u := range raters {
			if _, ok := counts[u]; !ok {
				names = append(names, u)
			}
			counts[u]++
		}
	}

	for _, m := range c.Movies() {
		count(m.Raters())
	}
	for _, s := range c.Shows() {
		for _, season := range s.Seasons {
			count(season.Raters())
		}
	}

	entries := make([]ranking.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, ranking.New(name, float64(counts[name])))
	}
	return req.rank(entries)
}
