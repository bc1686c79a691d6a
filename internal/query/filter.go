package query

import (
	"strconv"
	"strings"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// Filters constrains movie and show queries. A filter that was not
// supplied, or could not be parsed, places no constraint.
type Filters struct {
	Year     int
	HasYear  bool
	Genre    models.Genre
	HasGenre bool
}

// ParseFilters reads the year and genre filters from the positional filter
// lists of an action. Only the first value of each list is considered.
func ParseFilters(a *models.ActionInput) Filters {
	var f Filters

	if years := a.Filter(models.FilterYear); len(years) > 0 {
		if year, err := strconv.Atoi(strings.TrimSpace(years[0])); err == nil {
			f.Year, f.HasYear = year, true
		}
	}
	if genres := a.Filter(models.FilterGenre); len(genres) > 0 {
		f.Genre, f.HasGenre = models.ParseGenre(genres[0])
	}

	return f
}

// Match reports whether v satisfies every supplied filter
func (f Filters) Match(v *catalog.Video) bool {
	if f.HasYear && v.Year != f.Year {
		return false
	}
	if f.HasGenre && !v.HasGenre(f.Genre) {
		return false
	}
	return true
}

// nonEmpty drops blank values from a filter list
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
