package engine

import (
	"errors"
	"fmt"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/command"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/query"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/ranking"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/recommendation"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// handler runs one action against the catalog. An empty message means the
// action produces no result.
type handler func(c *catalog.Catalog, a *models.ActionInput) (string, Outcome)

type queryKey struct {
	object   string
	criteria string
}

func commandHandlers() map[string]handler {
	return map[string]handler{
		models.CommandView:     viewCommand,
		models.CommandFavorite: favoriteCommand,
		models.CommandRating:   rateCommand,
	}
}

func viewCommand(c *catalog.Catalog, a *models.ActionInput) (string, Outcome) {
	views, err := command.View(c, a.Title, a.Username)
	if err != nil {
		return fmt.Sprintf("error -> %s is not seen", a.Title), outcomeOf(err)
	}
	return fmt.Sprintf("success -> %s was viewed with total views of %d", a.Title, views), OutcomeSuccess
}

func favoriteCommand(c *catalog.Catalog, a *models.ActionInput) (string, Outcome) {
	err := command.Favorite(c, a.Title, a.Username)
	switch {
	case err == nil:
		return fmt.Sprintf("success -> %s was added as favourite", a.Title), OutcomeSuccess
	case errors.Is(err, command.ErrAlreadyFavorited):
		return fmt.Sprintf("error -> %s is already in favourite list", a.Title), OutcomeAlreadyFavorited
	case errors.Is(err, command.ErrNotSeen):
		return fmt.Sprintf("error -> %s is not seen", a.Title), OutcomeNotSeen
	default:
		return "", OutcomeSuppressed
	}
}

func rateCommand(c *catalog.Catalog, a *models.ActionInput) (string, Outcome) {
	err := command.Rate(c, a.Title, a.Username, a.Grade, a.SeasonNumber)
	switch {
	case err == nil:
		return fmt.Sprintf("success -> %s was rated with %.1f by %s", a.Title, a.Grade, a.Username), OutcomeSuccess
	case errors.Is(err, command.ErrAlreadyRated):
		return fmt.Sprintf("error -> %s has been already rated", a.Title), OutcomeAlreadyRated
	case errors.Is(err, command.ErrNotSeen):
		return fmt.Sprintf("error -> %s is not seen", a.Title), OutcomeNotSeen
	default:
		return "", OutcomeSuppressed
	}
}

func queryHandlers() map[queryKey]handler {
	handlers := map[queryKey]handler{
		{models.ObjectActors, models.CriteriaAverage}:           listQuery(query.ActorsByAverage),
		{models.ObjectActors, models.CriteriaAwards}:            listQuery(query.ActorsByAwards),
		{models.ObjectActors, models.CriteriaFilterDescription}: listQuery(query.ActorsByDescription),
		{models.ObjectUsers, models.CriteriaNumRatings}:         listQuery(query.UsersByRatings),
	}

	videoObjects := map[string]catalog.Kind{
		models.ObjectMovies: catalog.KindMovie,
		models.ObjectShows:  catalog.KindShow,
	}
	criteria := []string{
		models.CriteriaRatings,
		models.CriteriaFavorite,
		models.CriteriaLongest,
		models.CriteriaMostViewed,
	}
	for object, kind := range videoObjects {
		for _, name := range criteria {
			metric, _ := query.ParseMetric(name)
			handlers[queryKey{object, name}] = videoQuery(kind, metric)
		}
	}

	return handlers
}

func listQuery(run func(*catalog.Catalog, query.Request) []string) handler {
	return func(c *catalog.Catalog, a *models.ActionInput) (string, Outcome) {
		names := run(c, query.NewRequest(a))
		return "Query result: " + ranking.Render(names), OutcomeSuccess
	}
}

func videoQuery(kind catalog.Kind, metric query.Metric) handler {
	return listQuery(func(c *catalog.Catalog, req query.Request) []string {
		return query.Videos(c, kind, metric, req)
	})
}

func recommendationHandlers() map[string]handler {
	return map[string]handler{
		models.RecommendationStandard: singleRecommendation("StandardRecommendation",
			func(c *catalog.Catalog, a *models.ActionInput) (string, error) {
				return recommendation.Standard(c, a.Username)
			}),
		models.RecommendationBestUnseen: singleRecommendation("BestRatedUnseenRecommendation",
			func(c *catalog.Catalog, a *models.ActionInput) (string, error) {
				return recommendation.BestUnseen(c, a.Username)
			}),
		models.RecommendationPopular: singleRecommendation("PopularRecommendation",
			func(c *catalog.Catalog, a *models.ActionInput) (string, error) {
				return recommendation.Popular(c, a.Username)
			}),
		models.RecommendationFavorite: singleRecommendation("FavoriteRecommendation",
			func(c *catalog.Catalog, a *models.ActionInput) (string, error) {
				return recommendation.Favorite(c, a.Username)
			}),
		models.RecommendationSearch: searchRecommendation,
	}
}

func singleRecommendation(name string, run func(*catalog.Catalog, *models.ActionInput) (string, error)) handler {
	return func(c *catalog.Catalog, a *models.ActionInput) (string, Outcome) {
		title, err := run(c, a)
		if err != nil {
			return name + " cannot be applied!", outcomeOf(err)
		}
		return name + " result: " + title, OutcomeSuccess
	}
}

func searchRecommendation(c *catalog.Catalog, a *models.ActionInput) (string, Outcome) {
	titles, err := recommendation.Search(c, a.Username, a.Genre)
	if err != nil {
		return "SearchRecommendation cannot be applied!", outcomeOf(err)
	}
	return "SearchRecommendation result: " + ranking.Render(titles), OutcomeSuccess
}
