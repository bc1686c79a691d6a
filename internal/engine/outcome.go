package engine

import (
	"errors"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/command"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/recommendation"
)

// Outcome classifies how an action ended. It labels metrics and logs.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeNotSeen          Outcome = "not_seen"
	OutcomeAlreadyRated     Outcome = "already_rated"
	OutcomeAlreadyFavorited Outcome = "already_favorited"
	OutcomeNotApplicable    Outcome = "not_applicable"
	OutcomeSuppressed       Outcome = "suppressed"
)

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, command.ErrNotSeen):
		return OutcomeNotSeen
	case errors.Is(err, command.ErrAlreadyRated):
		return OutcomeAlreadyRated
	case errors.Is(err, command.ErrAlreadyFavorited):
		return OutcomeAlreadyFavorited
	case errors.Is(err, recommendation.ErrNotApplicable):
		return OutcomeNotApplicable
	case errors.Is(err, command.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeSuppressed
	}
}
