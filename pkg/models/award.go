package models

import "strings"

// Award is a kind of award an actor can hold
type Award string

// Award constants
const (
	AwardBestPerformance     Award = "BEST_PERFORMANCE"
	AwardBestDirector        Award = "BEST_DIRECTOR"
	AwardPeopleChoice        Award = "PEOPLE_CHOICE_AWARD"
	AwardBestSupportingActor Award = "BEST_SUPPORTING_ACTOR"
	AwardBestScreenplay      Award = "BEST_SCREENPLAY"
)

var awards = []Award{
	AwardBestPerformance,
	AwardBestDirector,
	AwardPeopleChoice,
	AwardBestSupportingActor,
	AwardBestScreenplay,
}

// ParseAward resolves an award kind, case-insensitively.
func ParseAward(s string) (Award, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, a := range awards {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}
