package models

import "strings"

// SubscriptionType is a user's subscription tier
type SubscriptionType string

// SubscriptionType constants
const (
	SubscriptionRegular SubscriptionType = "REGULAR"
	SubscriptionPremium SubscriptionType = "PREMIUM"
)

// ParseSubscription maps an input tier to a subscription type. Only
// "PREMIUM" unlocks the premium tier; "BASIC" and anything else is regular.
func ParseSubscription(s string) SubscriptionType {
	if strings.EqualFold(strings.TrimSpace(s), string(SubscriptionPremium)) {
		return SubscriptionPremium
	}
	return SubscriptionRegular
}
