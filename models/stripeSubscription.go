package models

import (
	"time"

	stripe "github.com/stripe/stripe-go"
)

// StripeSubscription is the slice of the Stripe subscription object the
// premium paywall cares about.
type StripeSubscription struct {
	ID               string                    `json:"id"`
	CurrentPeriodEnd int64                     `json:"currentPeriodEnd"`
	TrialEnd         int64                     `json:"trialEnd"`
	CancelAt         int64                     `json:"cancelAt"`
	Status           stripe.SubscriptionStatus `json:"status"`
	Plan             *stripe.Plan              `json:"plan"`
}

// Active reports whether the subscription still grants premium access.
func (s *StripeSubscription) Active(now time.Time) bool {
	if s == nil || s.ID == "" {
		return false
	}
	return s.Status == stripe.SubscriptionStatusActive || now.Before(time.Unix(s.CurrentPeriodEnd, 0))
}
