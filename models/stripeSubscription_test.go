package models

import (
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go"
	"github.com/stretchr/testify/assert"
)

func TestStripeSubscriptionActive(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var missing *StripeSubscription
	assert.False(t, missing.Active(now))
	assert.False(t, (&StripeSubscription{}).Active(now))

	active := &StripeSubscription{ID: "sub_1", Status: stripe.SubscriptionStatusActive}
	assert.True(t, active.Active(now))

	// A trialing subscription grants access through its period end.
	trialing := &StripeSubscription{
		ID:               "sub_2",
		Status:           stripe.SubscriptionStatusTrialing,
		CurrentPeriodEnd: now.Add(24 * time.Hour).Unix(),
	}
	assert.True(t, trialing.Active(now))

	expired := &StripeSubscription{
		ID:               "sub_3",
		Status:           stripe.SubscriptionStatusCanceled,
		CurrentPeriodEnd: now.Add(-24 * time.Hour).Unix(),
	}
	assert.False(t, expired.Active(now))
}
