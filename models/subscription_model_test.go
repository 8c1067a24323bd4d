package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIsActive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	active := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, 10)}
	assert.True(t, active.IsActive(now))

	expired := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, -1)}
	assert.False(t, expired.IsActive(now))

	// endDate itself is exclusive.
	boundary := Subscription{Status: SubscriptionStatusActive, EndDate: now}
	assert.False(t, boundary.IsActive(now))

	cancelled := Subscription{Status: SubscriptionStatusCancelled, EndDate: now.AddDate(0, 0, 10)}
	assert.False(t, cancelled.IsActive(now))

	pending := Subscription{Status: SubscriptionStatusPending, EndDate: now.AddDate(0, 0, 10)}
	assert.False(t, pending.IsActive(now))
}

func TestSubscriptionInGracePeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	oneDayLapsed := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, -1)}
	assert.True(t, oneDayLapsed.InGracePeriod(now))

	atGraceEdge := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, -GracePeriodDays)}
	assert.True(t, atGraceEdge.InGracePeriod(now))

	pastGrace := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, -GracePeriodDays-1)}
	assert.False(t, pastGrace.InGracePeriod(now))

	// Still-active subscriptions are not in grace.
	stillActive := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, 5)}
	assert.False(t, stillActive.InGracePeriod(now))

	// Cancelled subscriptions get no grace window.
	cancelled := Subscription{Status: SubscriptionStatusCancelled, EndDate: now.AddDate(0, 0, -1)}
	assert.False(t, cancelled.InGracePeriod(now))
}

func TestSubscriptionDaysRemaining(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	s := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, 10)}
	assert.Equal(t, 10, s.DaysRemaining(now))

	expired := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, -5)}
	assert.Equal(t, 0, expired.DaysRemaining(now))

	ending := Subscription{Status: SubscriptionStatusActive, EndDate: now}
	assert.Equal(t, 0, ending.DaysRemaining(now))
}

func TestSubscriptionIsExpiringSoon(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	soon := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, ExpiryWarningDays)}
	assert.True(t, soon.IsExpiringSoon(now))

	far := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, ExpiryWarningDays+2)}
	assert.False(t, far.IsExpiringSoon(now))

	lapsed := Subscription{Status: SubscriptionStatusActive, EndDate: now.AddDate(0, 0, -1)}
	assert.False(t, lapsed.IsExpiringSoon(now))
}
