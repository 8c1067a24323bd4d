package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FaizwebWorks/ambika-backend/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusConfirmed, models.OrderStatusShipped, true},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled, true},
		{models.OrderStatusConfirmed, models.OrderStatusDelivered, false},
		{models.OrderStatusConfirmed, models.OrderStatusPending, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusShipped, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusShipped, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed, false},
		{"bogus", models.OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderStatusDelivered))
	assert.True(t, IsTerminal(models.OrderStatusCancelled))
	assert.False(t, IsTerminal(models.OrderStatusPending))
	assert.False(t, IsTerminal(models.OrderStatusConfirmed))
	assert.False(t, IsTerminal(models.OrderStatusShipped))
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(models.OrderStatusPending))
	assert.True(t, Cancellable(models.OrderStatusConfirmed))
	assert.False(t, Cancellable(models.OrderStatusShipped))
	assert.False(t, Cancellable(models.OrderStatusDelivered))
	assert.False(t, Cancellable(models.OrderStatusCancelled))
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		assert.True(t, ValidStatus(status), status)
	}
	assert.False(t, ValidStatus("paid"))
	assert.False(t, ValidStatus(""))
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "AMB25001", FormatOrderNumber("25", 1))
	assert.Equal(t, "AMB25042", FormatOrderNumber("25", 42))
	assert.Equal(t, "AMB26999", FormatOrderNumber("26", 999))
	// The sequence keeps growing past three digits without truncation.
	assert.Equal(t, "AMB261000", FormatOrderNumber("26", 1000))
}
