package lifecycle

import (
	"fmt"

	"github.com/FaizwebWorks/ambika-backend/models"
)

// transitions is the allowed-state table. Cancellation is the only backward
// branch; delivered and cancelled are terminal.
var transitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered: nil,
	models.OrderStatusCancelled: nil,
}

func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// Cancellable reports whether a customer may still cancel from status.
func Cancellable(status string) bool {
	return CanTransition(status, models.OrderStatusCancelled)
}

func ValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// FormatOrderNumber renders the human-readable order number, e.g. AMB25001.
func FormatOrderNumber(yy string, seq int64) string {
	return fmt.Sprintf("AMB%s%03d", yy, seq)
}
