package model

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// EventType names the operations the vault records.
type EventType string

const (
	EventDeposited EventType = "vault.deposited"
	EventWithdrawn EventType = "vault.withdrawn"
)

// Event is an immutable record of a completed vault operation. Events are
// appended to the journal in the order the operations committed and are the
// only state external observers may rely on.
type Event struct {
	EventID         string    `json:"event_id"`
	Type            EventType `json:"type"`
	Account         string    `json:"account"`
	Amount          *big.Int  `json:"amount"`
	NewBalance      *big.Int  `json:"new_balance"`
	NewTotalBalance *big.Int  `json:"new_total_balance"`
	CreatedAt       time.Time `json:"created_at"`
}

// EventDisplay carries the same record with amounts scaled to human units.
type EventDisplay struct {
	EventID         string    `json:"event_id"`
	Type            EventType `json:"type"`
	Account         string    `json:"account"`
	Amount          string    `json:"amount"`
	NewBalance      string    `json:"new_balance"`
	NewTotalBalance string    `json:"new_total_balance"`
	CreatedAt       time.Time `json:"created_at"`
}

func newEvent(eventType EventType, account string, amount, newBalance, newTotal *big.Int) *Event {
	return &Event{
		EventID:         GenerateUUIDWithSuffix("evt"),
		Type:            eventType,
		Account:         account,
		Amount:          new(big.Int).Set(amount),
		NewBalance:      new(big.Int).Set(newBalance),
		NewTotalBalance: new(big.Int).Set(newTotal),
		CreatedAt:       time.Now(),
	}
}

// ScaleAmount converts a precise amount to a decimal string in human units,
// using precision as the number of fractional digits of the native unit.
func ScaleAmount(amount *big.Int, precision int32) string {
	return decimal.NewFromBigInt(amount, -precision).String()
}

// Display returns the event with amounts converted to human units.
func (e *Event) Display(precision int32) EventDisplay {
	return EventDisplay{
		EventID:         e.EventID,
		Type:            e.Type,
		Account:         e.Account,
		Amount:          ScaleAmount(e.Amount, precision),
		NewBalance:      ScaleAmount(e.NewBalance, precision),
		NewTotalBalance: ScaleAmount(e.NewTotalBalance, precision),
		CreatedAt:       e.CreatedAt,
	}
}
