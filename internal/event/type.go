package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const LedgerQueue string = "ledger_events"

type EventType string

const (
	BillCreated     EventType = "bill.created"
	BillDeleted     EventType = "bill.deleted"
	PaymentRecorded EventType = "payment.recorded"
)

// LedgerEvent is the message body published to LedgerQueue. Consumers that
// maintain trader balances react to payment.recorded.
type LedgerEvent struct {
	ID         string           `json:"id"`
	EventType  EventType        `json:"event_type"`
	TraderID   int64            `json:"trader_id"`
	BillID     *int64           `json:"bill_id,omitempty"`
	PaymentID  *int64           `json:"payment_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
	Additional map[string]any   `json:"additional,omitempty"`
}

func NewLedgerEvent(eventType EventType, traderID int64, occurredAt time.Time) LedgerEvent {
	return LedgerEvent{
		ID:         uuid.NewString(),
		EventType:  eventType,
		TraderID:   traderID,
		OccurredAt: occurredAt.UTC(),
	}
}

func (e LedgerEvent) WithBill(billID int64) LedgerEvent {
	e.BillID = &billID
	return e
}

func (e LedgerEvent) WithPayment(paymentID int64, amount decimal.Decimal) LedgerEvent {
	e.PaymentID = &paymentID
	e.Amount = &amount
	return e
}

func (e LedgerEvent) WithAmount(amount decimal.Decimal) LedgerEvent {
	e.Amount = &amount
	return e
}

func (e LedgerEvent) With(key string, value any) LedgerEvent {
	additional := make(map[string]any, len(e.Additional)+1)
	for k, v := range e.Additional {
		additional[k] = v
	}
	additional[key] = value
	e.Additional = additional
	return e
}
