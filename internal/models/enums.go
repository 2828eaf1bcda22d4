package models

type TraderStatus string

const (
	TraderActive    TraderStatus = "active"
	TraderInactive  TraderStatus = "inactive"
	TraderSuspended TraderStatus = "suspended"
)

func (s TraderStatus) IsValid() bool {
	switch s {
	case TraderActive, TraderInactive, TraderSuspended:
		return true
	}
	return false
}

// PaymentStatus is stored on the bill and read as-is. Moving a bill through
// unpaid, partially_paid and paid is done by whoever maintains amount_paid.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartiallyPaid, PaymentPaid:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}
