package models

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
)

// PaymentMethods lists the methods shown at checkout.
var PaymentMethods = []PaymentMethod{PaymentCOD, PaymentOnline}

// Enabled reports whether the method can currently be used to place an order.
// Online payment is shown but not yet available.
func (p PaymentMethod) Enabled() bool {
	return p == PaymentCOD
}

func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCOD:
		return "Cash on delivery"
	case PaymentOnline:
		return "Online payment (coming soon)"
	default:
		return string(p)
	}
}
