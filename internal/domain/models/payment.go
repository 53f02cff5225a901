package models

// Payment order lifecycle states. FAILED is never written by current code;
// it remains in the enum so historical rows keep scanning cleanly.
const (
	PaymentCreated  = "CREATED"
	PaymentPaid     = "PAID"
	PaymentFailed   = "FAILED"
	PaymentCanceled = "CANCELED"
)

// PaymentOrder tracks one gateway order. Rows are never deleted; they are
// the financial audit trail.
type PaymentOrder struct {
	ID        int64  `json:"id"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id,omitempty"`
	Signature string `json:"signature,omitempty"`
	Amount    int64  `json:"amount"` // whole currency units
	Currency  string `json:"currency"`
	Status    string `json:"status"`
}
