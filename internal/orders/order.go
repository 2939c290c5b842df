package orders

import "encoding/json"

// Status tracks the payment lifecycle of an order.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// CheckoutItem is one cart line captured at checkout time. Field names match
// the metadata shape the storefront sends to the gateway.
type CheckoutItem struct {
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	LineTotalKsh float64 `json:"lineTotalKsh"`
}

// Order is the bookkeeping record written when a payment is initialized.
type Order struct {
	CustomerEmail     string         `json:"customer_email"`
	TotalKsh          int64          `json:"total_ksh"`
	Currency          string         `json:"currency"`
	Items             []CheckoutItem `json:"items"`
	PaymentProvider   string         `json:"payment_provider"`
	PaystackReference *string        `json:"paystack_reference"`
	PaymentStatus     Status         `json:"payment_status"`
}

// StatusUpdate is the patch applied when a webhook settles a payment.
type StatusUpdate struct {
	PaymentStatus   Status          `json:"payment_status"`
	PaystackPayload json.RawMessage `json:"paystack_payload"`
}
