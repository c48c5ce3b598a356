package notify

import "time"

// Queue names.
const (
	QueuePasswordReset = "password_reset"
	QueueCartPaid      = "cart_paid"
)

// PasswordResetEvent is published when a user requests a password reset.
// ValidMinutes is the token lifetime at the time it was issued.
type PasswordResetEvent struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ResetURL     string    `json:"resetUrl"`
	ExpiresAt    time.Time `json:"expiresAt"`
	ValidMinutes int       `json:"validMinutes"`
}

// CartPaidEvent is published when an unpaid cart is marked as paid.
type CartPaidEvent struct {
	UserID string         `json:"userId"`
	Email  string         `json:"email"`
	Name   string         `json:"name"`
	CartID string         `json:"cartId"`
	Items  []CartPaidLine `json:"items"`
	Total  string         `json:"total"`
	PaidAt time.Time      `json:"paidAt"`
}

// CartPaidLine is one receipt line.
type CartPaidLine struct {
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}
