package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer represents a registered bank customer. Customers are never
// mutated after registration.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCustomer validates name and email and returns a customer with a fresh ID.
func NewCustomer(name, email string, now time.Time) (*Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, Invalid("name", ErrInvalidName)
	}
	if !isValidEmail(email) {
		return nil, Invalid("email", ErrInvalidEmail)
	}

	return &Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
	}, nil
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.Contains(email, ".")
}
