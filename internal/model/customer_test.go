package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewCustomer(t *testing.T) {
	tests := []struct {
		name     string
		custName string
		email    string
		wantName string
		wantErr  error
	}{
		{name: "valid", custName: "Alice", email: "alice@example.com", wantName: "Alice"},
		{name: "name is trimmed", custName: "  Bob  ", email: "bob@example.com", wantName: "Bob"},
		{name: "blank name", custName: "   ", email: "x@example.com", wantErr: ErrInvalidName},
		{name: "empty email", custName: "Carol", email: "", wantErr: ErrInvalidEmail},
		{name: "email without at", custName: "Carol", email: "carol.example.com", wantErr: ErrInvalidEmail},
		{name: "email without dot", custName: "Carol", email: "carol@localhost", wantErr: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCustomer(tt.custName, tt.email, time.Now())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewCustomer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("NewCustomer() error type = %T, want *ValidationError", err)
				}
				return
			}
			if c.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", c.Name, tt.wantName)
			}
		})
	}
}

func TestParsePositiveAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "two places", input: "250.00", want: "250.00"},
		{name: "rounds half up", input: "10.005", want: "10.01"},
		{name: "rounds down", input: "10.004", want: "10.00"},
		{name: "surrounding spaces", input: " 5 ", want: "5.00"},
		{name: "zero", input: "0", wantErr: ErrInvalidAmount},
		{name: "negative", input: "-1", wantErr: ErrInvalidAmount},
		{name: "empty", input: "", wantErr: ErrInvalidAmount},
		{name: "not a number", input: "abc", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositiveAmount(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParsePositiveAmount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && FormatAmount(got) != tt.want {
				t.Errorf("ParsePositiveAmount() = %s, want %s", FormatAmount(got), tt.want)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	nf := AccountNotFound([16]byte{1})
	if !errors.Is(nf, ErrAccountNotFound) {
		t.Errorf("AccountNotFound() does not unwrap to ErrAccountNotFound")
	}
	if nf.Resource != "account" {
		t.Errorf("Resource = %q, want account", nf.Resource)
	}

	ve := Invalid("amount", ErrInsufficientFunds)
	if ve.Error() != "insufficient funds" {
		t.Errorf("Error() = %q, want %q", ve.Error(), "insufficient funds")
	}
}
