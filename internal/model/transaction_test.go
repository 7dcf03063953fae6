package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBusinessDateOf(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}

	tests := []struct {
		name string
		ts   time.Time
		loc  *time.Location
		want string
	}{
		{
			name: "same day in UTC and New York",
			ts:   time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
			loc:  newYork,
			want: "2023-01-01",
		},
		{
			name: "UTC early morning is previous day in New York",
			ts:   time.Date(2023, 1, 2, 3, 0, 0, 0, time.UTC),
			loc:  newYork,
			want: "2023-01-01",
		},
		{
			name: "nil location falls back to UTC",
			ts:   time.Date(2023, 1, 2, 3, 0, 0, 0, time.UTC),
			loc:  nil,
			want: "2023-01-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BusinessDateOf(tt.ts, tt.loc).String(); got != tt.want {
				t.Errorf("BusinessDateOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewTransaction(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	ts := time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		txType  TransactionType
		from    *uuid.UUID
		to      *uuid.UUID
		amount  decimal.Decimal
		wantErr error
	}{
		{name: "deposit", txType: TransactionTypeDeposit, to: &a, amount: hundred},
		{name: "withdrawal", txType: TransactionTypeWithdrawal, from: &a, amount: hundred},
		{name: "payment", txType: TransactionTypePayment, from: &a, amount: hundred},
		{name: "transfer", txType: TransactionTypeTransfer, from: &a, to: &b, amount: hundred},
		{name: "zero amount", txType: TransactionTypeDeposit, to: &a, amount: decimal.Zero, wantErr: ErrInvalidAmount},
		{name: "negative amount", txType: TransactionTypePayment, from: &a, amount: hundred.Neg(), wantErr: ErrInvalidAmount},
		{name: "deposit with source", txType: TransactionTypeDeposit, from: &b, to: &a, amount: hundred, wantErr: ErrInvalidTransactionType},
		{name: "payment with destination", txType: TransactionTypePayment, from: &a, to: &b, amount: hundred, wantErr: ErrInvalidTransactionType},
		{name: "transfer to itself", txType: TransactionTypeTransfer, from: &a, to: &a, amount: hundred, wantErr: ErrInvalidTransactionType},
		{name: "unknown type", txType: "REFUND", to: &a, amount: hundred, wantErr: ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(tt.txType, tt.from, tt.to, tt.amount, " note ", ts, time.UTC)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewTransaction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tx.ID == uuid.Nil {
				t.Error("NewTransaction() ID is nil")
			}
			if tx.Description != "note" {
				t.Errorf("Description = %q, want %q", tx.Description, "note")
			}
			if tx.BusinessDate.String() != "2023-01-01" {
				t.Errorf("BusinessDate = %v, want 2023-01-01", tx.BusinessDate)
			}
		})
	}
}

func TestTransaction_Involves(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	tx := Transaction{Type: TransactionTypeTransfer, FromAccountID: &a, ToAccountID: &b}

	if !tx.Involves(a) || !tx.Involves(b) {
		t.Error("Involves() = false for a party of the transfer")
	}
	if tx.Involves(c) {
		t.Error("Involves() = true for an unrelated account")
	}
}

func TestTransaction_MarshalJSON(t *testing.T) {
	a := uuid.New()
	tx, err := NewTransaction(TransactionTypeDeposit, nil, &a, decimal.RequireFromString("42.5"), "", time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("NewTransaction() error = %v", err)
	}

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["amount"] != "42.50" {
		t.Errorf("amount = %v, want 42.50", got["amount"])
	}
	if got["business_date"] != "2023-01-01" {
		t.Errorf("business_date = %v, want 2023-01-01", got["business_date"])
	}
	if _, ok := got["from_account_id"]; ok {
		t.Error("from_account_id present on a deposit")
	}
}

func TestCreateTransferRequest_Validate(t *testing.T) {
	validFromID := uuid.New().String()
	validToID := uuid.New().String()

	tests := []struct {
		name    string
		request CreateTransferRequest
		wantErr error
	}{
		{
			name:    "valid request",
			request: CreateTransferRequest{FromAccountID: validFromID, ToAccountID: validToID, Amount: "100.00"},
		},
		{
			name:    "same source and destination",
			request: CreateTransferRequest{FromAccountID: validFromID, ToAccountID: strings.ToUpper(validFromID), Amount: "100.00"},
			wantErr: ErrSameAccount,
		},
		{
			name:    "zero amount",
			request: CreateTransferRequest{FromAccountID: validFromID, ToAccountID: validToID, Amount: "0.00"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "rounds to zero",
			request: CreateTransferRequest{FromAccountID: validFromID, ToAccountID: validToID, Amount: "0.004"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "not a number",
			request: CreateTransferRequest{FromAccountID: validFromID, ToAccountID: validToID, Amount: "lots"},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
