package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypePayment    TransactionType = "PAYMENT"
)

// InitialDepositDescription is recorded on the deposit synthesized when an
// account opens with a positive balance.
const InitialDepositDescription = "Initial deposit"

// BusinessDate is a calendar date in the bank's business time zone.
type BusinessDate struct {
	Year  int
	Month time.Month
	Day   int
}

// BusinessDateOf returns the date of t as observed in loc.
func BusinessDateOf(t time.Time, loc *time.Location) BusinessDate {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return BusinessDate{Year: y, Month: m, Day: d}
}

func (d BusinessDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d BusinessDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Transaction represents a financial transaction. It is never modified
// once appended to the ledger.
type Transaction struct {
	ID            uuid.UUID
	Timestamp     time.Time
	BusinessDate  BusinessDate
	Type          TransactionType
	FromAccountID *uuid.UUID
	ToAccountID   *uuid.UUID
	Amount        decimal.Decimal
	Description   string
}

// NewTransaction builds a validated transaction stamped at ts, with the
// business date taken from ts in loc.
func NewTransaction(txType TransactionType, from, to *uuid.UUID, amount decimal.Decimal, description string, ts time.Time, loc *time.Location) (Transaction, error) {
	tx := Transaction{
		ID:            uuid.New(),
		Timestamp:     ts,
		BusinessDate:  BusinessDateOf(ts, loc),
		Type:          txType,
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
		Description:   strings.TrimSpace(description),
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Validate checks the amount and that the account sides match the type.
func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return Invalid("amount", ErrInvalidAmount)
	}

	hasFrom, hasTo := t.FromAccountID != nil, t.ToAccountID != nil
	var ok bool
	switch t.Type {
	case TransactionTypeDeposit:
		ok = !hasFrom && hasTo
	case TransactionTypeWithdrawal, TransactionTypePayment:
		ok = hasFrom && !hasTo
	case TransactionTypeTransfer:
		ok = hasFrom && hasTo && *t.FromAccountID != *t.ToAccountID
	}
	if !ok {
		return Invalid("type", ErrInvalidTransactionType)
	}
	return nil
}

// Involves reports whether the transaction debits or credits accountID.
func (t Transaction) Involves(accountID uuid.UUID) bool {
	return (t.FromAccountID != nil && *t.FromAccountID == accountID) ||
		(t.ToAccountID != nil && *t.ToAccountID == accountID)
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID            uuid.UUID       `json:"id"`
		Timestamp     time.Time       `json:"timestamp"`
		BusinessDate  BusinessDate    `json:"business_date"`
		Type          TransactionType `json:"type"`
		FromAccountID *uuid.UUID      `json:"from_account_id,omitempty"`
		ToAccountID   *uuid.UUID      `json:"to_account_id,omitempty"`
		Amount        string          `json:"amount"`
		Description   string          `json:"description"`
	}{
		ID:            t.ID,
		Timestamp:     t.Timestamp,
		BusinessDate:  t.BusinessDate,
		Type:          t.Type,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        FormatAmount(t.Amount),
		Description:   t.Description,
	})
}

// AmountRequest is the payload for deposits and withdrawals
type AmountRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"max=256"`
}

// CreatePaymentRequest is the payload for an external payment
type CreatePaymentRequest struct {
	FromAccountID string `json:"from_account_id" validate:"required,uuid"`
	Amount        string `json:"amount" validate:"required"`
	Description   string `json:"description" validate:"max=256"`
}

// CreateTransferRequest is the payload for creating a new transfer
type CreateTransferRequest struct {
	FromAccountID string `json:"from_account_id" validate:"required,uuid"`
	ToAccountID   string `json:"to_account_id" validate:"required,uuid"`
	Amount        string `json:"amount" validate:"required"`
	Description   string `json:"description" validate:"max=256"`
}

// Validate checks if the transfer request is valid
func (r CreateTransferRequest) Validate() error {
	if strings.EqualFold(strings.TrimSpace(r.FromAccountID), strings.TrimSpace(r.ToAccountID)) {
		return Invalid("to_account_id", ErrSameAccount)
	}
	if _, err := ParsePositiveAmount(r.Amount); err != nil {
		return Invalid("amount", err)
	}
	return nil
}

// TransferResponse is returned when a transfer or payment is accepted
// for asynchronous processing.
type TransferResponse struct {
	CommandID uuid.UUID `json:"command_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
