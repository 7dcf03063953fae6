package model

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the type of bank account
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

// ParseAccountType accepts "checking" or "savings" in any case.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToUpper(strings.TrimSpace(s))) {
	case AccountTypeChecking:
		return AccountTypeChecking, nil
	case AccountTypeSavings:
		return AccountTypeSavings, nil
	default:
		return "", Invalid("account_type", ErrInvalidAccountType)
	}
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t == AccountTypeChecking || t == AccountTypeSavings
}

// Account represents a bank account.
//
// The balance may only change while the caller holds the account guard
// (Lock/Unlock). Balance can be read at any time without the guard.
// Accounts must be built with NewAccount; a zero Account has no guard.
type Account struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	AccountType AccountType
	CreatedAt   time.Time

	guard   chan struct{}
	balance atomic.Pointer[decimal.Decimal]
}

// NewAccount validates the type and opening balance and returns an
// unlocked account.
func NewAccount(customerID uuid.UUID, accountType AccountType, initial decimal.Decimal, now time.Time) (*Account, error) {
	if !accountType.Valid() {
		return nil, Invalid("account_type", ErrInvalidAccountType)
	}
	if initial.IsNegative() {
		return nil, Invalid("initial_balance", ErrNegativeBalance)
	}

	a := &Account{
		ID:          uuid.New(),
		CustomerID:  customerID,
		AccountType: accountType,
		CreatedAt:   now,
		guard:       make(chan struct{}, 1),
	}
	a.setBalance(RoundAmount(initial))
	return a, nil
}

// Lock acquires the account guard, waiting until it is free or ctx is done.
func (a *Account) Lock(ctx context.Context) error {
	if a.guard == nil {
		return ErrAccountNotReady
	}

	select {
	case a.guard <- struct{}{}:
		return nil
	default:
	}

	select {
	case a.guard <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &ConcurrencyError{AccountID: a.ID, Err: ctx.Err()}
	}
}

// Unlock releases the guard. Calling it without holding the guard panics.
func (a *Account) Unlock() {
	select {
	case <-a.guard:
	default:
		panic("model: unlock of unlocked account " + a.ID.String())
	}
}

// Balance returns the last published balance, or zero if none was set.
func (a *Account) Balance() decimal.Decimal {
	if b := a.balance.Load(); b != nil {
		return *b
	}
	return decimal.Zero
}

func (a *Account) setBalance(d decimal.Decimal) {
	a.balance.Store(&d)
}

// Deposit adds amount to the balance. The caller must hold the guard.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Invalid("amount", ErrInvalidAmount)
	}
	a.setBalance(a.Balance().Add(amount))
	return nil
}

// Withdraw subtracts amount from the balance. The caller must hold the guard.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := a.CanWithdraw(amount); err != nil {
		return err
	}
	a.setBalance(a.Balance().Sub(amount))
	return nil
}

// CanWithdraw checks amount against the current balance without changing it.
func (a *Account) CanWithdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Invalid("amount", ErrInvalidAmount)
	}
	if amount.GreaterThan(a.Balance()) {
		return Invalid("amount", ErrInsufficientFunds)
	}
	return nil
}

// AccountSnapshot is an immutable view of an account at one instant.
type AccountSnapshot struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	AccountType AccountType
	Balance     decimal.Decimal
	CreatedAt   time.Time
}

// Snapshot copies the account's fields and current balance.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:          a.ID,
		CustomerID:  a.CustomerID,
		AccountType: a.AccountType,
		Balance:     a.Balance(),
		CreatedAt:   a.CreatedAt,
	}
}

func (s AccountSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          uuid.UUID   `json:"id"`
		CustomerID  uuid.UUID   `json:"customer_id"`
		AccountType AccountType `json:"account_type"`
		Balance     string      `json:"balance"`
		CreatedAt   time.Time   `json:"created_at"`
	}{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		AccountType: s.AccountType,
		Balance:     FormatAmount(s.Balance),
		CreatedAt:   s.CreatedAt,
	})
}

// MarshalJSON serializes the account through its snapshot.
func (a *Account) MarshalJSON() ([]byte, error) {
	return a.Snapshot().MarshalJSON()
}

// CreateAccountRequest is the payload for creating a new account
type CreateAccountRequest struct {
	CustomerID     string `json:"customer_id" validate:"required,uuid"`
	AccountType    string `json:"account_type" validate:"required"`
	InitialBalance string `json:"initial_balance"`
}

// Parse converts the request into typed values. An empty initial balance means zero.
func (r CreateAccountRequest) Parse() (uuid.UUID, AccountType, decimal.Decimal, error) {
	customerID, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return uuid.Nil, "", decimal.Zero, &ValidationError{Field: "customer_id", Message: "invalid customer id", Err: err}
	}

	accountType, err := ParseAccountType(r.AccountType)
	if err != nil {
		return uuid.Nil, "", decimal.Zero, err
	}

	initial := decimal.Zero
	if strings.TrimSpace(r.InitialBalance) != "" {
		initial, err = decimal.NewFromString(strings.TrimSpace(r.InitialBalance))
		if err != nil {
			return uuid.Nil, "", decimal.Zero, &ValidationError{Field: "initial_balance", Message: "invalid decimal amount", Err: ErrInvalidAmount}
		}
		initial = RoundAmount(initial)
	}
	if initial.IsNegative() {
		return uuid.Nil, "", decimal.Zero, Invalid("initial_balance", ErrNegativeBalance)
	}

	return customerID, accountType, initial, nil
}
