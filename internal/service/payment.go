package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
)

// PaymentService pays money out of the bank to an external party
type PaymentService struct {
	store *repository.Store
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(store *repository.Store) *PaymentService {
	return &PaymentService{store: store}
}

// Pay debits amount from the account and records a PAYMENT with no
// destination account.
func (s *PaymentService) Pay(ctx context.Context, fromAccountID uuid.UUID, amount decimal.Decimal, description string) (model.Transaction, error) {
	return mutateAccount(ctx, s.store, fromAccountID, amount, func(account *model.Account, amount decimal.Decimal) (model.Transaction, error) {
		return debit(s.store, account, model.TransactionTypePayment, amount, description)
	})
}
