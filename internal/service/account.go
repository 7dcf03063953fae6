package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
)

// AccountService opens accounts and moves money in and out of a single account
type AccountService struct {
	store *repository.Store
}

// NewAccountService creates a new AccountService
func NewAccountService(store *repository.Store) *AccountService {
	return &AccountService{store: store}
}

// CreateAccount opens an account for an existing customer.
func (s *AccountService) CreateAccount(ctx context.Context, customerID uuid.UUID, accountType model.AccountType, initialBalance decimal.Decimal) (*model.Account, error) {
	if _, err := s.store.GetCustomer(customerID); err != nil {
		return nil, err
	}

	account, err := s.store.AddAccount(customerID, accountType, initialBalance)
	if err != nil {
		return nil, err
	}

	log.Printf("Opened %s account %s for customer %s with balance %s",
		account.AccountType, account.ID, customerID, model.FormatAmount(account.Balance()))
	return account, nil
}

// Deposit credits amount to the account and records a DEPOSIT.
func (s *AccountService) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (model.Transaction, error) {
	return mutateAccount(ctx, s.store, accountID, amount, func(account *model.Account, amount decimal.Decimal) (model.Transaction, error) {
		tx, err := model.NewTransaction(model.TransactionTypeDeposit, nil, &account.ID,
			amount, description, s.store.Now(), s.store.BusinessZone())
		if err != nil {
			return model.Transaction{}, err
		}
		if err := account.Deposit(amount); err != nil {
			return model.Transaction{}, err
		}
		return tx, nil
	})
}

// Withdraw debits amount from the account and records a WITHDRAWAL.
func (s *AccountService) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (model.Transaction, error) {
	return mutateAccount(ctx, s.store, accountID, amount, func(account *model.Account, amount decimal.Decimal) (model.Transaction, error) {
		return debit(s.store, account, model.TransactionTypeWithdrawal, amount, description)
	})
}

// mutateAccount validates the amount, resolves the account and runs apply
// under the account guard. The transaction apply returns is appended before the guard
// is released, so no other operation on the account can observe the new
// balance without its record. Logging happens after release.
func mutateAccount(ctx context.Context, store *repository.Store, accountID uuid.UUID, amount decimal.Decimal,
	apply func(*model.Account, decimal.Decimal) (model.Transaction, error)) (model.Transaction, error) {
	amount = model.RoundAmount(amount)
	if !amount.IsPositive() {
		return model.Transaction{}, model.Invalid("amount", model.ErrInvalidAmount)
	}

	account, err := store.GetAccount(accountID)
	if err != nil {
		return model.Transaction{}, err
	}

	tx, err := applyLocked(ctx, store, account, amount, apply)
	if err != nil {
		return model.Transaction{}, err
	}

	log.Printf("%s %s on account %s: %s", tx.Type, tx.ID, account.ID, model.FormatAmount(amount))
	return tx, nil
}

func applyLocked(ctx context.Context, store *repository.Store, account *model.Account, amount decimal.Decimal,
	apply func(*model.Account, decimal.Decimal) (model.Transaction, error)) (model.Transaction, error) {
	if err := account.Lock(ctx); err != nil {
		return model.Transaction{}, err
	}
	defer account.Unlock()

	tx, err := apply(account, amount)
	if err != nil {
		return model.Transaction{}, err
	}
	store.AddTransaction(tx)
	return tx, nil
}

// debit builds the outgoing transaction and then withdraws. The caller holds
// the account guard.
func debit(store *repository.Store, account *model.Account, txType model.TransactionType, amount decimal.Decimal, description string) (model.Transaction, error) {
	if err := account.CanWithdraw(amount); err != nil {
		return model.Transaction{}, err
	}

	tx, err := model.NewTransaction(txType, &account.ID, nil, amount, description, store.Now(), store.BusinessZone())
	if err != nil {
		return model.Transaction{}, err
	}

	if err := account.Withdraw(amount); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to debit %s: %w", account.ID, err)
	}
	return tx, nil
}
