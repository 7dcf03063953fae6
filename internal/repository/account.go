package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
)

// AddAccount opens an account for an existing customer. A positive opening
// balance is recorded as a DEPOSIT described as "Initial deposit".
func (s *Store) AddAccount(customerID uuid.UUID, accountType model.AccountType, initial decimal.Decimal) (*model.Account, error) {
	if _, ok := s.customers.get(customerID); !ok {
		return nil, model.Invalid("customer_id", model.ErrCustomerNotFound)
	}

	now := s.Now()
	account, err := model.NewAccount(customerID, accountType, initial, now)
	if err != nil {
		return nil, err
	}

	var opening *model.Transaction
	if account.Balance().IsPositive() {
		tx, err := model.NewTransaction(model.TransactionTypeDeposit, nil, &account.ID,
			account.Balance(), model.InitialDepositDescription, now, s.zone)
		if err != nil {
			return nil, fmt.Errorf("failed to build initial deposit: %w", err)
		}
		opening = &tx
	}

	// The account is unreachable until put, so this never waits. Holding the
	// guard keeps operations from running before the opening deposit is logged.
	if err := account.Lock(context.Background()); err != nil {
		return nil, err
	}
	defer account.Unlock()

	s.accounts.put(account.ID, account)
	if opening != nil {
		s.ledger.Append(*opening)
	}

	return account, nil
}

// GetAccount retrieves an account by ID
func (s *Store) GetAccount(id uuid.UUID) (*model.Account, error) {
	account, ok := s.accounts.get(id)
	if !ok {
		return nil, model.AccountNotFound(id)
	}
	return account, nil
}

// AllAccounts returns every account in creation order.
func (s *Store) AllAccounts() []*model.Account {
	return s.accounts.filter(nil)
}

// AccountsByCustomer returns the customer's accounts in creation order.
func (s *Store) AccountsByCustomer(customerID uuid.UUID) []*model.Account {
	return s.accounts.filter(func(a *model.Account) bool {
		return a.CustomerID == customerID
	})
}
