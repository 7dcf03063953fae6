package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
)

// AddTransaction records tx at the head of the log.
func (s *Store) AddTransaction(tx model.Transaction) {
	s.ledger.Append(tx)
}

// RecentTransactions returns the n newest transactions, newest first.
func (s *Store) RecentTransactions(n int) ([]model.Transaction, error) {
	if n <= 0 {
		return nil, model.Invalid("limit", model.ErrInvalidLimit)
	}
	return s.ledger.Recent(n), nil
}

// TransactionsSince returns transactions stamped strictly after t, newest first.
func (s *Store) TransactionsSince(t time.Time) []model.Transaction {
	return s.ledger.Filter(func(tx model.Transaction) bool {
		return tx.Timestamp.After(t)
	})
}

// TransactionsByAccount returns every transaction debiting or crediting the account.
func (s *Store) TransactionsByAccount(accountID uuid.UUID) []model.Transaction {
	return s.ledger.Filter(func(tx model.Transaction) bool {
		return tx.Involves(accountID)
	})
}

// AllTransactions returns a copy of the whole log, newest first.
func (s *Store) AllTransactions() []model.Transaction {
	return s.ledger.Filter(nil)
}
