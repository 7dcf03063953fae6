package processor

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
)

// TransferProcessor moves money between two accounts of the bank
type TransferProcessor struct {
	store *repository.Store
}

// NewTransferProcessor creates a new TransferProcessor
func NewTransferProcessor(store *repository.Store) *TransferProcessor {
	return &TransferProcessor{store: store}
}

// Transfer debits fromID and credits toID by amount, recording a single
// TRANSFER transaction. Either both balances change and the transaction is
// logged, or nothing changes.
func (p *TransferProcessor) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal, description string) (model.Transaction, error) {
	if fromID == uuid.Nil {
		return model.Transaction{}, model.AccountNotFound(fromID)
	}
	if toID == uuid.Nil {
		return model.Transaction{}, model.AccountNotFound(toID)
	}
	if fromID == toID {
		return model.Transaction{}, model.Invalid("to_account_id", model.ErrSameAccount)
	}

	amount = model.RoundAmount(amount)
	if !amount.IsPositive() {
		return model.Transaction{}, model.Invalid("amount", model.ErrInvalidAmount)
	}

	from, err := p.store.GetAccount(fromID)
	if err != nil {
		return model.Transaction{}, err
	}
	to, err := p.store.GetAccount(toID)
	if err != nil {
		return model.Transaction{}, err
	}

	tx, err := p.moveLocked(ctx, from, to, amount, description)
	if err != nil {
		return model.Transaction{}, err
	}

	log.Printf("Transfer %s: %s -> %s amount %s", tx.ID, from.ID, to.ID, model.FormatAmount(amount))
	return tx, nil
}

// moveLocked does the balance moves and the ledger append under both guards.
// Both guards are released when it returns.
func (p *TransferProcessor) moveLocked(ctx context.Context, from, to *model.Account, amount decimal.Decimal, description string) (model.Transaction, error) {
	unlock, err := lockInOrder(ctx, from, to)
	if err != nil {
		return model.Transaction{}, err
	}
	defer unlock()

	// Re-check under both guards; the balance may have moved while waiting.
	if err := from.CanWithdraw(amount); err != nil {
		return model.Transaction{}, err
	}

	tx, err := model.NewTransaction(model.TransactionTypeTransfer, &from.ID, &to.ID,
		amount, description, p.store.Now(), p.store.BusinessZone())
	if err != nil {
		return model.Transaction{}, err
	}

	if err := from.Withdraw(amount); err != nil {
		return model.Transaction{}, err
	}
	if err := to.Deposit(amount); err != nil {
		// unreachable: amount is positive
		return model.Transaction{}, fmt.Errorf("failed to credit %s: %w", to.ID, err)
	}
	p.store.AddTransaction(tx)
	return tx, nil
}

// lockInOrder acquires the guards of accounts in ascending id order, so two
// operations over overlapping account sets can never wait on each other in
// a cycle. If any acquisition fails, guards already taken are released.
// The returned func releases everything in reverse acquisition order.
func lockInOrder(ctx context.Context, accounts ...*model.Account) (func(), error) {
	ordered := make([]*model.Account, len(accounts))
	copy(ordered, accounts)
	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i].ID[:], ordered[j].ID[:]) < 0
	})

	held := make([]*model.Account, 0, len(ordered))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}

	for _, a := range ordered {
		if len(held) > 0 && held[len(held)-1].ID == a.ID {
			continue
		}
		if err := a.Lock(ctx); err != nil {
			release()
			return nil, err
		}
		held = append(held, a)
	}

	return release, nil
}
