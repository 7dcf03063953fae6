package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
	"github.com/simonkvalheim/fjord-ledger/internal/service"
)

type demoAccount struct {
	accountType model.AccountType
	balance     string
}

type demoCustomer struct {
	name     string
	email    string
	accounts []demoAccount
}

var demoCustomers = []demoCustomer{
	{
		name:  "Alice",
		email: "alice@email.com",
		accounts: []demoAccount{
			{accountType: model.AccountTypeSavings, balance: "1000.00"},
			{accountType: model.AccountTypeChecking, balance: "0"},
		},
	},
	{
		name:  "Bob",
		email: "bob@email.com",
		accounts: []demoAccount{
			{accountType: model.AccountTypeChecking, balance: "500.00"},
		},
	},
}

// SeedDemo registers the demo customers and their accounts
// It is safe to call more than once: customers that already exist are skipped
func SeedDemo(ctx context.Context, store *repository.Store, accounts *service.AccountService) error {
	for _, dc := range demoCustomers {
		if err := ensureDemoCustomer(ctx, store, accounts, dc); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", dc.email, err)
		}
	}
	return nil
}

// ensureDemoCustomer creates the customer and its accounts if the email is unknown
func ensureDemoCustomer(ctx context.Context, store *repository.Store, accounts *service.AccountService, dc demoCustomer) error {
	existing, err := store.FindCustomerByEmail(dc.email)
	if err == nil {
		log.Printf("Demo customer %s already exists (%s)", dc.email, existing.ID)
		return nil
	}
	if !errors.Is(err, model.ErrCustomerNotFound) {
		return fmt.Errorf("failed to look up customer: %w", err)
	}

	customer, err := store.AddCustomer(dc.name, dc.email)
	if err != nil {
		return err
	}

	for _, da := range dc.accounts {
		balance, err := decimal.NewFromString(da.balance)
		if err != nil {
			return fmt.Errorf("invalid demo balance %q: %w", da.balance, err)
		}
		if _, err := accounts.CreateAccount(ctx, customer.ID, da.accountType, balance); err != nil {
			return err
		}
	}

	log.Printf("Created demo customer %s with %d accounts", dc.email, len(dc.accounts))
	return nil
}
