package bootstrap

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/repository"
	"github.com/simonkvalheim/fjord-ledger/internal/service"
)

func TestSeedDemo(t *testing.T) {
	store := repository.NewStore()
	accounts := service.NewAccountService(store)

	if err := SeedDemo(context.Background(), store, accounts); err != nil {
		t.Fatalf("SeedDemo() error = %v", err)
	}
	first := store.Stats()
	if first.Customers != 2 || first.Accounts != 3 {
		t.Fatalf("Stats() = %+v, want 2 customers and 3 accounts", first)
	}
	// Zero-balance accounts have no opening deposit.
	if first.Transactions != 2 {
		t.Errorf("Transactions = %d, want 2", first.Transactions)
	}

	alice, err := store.FindCustomerByEmail("alice@email.com")
	if err != nil {
		t.Fatalf("FindCustomerByEmail() error = %v", err)
	}
	total := decimal.Zero
	for _, a := range store.AccountsByCustomer(alice.ID) {
		total = total.Add(a.Balance())
	}
	if !total.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Alice total = %s, want 1000", total)
	}

	if err := SeedDemo(context.Background(), store, accounts); err != nil {
		t.Fatalf("second SeedDemo() error = %v", err)
	}
	if again := store.Stats(); again != first {
		t.Errorf("second SeedDemo() changed stats: %+v -> %+v", first, again)
	}
}
