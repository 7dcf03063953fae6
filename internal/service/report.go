package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
)

// Report defaults used when the caller does not specify them.
const (
	DefaultTopN     = 5
	DefaultLookback = 30 * 24 * time.Hour
)

// CustomerBalance is the summed balance of one customer's accounts.
type CustomerBalance struct {
	CustomerID   uuid.UUID
	CustomerName string
	Balance      decimal.Decimal
}

func (c CustomerBalance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CustomerID   uuid.UUID `json:"customer_id"`
		CustomerName string    `json:"customer_name"`
		Balance      string    `json:"balance"`
	}{c.CustomerID, c.CustomerName, model.FormatAmount(c.Balance)})
}

// Report summarizes the bank at roughly one instant. The four aggregates are
// computed independently without account guards, so a report taken during
// concurrent activity may mix slightly different moments.
type Report struct {
	GeneratedAt            time.Time
	TotalBalance           decimal.Decimal
	BalanceByCustomer      []CustomerBalance
	RecentTransactionCount int
	Lookback               time.Duration
	TopAccounts            []model.AccountSnapshot
}

func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		GeneratedAt            time.Time               `json:"generated_at"`
		TotalBalance           string                  `json:"total_balance"`
		BalanceByCustomer      []CustomerBalance       `json:"balance_by_customer"`
		RecentTransactionCount int                     `json:"recent_transaction_count"`
		Lookback               string                  `json:"lookback"`
		TopAccounts            []model.AccountSnapshot `json:"top_accounts"`
	}{
		GeneratedAt:            r.GeneratedAt,
		TotalBalance:           model.FormatAmount(r.TotalBalance),
		BalanceByCustomer:      r.BalanceByCustomer,
		RecentTransactionCount: r.RecentTransactionCount,
		Lookback:               r.Lookback.String(),
		TopAccounts:            r.TopAccounts,
	})
}

// ReportService builds aggregate reports over the whole bank
type ReportService struct {
	store *repository.Store
}

// NewReportService creates a new ReportService
func NewReportService(store *repository.Store) *ReportService {
	return &ReportService{store: store}
}

// GenerateBankReport computes total holdings, per-customer balances, the
// number of transactions within lookback and the topN richest accounts.
// The aggregates never take account guards, so ctx cannot interrupt them.
func (s *ReportService) GenerateBankReport(ctx context.Context, topN int, lookback time.Duration) (*Report, error) {
	if topN <= 0 {
		return nil, model.Invalid("top", model.ErrInvalidLimit)
	}
	if lookback < 0 {
		return nil, model.Invalid("lookback", model.ErrInvalidLookback)
	}

	report := &Report{GeneratedAt: s.store.Now(), Lookback: lookback}
	cutoff := report.GeneratedAt.Add(-lookback)

	var g errgroup.Group
	g.SetLimit(4)

	g.Go(func() error {
		report.TotalBalance = totalBalance(s.store.AllAccounts())
		return nil
	})
	g.Go(func() error {
		report.BalanceByCustomer = balanceByCustomer(s.store)
		return nil
	})
	g.Go(func() error {
		report.RecentTransactionCount = len(s.store.TransactionsSince(cutoff))
		return nil
	})
	g.Go(func() error {
		report.TopAccounts = topAccounts(s.store.AllAccounts(), topN)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func totalBalance(accounts []*model.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance())
	}
	return total
}

// balanceByCustomer sums balances per customer, ordered by customer id.
// Customers without accounts are left out.
func balanceByCustomer(store *repository.Store) []CustomerBalance {
	customers := store.AllCustomers()
	sort.Slice(customers, func(i, j int) bool {
		return bytes.Compare(customers[i].ID[:], customers[j].ID[:]) < 0
	})

	out := make([]CustomerBalance, 0, len(customers))
	for _, c := range customers {
		accounts := store.AccountsByCustomer(c.ID)
		if len(accounts) == 0 {
			continue
		}
		out = append(out, CustomerBalance{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Balance:      totalBalance(accounts),
		})
	}
	return out
}

// topAccounts returns the n largest balances, highest first. Equal balances
// keep account creation order.
func topAccounts(accounts []*model.Account, n int) []model.AccountSnapshot {
	snapshots := make([]model.AccountSnapshot, len(accounts))
	for i, a := range accounts {
		snapshots[i] = a.Snapshot()
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Balance.GreaterThan(snapshots[j].Balance)
	})

	if len(snapshots) > n {
		snapshots = snapshots[:n]
	}
	return snapshots
}
