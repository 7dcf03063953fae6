package repository

import (
	"sync"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
)

// Ledger is the bank's append-only transaction log. Readers see it
// newest first. Its lock is independent of every account guard.
type Ledger struct {
	mu      sync.RWMutex
	entries []model.Transaction // oldest first
}

// NewLedger creates an empty Ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records tx as the newest entry.
func (l *Ledger) Append(tx model.Transaction) {
	l.mu.Lock()
	l.entries = append(l.entries, tx)
	l.mu.Unlock()
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Recent returns up to n entries, newest first.
func (l *Ledger) Recent(n int) []model.Transaction {
	return l.collect(n, nil)
}

// Filter returns every entry matching keep, newest first.
func (l *Ledger) Filter(keep func(model.Transaction) bool) []model.Transaction {
	return l.collect(-1, keep)
}

// collect walks the log from the newest entry, stopping after limit matches
// when limit is non-negative.
func (l *Ledger) collect(limit int, keep func(model.Transaction) bool) []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	size := len(l.entries)
	if limit >= 0 && limit < size {
		size = limit
	}

	out := make([]model.Transaction, 0, size)
	for i := len(l.entries) - 1; i >= 0; i-- {
		if limit >= 0 && len(out) == limit {
			break
		}
		if keep == nil || keep(l.entries[i]) {
			out = append(out, l.entries[i])
		}
	}
	return out
}
