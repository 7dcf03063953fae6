package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
)

// Store holds every customer, account and transaction of the bank in memory.
// All methods are safe for concurrent use; none of them take account guards.
type Store struct {
	customers *orderedIndex[uuid.UUID, *model.Customer]
	accounts  *orderedIndex[uuid.UUID, *model.Account]
	ledger    *Ledger

	clock func() time.Time
	zone  *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithBusinessZone sets the zone used to derive business dates.
func WithBusinessZone(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.zone = loc
		}
	}
}

// NewStore creates an empty Store
func NewStore(opts ...Option) *Store {
	s := &Store{
		customers: newOrderedIndex[uuid.UUID, *model.Customer](),
		accounts:  newOrderedIndex[uuid.UUID, *model.Account](),
		ledger:    NewLedger(),
		clock:     time.Now,
		zone:      time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time according to the store clock.
func (s *Store) Now() time.Time {
	return s.clock()
}

// BusinessZone returns the zone business dates are computed in.
func (s *Store) BusinessZone() *time.Location {
	return s.zone
}

// Stats counts the entities held by the store.
type Stats struct {
	Customers    int `json:"customers"`
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
}

// Stats returns the current entity counts.
func (s *Store) Stats() Stats {
	return Stats{
		Customers:    s.customers.len(),
		Accounts:     s.accounts.len(),
		Transactions: s.ledger.Len(),
	}
}
