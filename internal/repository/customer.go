package repository

import (
	"strings"

	"github.com/google/uuid"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
)

// AddCustomer validates and registers a new customer.
func (s *Store) AddCustomer(name, email string) (*model.Customer, error) {
	customer, err := model.NewCustomer(name, email, s.Now())
	if err != nil {
		return nil, err
	}

	s.customers.put(customer.ID, customer)
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *Store) GetCustomer(id uuid.UUID) (*model.Customer, error) {
	customer, ok := s.customers.get(id)
	if !ok {
		return nil, model.CustomerNotFound(id)
	}
	return customer, nil
}

// AllCustomers returns every customer in registration order.
func (s *Store) AllCustomers() []*model.Customer {
	return s.customers.filter(nil)
}

// FindCustomerByEmail looks a customer up by email, ignoring case.
func (s *Store) FindCustomerByEmail(email string) (*model.Customer, error) {
	email = strings.TrimSpace(email)

	customer, ok := s.customers.find(func(c *model.Customer) bool {
		return strings.EqualFold(c.Email, email)
	})
	if !ok {
		return nil, &model.NotFoundError{Resource: "customer", ID: email, Err: model.ErrCustomerNotFound}
	}
	return customer, nil
}
