package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simonkvalheim/fjord-ledger/internal/repository"
)

// CreateCustomerRequest is the payload for registering a customer
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,max=254"`
}

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	store *repository.Store
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(store *repository.Store) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// RegisterRoutes sets up the customer routes on the given router
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Get("/{id}/accounts", h.ListAccounts)
	})
}

// Create handles POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	customer, err := h.store.AddCustomer(req.Name, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

// List handles GET /customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.AllCustomers())
}

// GetByID handles GET /customers/{id}
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	customer, err := h.store.GetCustomer(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// ListAccounts handles GET /customers/{id}/accounts
func (h *CustomerHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	if _, err := h.store.GetCustomer(id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshots(h.store.AccountsByCustomer(id)))
}
