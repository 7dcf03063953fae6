package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
	"github.com/simonkvalheim/fjord-ledger/internal/service"
)

// AccountHandler handles HTTP requests for accounts
type AccountHandler struct {
	store    *repository.Store
	accounts *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(store *repository.Store, accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{store: store, accounts: accounts}
}

// RegisterRoutes sets up the account routes on the given router
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Get("/{id}/transactions", h.ListTransactions)
		r.Post("/{id}/deposit", h.Deposit)
		r.Post("/{id}/withdraw", h.Withdraw)
	})
}

// Create handles POST /accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	customerID, accountType, initial, err := req.Parse()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), customerID, accountType, initial)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account.Snapshot())
}

// List handles GET /accounts
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshots(h.store.AllAccounts()))
}

// GetByID handles GET /accounts/{id}
func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "account")
	if !ok {
		return
	}

	account, err := h.store.GetAccount(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account.Snapshot())
}

// ListTransactions handles GET /accounts/{id}/transactions
func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "account")
	if !ok {
		return
	}

	if _, err := h.store.GetAccount(id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.store.TransactionsByAccount(id))
}

// Deposit handles POST /accounts/{id}/deposit
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.accounts.Deposit)
}

// Withdraw handles POST /accounts/{id}/withdraw
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.accounts.Withdraw)
}

func (h *AccountHandler) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID, amount decimal.Decimal, description string) (model.Transaction, error)) {
	id, ok := pathID(w, r, "account")
	if !ok {
		return
	}

	var req model.AmountRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	amount, err := model.ParsePositiveAmount(req.Amount)
	if err != nil {
		writeDomainError(w, model.Invalid("amount", err))
		return
	}

	tx, err := op(r.Context(), id, amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}
