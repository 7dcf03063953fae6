package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/processor"
	"github.com/simonkvalheim/fjord-ledger/internal/queue"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
	"github.com/simonkvalheim/fjord-ledger/internal/service"
)

// TransferHandler handles HTTP requests for transfers, payments and the
// transaction log
type TransferHandler struct {
	store     *repository.Store
	processor *processor.TransferProcessor
	payments  *service.PaymentService
	publisher *queue.Publisher // Optional: if set, uses async processing
}

// NewTransferHandler creates a new TransferHandler
// If publisher is nil, transfers and payments run synchronously
// If publisher is provided, they are queued for the worker
func NewTransferHandler(store *repository.Store, proc *processor.TransferProcessor, payments *service.PaymentService, publisher *queue.Publisher) *TransferHandler {
	return &TransferHandler{
		store:     store,
		processor: proc,
		payments:  payments,
		publisher: publisher,
	}
}

// RegisterRoutes sets up the transfer routes on the given router
func (h *TransferHandler) RegisterRoutes(r chi.Router) {
	r.Post("/transfers", h.CreateTransfer)
	r.Post("/payments", h.CreatePayment)
	r.Get("/transactions", h.ListTransactions)
}

// CreateTransfer handles POST /transfers
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTransferRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	fromID, ok := parseBodyID(w, "from_account_id", req.FromAccountID)
	if !ok {
		return
	}
	toID, ok := parseBodyID(w, "to_account_id", req.ToAccountID)
	if !ok {
		return
	}
	// Validate already checked the amount.
	amount, _ := model.ParsePositiveAmount(req.Amount)

	if h.publisher != nil {
		// Reject unknown accounts up front; funds are checked by the worker.
		for _, id := range []uuid.UUID{fromID, toID} {
			if _, err := h.store.GetAccount(id); err != nil {
				writeDomainError(w, err)
				return
			}
		}

		cmd, err := h.publisher.PublishTransfer(r.Context(), fromID, toID, amount, req.Description)
		if err != nil {
			log.Printf("Failed to publish transfer to queue: %v", err)
			writeError(w, http.StatusServiceUnavailable, "Failed to queue transfer")
			return
		}

		writeJSON(w, http.StatusAccepted, model.TransferResponse{
			CommandID: cmd.ID,
			Status:    string(queue.CommandStatePending),
			CreatedAt: cmd.PublishedAt,
		})
		return
	}

	tx, err := h.processor.Transfer(r.Context(), fromID, toID, amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// CreatePayment handles POST /payments
func (h *TransferHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePaymentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	fromID, ok := parseBodyID(w, "from_account_id", req.FromAccountID)
	if !ok {
		return
	}
	amount, err := model.ParsePositiveAmount(req.Amount)
	if err != nil {
		writeDomainError(w, model.Invalid("amount", err))
		return
	}

	if h.publisher != nil {
		if _, err := h.store.GetAccount(fromID); err != nil {
			writeDomainError(w, err)
			return
		}

		cmd, err := h.publisher.PublishPayment(r.Context(), fromID, amount, req.Description)
		if err != nil {
			log.Printf("Failed to publish payment to queue: %v", err)
			writeError(w, http.StatusServiceUnavailable, "Failed to queue payment")
			return
		}

		writeJSON(w, http.StatusAccepted, model.TransferResponse{
			CommandID: cmd.ID,
			Status:    string(queue.CommandStatePending),
			CreatedAt: cmd.PublishedAt,
		})
		return
	}

	tx, err := h.payments.Pay(r.Context(), fromID, amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// ListTransactions handles GET /transactions
// ?limit=N returns the N newest, ?since=RFC3339 those stamped after the
// given time, otherwise the whole log. Results are always newest first.
func (h *TransferHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var since *time.Time
	if s := query.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeDomainError(w, &model.ValidationError{Field: "since", Message: "since must be an RFC3339 timestamp", Err: err})
			return
		}
		since = &t
	}

	limit, hasLimit := 0, false
	if s := query.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeDomainError(w, model.Invalid("limit", model.ErrInvalidLimit))
			return
		}
		limit, hasLimit = n, true
	}

	var txs []model.Transaction
	switch {
	case since != nil:
		txs = h.store.TransactionsSince(*since)
		if hasLimit && len(txs) > limit {
			txs = txs[:limit]
		}
	case hasLimit:
		var err error
		txs, err = h.store.RecentTransactions(limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	default:
		txs = h.store.AllTransactions()
	}

	writeJSON(w, http.StatusOK, txs)
}

func parseBodyID(w http.ResponseWriter, field, value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		writeDomainError(w, &model.ValidationError{Field: field, Message: "invalid account id", Err: err})
		return uuid.Nil, false
	}
	return id, true
}
