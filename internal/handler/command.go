package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simonkvalheim/fjord-ledger/internal/queue"
)

// CommandHandler reports the outcome of queued transfers and payments
type CommandHandler struct {
	publisher *queue.Publisher // nil when async processing is disabled
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(publisher *queue.Publisher) *CommandHandler {
	return &CommandHandler{publisher: publisher}
}

// RegisterRoutes sets up the command routes on the given router
func (h *CommandHandler) RegisterRoutes(r chi.Router) {
	r.Get("/commands/{id}", h.GetStatus)
}

// GetStatus handles GET /commands/{id}
func (h *CommandHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "command")
	if !ok {
		return
	}

	if h.publisher == nil {
		writeError(w, http.StatusNotFound, "Async processing is disabled")
		return
	}

	status, err := h.publisher.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, queue.ErrCommandNotFound) {
			writeError(w, http.StatusNotFound, "Command not found")
			return
		}
		log.Printf("Failed to read status of command %s: %v", id, err)
		writeError(w, http.StatusServiceUnavailable, "Failed to read command status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}
