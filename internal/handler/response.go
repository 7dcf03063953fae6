package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type errorResponse struct {
	Error   string       `json:"error"`
	Field   string       `json:"field,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps ledger errors onto HTTP status codes
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	var notFoundErr *model.NotFoundError
	var concurrencyErr *model.ConcurrencyError

	switch {
	case errors.As(err, &validationErr):
		status := http.StatusBadRequest
		if errors.Is(err, model.ErrInsufficientFunds) {
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: validationErr.Message, Field: validationErr.Field})
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &concurrencyErr):
		writeError(w, http.StatusServiceUnavailable, "Account is busy, please retry")
	default:
		log.Printf("Unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeRequest reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and returns false on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	err := validate.Struct(dst)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return false
	}

	details := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, FieldError{
			Field:   fe.Field(),
			Message: fieldErrorMessage(fe),
			Type:    fe.Tag(),
		})
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request data", Details: details})
	return false
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Must be a valid UUID"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}

// pathID parses the {id} URL parameter
func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

func snapshots(accounts []*model.Account) []model.AccountSnapshot {
	out := make([]model.AccountSnapshot, len(accounts))
	for i, a := range accounts {
		out[i] = a.Snapshot()
	}
	return out
}
