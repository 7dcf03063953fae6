package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/simonkvalheim/fjord-ledger/internal/model"
	"github.com/simonkvalheim/fjord-ledger/internal/service"
)

// ReportHandler serves aggregate bank reports
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes sets up the report routes on the given router
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/bank", h.BankReport)
}

// BankReport handles GET /reports/bank?top=5&lookback=720h
func (h *ReportHandler) BankReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	topN := service.DefaultTopN
	if s := query.Get("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeDomainError(w, model.Invalid("top", model.ErrInvalidLimit))
			return
		}
		topN = n
	}

	lookback := service.DefaultLookback
	if s := query.Get("lookback"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			writeDomainError(w, &model.ValidationError{Field: "lookback", Message: "lookback must be a duration such as 24h", Err: err})
			return
		}
		lookback = d
	}

	report, err := h.reports.GenerateBankReport(r.Context(), topN, lookback)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
