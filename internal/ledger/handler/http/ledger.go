package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/ledger/service"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httputil"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
	"github.com/owltechengineer/ecoceo-sub006/pkg/validator"
)

const dateLayout = "2006-01-02"

// LedgerHandler serves the bookkeeping endpoints for the back office.
type LedgerHandler struct {
	service *service.LedgerService
	logger  *slog.Logger
}

func NewLedgerHandler(svc *service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{service: svc, logger: logger}
}

// RegisterRoutes mounts the ledger routes.
func (h *LedgerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/ledger", func(r chi.Router) {
		r.Get("/entries", h.ListEntries)
		r.Post("/entries", h.CreateEntry)
		r.Get("/entries/{entryID}", h.GetEntry)
		r.Delete("/entries/{entryID}", h.DeleteEntry)
		r.Get("/summary", h.Summary)
	})
}

type createEntryRequest struct {
	Direction  string `json:"direction" validate:"required,oneof=income expense"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	Category   string `json:"category" validate:"required,max=100"`
	Note       string `json:"note" validate:"max=2000"`
	OccurredAt string `json:"occurred_at" validate:"omitempty,datetime=2006-01-02"`
}

func (h *LedgerHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	in := service.CreateEntryInput{
		Direction: req.Direction,
		Amount:    req.Amount,
		Category:  req.Category,
		Note:      req.Note,
	}
	if req.OccurredAt != "" {
		occurred, err := time.Parse(dateLayout, req.OccurredAt)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid occurred_at date"), h.logger)
			return
		}
		in.OccurredAt = occurred
	}

	entry, err := h.service.CreateEntry(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: entry})
}

func (h *LedgerHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "entryID"))
	if !ok {
		return
	}

	entry, err := h.service.GetEntry(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entry})
}

func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "entryID"))
	if !ok {
		return
	}

	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// period parses the from/to query params, defaulting to the current month.
func period(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid from date")
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid to date")
		}
		to = parsed
	}
	return from, to, nil
}

func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	from, to, err := period(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	params := pagination.FromRequest(r)
	entries, total, err := h.service.ListEntries(r.Context(),
		r.URL.Query().Get("direction"), r.URL.Query().Get("category"), from, to, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(entries, int(total), params),
	})
}

func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := period(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	summary, err := h.service.Summarize(r.Context(), from, to)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
