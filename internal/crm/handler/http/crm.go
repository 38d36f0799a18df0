package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/owltechengineer/ecoceo-sub006/internal/crm/service"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httputil"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
	"github.com/owltechengineer/ecoceo-sub006/pkg/validator"
)

// CRMHandler serves campaign and lead endpoints for the back office.
type CRMHandler struct {
	service *service.CRMService
	logger  *slog.Logger
}

func NewCRMHandler(svc *service.CRMService, logger *slog.Logger) *CRMHandler {
	return &CRMHandler{service: svc, logger: logger}
}

// RegisterRoutes mounts the CRM routes.
func (h *CRMHandler) RegisterRoutes(r chi.Router) {
	r.Route("/crm", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", h.ListCampaigns)
			r.Post("/", h.CreateCampaign)
			r.Get("/{campaignID}", h.GetCampaign)
			r.Put("/{campaignID}/status", h.UpdateCampaignStatus)
			r.Delete("/{campaignID}", h.DeleteCampaign)
		})
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.ListLeads)
			r.Post("/", h.CreateLead)
			r.Get("/{leadID}", h.GetLead)
			r.Put("/{leadID}/status", h.UpdateLeadStatus)
			r.Delete("/{leadID}", h.DeleteLead)
		})
	})
}

type createCampaignRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Channel      string `json:"channel" validate:"required"`
	BudgetAmount int64  `json:"budget_amount" validate:"gte=0"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *CRMHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid start date"), h.logger)
		return
	}

	in := service.CreateCampaignInput{
		Name:         req.Name,
		Channel:      req.Channel,
		BudgetAmount: req.BudgetAmount,
		StartDate:    start,
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid end date"), h.logger)
			return
		}
		in.EndDate = &end
	}

	campaign, err := h.service.CreateCampaign(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: campaign})
}

func (h *CRMHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "campaignID"))
	if !ok {
		return
	}

	campaign, err := h.service.GetCampaign(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: campaign})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

func (h *CRMHandler) UpdateCampaignStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "campaignID"))
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	campaign, err := h.service.UpdateCampaignStatus(r.Context(), id, req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: campaign})
}

func (h *CRMHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "campaignID"))
	if !ok {
		return
	}

	if err := h.service.DeleteCampaign(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CRMHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	campaigns, total, err := h.service.ListCampaigns(r.Context(), r.URL.Query().Get("status"), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(campaigns, int(total), params),
	})
}

type createLeadRequest struct {
	CampaignID string `json:"campaign_id" validate:"omitempty,uuid"`
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Source     string `json:"source" validate:"max=100"`
	Note       string `json:"note" validate:"max=2000"`
}

func (h *CRMHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	in := service.CreateLeadInput{
		Name:   req.Name,
		Email:  req.Email,
		Source: req.Source,
		Note:   req.Note,
	}
	if req.CampaignID != "" {
		id, err := uuid.Parse(req.CampaignID)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid campaign id"), h.logger)
			return
		}
		in.CampaignID = &id
	}

	lead, err := h.service.CreateLead(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: lead})
}

func (h *CRMHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "leadID"))
	if !ok {
		return
	}

	lead, err := h.service.GetLead(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: lead})
}

func (h *CRMHandler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "leadID"))
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	lead, err := h.service.UpdateLeadStatus(r.Context(), id, req.Status, req.Note)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: lead})
}

func (h *CRMHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "leadID"))
	if !ok {
		return
	}

	if err := h.service.DeleteLead(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CRMHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	var campaignID *uuid.UUID
	if raw := r.URL.Query().Get("campaign_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid campaign id"), h.logger)
			return
		}
		campaignID = &id
	}

	leads, total, err := h.service.ListLeads(r.Context(), r.URL.Query().Get("status"), campaignID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(leads, int(total), params),
	})
}
