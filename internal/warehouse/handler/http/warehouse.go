package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/warehouse/service"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httputil"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
	"github.com/owltechengineer/ecoceo-sub006/pkg/validator"
)

// WarehouseHandler serves the stock endpoints for the back office.
type WarehouseHandler struct {
	service *service.WarehouseService
	logger  *slog.Logger
}

func NewWarehouseHandler(svc *service.WarehouseService, logger *slog.Logger) *WarehouseHandler {
	return &WarehouseHandler{service: svc, logger: logger}
}

// RegisterRoutes mounts the warehouse routes.
func (h *WarehouseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/warehouse/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		r.Get("/{itemID}", h.GetItem)
		r.Put("/{itemID}", h.UpdateItem)
		r.Post("/{itemID}/adjust", h.Adjust)
		r.Get("/{itemID}/movements", h.ListMovements)
	})
}

type createItemRequest struct {
	SKU      string `json:"sku" validate:"required,max=64"`
	Name     string `json:"name" validate:"required,max=200"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	UnitCost int64  `json:"unit_cost" validate:"gte=0"`
	Location string `json:"location" validate:"max=100"`
}

func (h *WarehouseHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.service.CreateItem(r.Context(), service.CreateItemInput{
		SKU:      req.SKU,
		Name:     req.Name,
		Quantity: req.Quantity,
		UnitCost: req.UnitCost,
		Location: req.Location,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: item})
}

func (h *WarehouseHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

type updateItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	UnitCost int64  `json:"unit_cost" validate:"gte=0"`
	Location string `json:"location" validate:"max=100"`
}

func (h *WarehouseHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}

	var req updateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, service.UpdateItemInput{
		Name:     req.Name,
		UnitCost: req.UnitCost,
		Location: req.Location,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

func (h *WarehouseHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	items, total, err := h.service.ListItems(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(items, int(total), params),
	})
}

type adjustRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

func (h *WarehouseHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}

	var req adjustRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.service.Adjust(r.Context(), id, req.Delta, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

func (h *WarehouseHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}

	params := pagination.FromRequest(r)
	movements, total, err := h.service.ListMovements(r.Context(), id, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(movements, int(total), params),
	})
}
