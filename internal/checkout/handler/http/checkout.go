package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	carthttp "github.com/owltechengineer/ecoceo-sub006/internal/cart/handler/http"
	"github.com/owltechengineer/ecoceo-sub006/internal/checkout/service"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httputil"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
	"github.com/owltechengineer/ecoceo-sub006/pkg/validator"
)

// CheckoutHandler serves checkout and order endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: svc, logger: logger}
}

// RegisterRoutes mounts checkout routes. Placing and listing orders is
// session-scoped; fetching and refunding a single order by id is not, so the
// back office can operate on any order.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(carthttp.RequireSession(h.logger))
		r.Post("/checkout", h.PlaceOrder)
		r.Get("/orders", h.ListOrders)
	})

	r.Get("/orders/{orderID}", h.GetOrder)
	r.Post("/orders/{orderID}/refund", h.RefundOrder)
}

type placeOrderRequest struct {
	Email         string `json:"email" validate:"required,email"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sessionID := r.Header.Get(carthttp.SessionHeader)
	order, err := h.service.PlaceOrder(r.Context(), sessionID, req.Email, req.PaymentMethod)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(carthttp.SessionHeader)
	if sessionID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("missing "+carthttp.SessionHeader+" header"), h.logger)
		return
	}

	params := pagination.FromRequest(r)
	orders, total, err := h.service.ListOrders(r.Context(), sessionID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(orders, int(total), params),
	})
}

func (h *CheckoutHandler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "orderID"))
	if !ok {
		return
	}

	order, err := h.service.RefundOrder(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
