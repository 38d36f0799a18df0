package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/cart/domain"
	"github.com/owltechengineer/ecoceo-sub006/internal/cart/service"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httputil"
	"github.com/owltechengineer/ecoceo-sub006/pkg/logger"
	"github.com/owltechengineer/ecoceo-sub006/pkg/validator"
)

// SessionHeader carries the anonymous storefront session id.
const SessionHeader = "X-Session-ID"

type sessionKey struct{}

// RequireSession rejects requests without a session header. Every cart
// endpoint is scoped to a session; there is no anonymous fallback.
func RequireSession(fallback *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing "+SessionHeader+" header"), fallback)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, sessionID)
			ctx = logger.WithSessionID(ctx, sessionID)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("session_id", sessionID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionKey{}).(string)
	return sessionID
}

// CartHandler serves the cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// RegisterRoutes mounts the cart routes on the given router.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(RequireSession(h.logger))

		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.UpdateItem)
		r.Delete("/items/{productID}", h.RemoveItem)
		r.Get("/items/{productID}/quantity", h.ItemQuantity)
	})
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type cartItemResponse struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice int64   `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal int64   `json:"line_total"`
	ImageURL  string  `json:"image_url,omitempty"`
	UnitMajor float64 `json:"unit_price_major"`
}

type cartResponse struct {
	ID          string             `json:"id"`
	SessionID   string             `json:"session_id"`
	Items       []cartItemResponse `json:"items"`
	Currency    string             `json:"currency"`
	TotalAmount int64              `json:"total_amount"`
	Total       float64            `json:"total"`
	ItemCount   int                `json:"item_count"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toCartResponse(cart *domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for i := range cart.Items {
		item := cart.Items[i]
		items = append(items, cartItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
			ImageURL:  item.ImageURL,
			UnitMajor: float64(item.UnitPrice) / 100,
		})
	}

	return cartResponse{
		ID:          cart.ID,
		SessionID:   cart.SessionID,
		Items:       items,
		Currency:    cart.Currency,
		TotalAmount: cart.TotalAmount(),
		Total:       cart.TotalMajor(),
		ItemCount:   cart.ItemCount(),
		UpdatedAt:   cart.UpdatedAt,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(cart)})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), sessionFromContext(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(cart)})
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateItemQuantity(r.Context(), sessionFromContext(r.Context()), chi.URLParam(r, "productID"), *req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(cart)})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.RemoveItem(r.Context(), sessionFromContext(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(cart)})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context(), sessionFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ItemQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	qty, err := h.service.ItemQuantity(r.Context(), sessionFromContext(r.Context()), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"product_id": productID,
		"quantity":   qty,
	}})
}
