package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/owltechengineer/ecoceo-sub006/internal/cart/domain"
	"github.com/owltechengineer/ecoceo-sub006/internal/checkout/domain"
	"github.com/owltechengineer/ecoceo-sub006/internal/checkout/provider"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

// OrderRepository is the persistence surface checkout needs.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, paymentRef, failureReason string) error
	ListBySession(ctx context.Context, sessionID string, params pagination.Params) ([]*domain.Order, int64, error)
}

// CartSource exposes the cart operations checkout needs. Satisfied by the
// cart service.
type CartSource interface {
	GetCart(ctx context.Context, sessionID string) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order)
	PaymentCaptured(ctx context.Context, order *domain.Order)
	PaymentFailed(ctx context.Context, order *domain.Order, reason string)
	PaymentRefunded(ctx context.Context, order *domain.Order)
}

// CheckoutService turns carts into orders and drives payment capture.
type CheckoutService struct {
	orders   OrderRepository
	carts    CartSource
	provider provider.Provider
	events   EventPublisher
	logger   *slog.Logger
}

func NewCheckoutService(orders OrderRepository, carts CartSource, p provider.Provider, events EventPublisher, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		carts:    carts,
		provider: p,
		events:   events,
		logger:   logger,
	}
}

// PlaceOrder freezes the session's cart into an order and captures payment.
// The order row is written before the charge so a failed payment leaves an
// auditable failed order behind. On success the cart is cleared best-effort.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID, email, paymentMethod string) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New(),
		SessionID:     sessionID,
		CustomerEmail: email,
		Items:         make([]domain.OrderItem, 0, len(cart.Items)),
		TotalAmount:   cart.TotalAmount(),
		Currency:      cart.Currency,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range cart.Items {
		item := cart.Items[i]
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.events.OrderPlaced(ctx, order)

	result, err := s.provider.Charge(ctx, &provider.ChargeInput{
		OrderID:       order.ID.String(),
		Amount:        order.TotalAmount,
		Currency:      order.Currency,
		CustomerEmail: email,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		order.Status = domain.OrderStatusFailed
		order.FailureReason = err.Error()
		if updateErr := s.orders.UpdateStatus(ctx, order.ID, order.Status, "", order.FailureReason); updateErr != nil {
			s.logger.ErrorContext(ctx, "failed to record payment failure",
				slog.String("order_id", order.ID.String()),
				slog.String("error", updateErr.Error()),
			)
		}
		s.events.PaymentFailed(ctx, order, err.Error())
		return nil, apperrors.PaymentFailed("payment was declined")
	}

	order.Status = domain.OrderStatusPaid
	order.PaymentRef = result.Reference
	if err := s.orders.UpdateStatus(ctx, order.ID, order.Status, order.PaymentRef, ""); err != nil {
		return nil, err
	}
	s.events.PaymentCaptured(ctx, order)

	if err := s.carts.ClearCart(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID.String()),
		slog.Int64("total_amount", order.TotalAmount),
		slog.String("provider", s.provider.Name()),
	)
	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *CheckoutService) ListOrders(ctx context.Context, sessionID string, params pagination.Params) ([]*domain.Order, int64, error) {
	if sessionID == "" {
		return nil, 0, apperrors.InvalidInput("session id is required")
	}
	return s.orders.ListBySession(ctx, sessionID, params)
}

// RefundOrder refunds a paid order in full.
func (s *CheckoutService) RefundOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanRefund() {
		return nil, apperrors.Conflict("only paid orders can be refunded")
	}

	if err := s.provider.Refund(ctx, order.PaymentRef, order.TotalAmount); err != nil {
		return nil, apperrors.Wrap(err, "refund failed")
	}

	order.Status = domain.OrderStatusRefunded
	order.UpdatedAt = time.Now().UTC()
	if err := s.orders.UpdateStatus(ctx, order.ID, order.Status, order.PaymentRef, ""); err != nil {
		return nil, err
	}
	s.events.PaymentRefunded(ctx, order)

	s.logger.InfoContext(ctx, "order refunded", slog.String("order_id", order.ID.String()))
	return order, nil
}
