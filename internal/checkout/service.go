// Package checkout turns the current cart into a placed order.
package checkout

import (
	"context"
	"log/slog"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
	"github.com/jewelapp/jewel-client/internal/notify"
	"github.com/jewelapp/jewel-client/internal/remote"
	"github.com/jewelapp/jewel-client/internal/validation"
)

// CartSource provides the cart being checked out and clears it after
// the order is accepted. The sync coordinator implements this.
type CartSource interface {
	Cart(ctx context.Context) (domain.Cart, domain.SyncState)
	ClearCart(ctx context.Context) error
}

// IdentityResolver reports the identity to place the order under.
type IdentityResolver interface {
	Resolve(ctx context.Context) (domain.UserIdentity, bool)
}

// OrderBackend places orders and reads history.
type OrderBackend interface {
	Place(ctx context.Context, identity domain.UserIdentity, req remote.PlaceOrderRequest) (*domain.Order, error)
	History(ctx context.Context, identity domain.UserIdentity) ([]domain.Order, error)
}

// Emitter receives order events.
type Emitter interface {
	Emit(event notify.Event)
}

// Service handles checkout and order history.
type Service struct {
	carts     CartSource
	resolver  IdentityResolver
	orders    OrderBackend
	validator *validation.Validator
	emitter   Emitter
	logger    *slog.Logger
}

// NewService creates a checkout service.
func NewService(carts CartSource, resolver IdentityResolver, orders OrderBackend, validator *validation.Validator, emitter Emitter, logger *slog.Logger) *Service {
	return &Service{
		carts:     carts,
		resolver:  resolver,
		orders:    orders,
		validator: validator,
		emitter:   emitter,
		logger:    logger,
	}
}

// PlaceOrder submits the current cart as an order. Checkout is the one
// flow that genuinely needs the backend: there is no offline order, so
// unlike list mutations the remote failure here reaches the caller and
// the cart stays untouched.
func (s *Service) PlaceOrder(ctx context.Context, shipping domain.ShippingDetails) (*domain.Order, error) {
	if err := s.validator.Validate(shipping); err != nil {
		return nil, err
	}

	identity, ok := s.resolver.Resolve(ctx)
	if !ok {
		return nil, errs.IdentityUnresolved("login is required to place an order")
	}

	cart, _ := s.carts.Cart(ctx)
	if len(cart) == 0 {
		return nil, errs.Validation("cart is empty")
	}

	order, err := s.orders.Place(ctx, identity, remote.PlaceOrderRequest{
		Items:    cart,
		Shipping: shipping,
		Total:    cart.Subtotal(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.ClearCart(ctx); err != nil {
		s.logger.Warn("clearing cart after checkout failed", "order_id", order.ID, "error", err)
	}

	s.logger.Info("order placed", "order_id", order.ID, "items", len(order.Items))
	s.emitter.Emit(notify.NewEvent(notify.EventOrderPlaced, notify.OrderEventData{
		Order: order,
	}))
	return order, nil
}

// History returns the user's past orders.
func (s *Service) History(ctx context.Context) ([]domain.Order, error) {
	identity, ok := s.resolver.Resolve(ctx)
	if !ok {
		return nil, errs.IdentityUnresolved("login is required to view orders")
	}
	return s.orders.History(ctx, identity)
}
