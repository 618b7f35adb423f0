package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/salessavvy/storefront/internal/gateway"
	pkgerrors "github.com/salessavvy/storefront/pkg/errors"
	"github.com/salessavvy/storefront/pkg/logger"
	"github.com/salessavvy/storefront/pkg/metrics"
)

// Mutation outcome labels.
const (
	outcomeUpdated  = "updated"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
	outcomeConflict = "conflict"
)

type cartBackend interface {
	FetchCart(ctx context.Context, username string) (*gateway.CartPayload, error)
	AddCartItem(ctx context.Context, username, productID string) error
	UpdateCartItem(ctx context.Context, username, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, username, productID string) error
}

type stockLookup interface {
	Available(productID string) (int, bool)
}

// Service keeps the reconciled client view of the server cart. Every
// mutation either fully succeeds and yields a new snapshot, or fails and
// leaves the prior snapshot untouched.
type Service interface {
	Load(ctx context.Context, username string) (Snapshot, error)
	Current() Snapshot
	ReplaceStock(lookup stockLookup)
	Add(ctx context.Context, username, productID string) (Snapshot, error)
	SetQuantity(ctx context.Context, username, productID string, quantity int) (Snapshot, error)
	Remove(ctx context.Context, username, productID string) (Snapshot, error)
}

type service struct {
	backend cartBackend
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics

	mu       sync.Mutex
	stock    stockLookup
	snapshot Snapshot
	inFlight map[string]struct{}
}

// ServiceParams bundles the cart service dependencies. Stock, Logger and
// Metrics are optional.
type ServiceParams struct {
	Backend cartBackend
	Stock   stockLookup
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// NewService builds a cart service backed by the commerce gateway.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("cart backend required")
	}
	return &service{
		backend:  params.Backend,
		logg:     params.Logger,
		metrics:  params.Metrics,
		stock:    params.Stock,
		inFlight: map[string]struct{}{},
	}, nil
}

// Load replaces the snapshot with the server cart.
func (s *service) Load(ctx context.Context, username string) (Snapshot, error) {
	payload, err := s.backend.FetchCart(ctx, username)
	if err != nil {
		return s.Current(), err
	}
	snapshot, err := snapshotFromPayload(payload)
	if err != nil {
		return s.Current(), err
	}
	s.replace(snapshot)
	return snapshot.clone(), nil
}

// Current returns a copy of the latest reconciled snapshot.
func (s *service) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.clone()
}

// ReplaceStock swaps in the ledger built from the latest catalog fetch.
func (s *service) ReplaceStock(lookup stockLookup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = lookup
}

// Add puts one unit of the product in the cart, then reloads the whole
// snapshot so prices and quantities match server truth.
func (s *service) Add(ctx context.Context, username, productID string) (Snapshot, error) {
	if err := s.acquire(productID); err != nil {
		s.metrics.IncCartMutation("add", outcomeConflict)
		return s.Current(), err
	}
	defer s.release(productID)

	if err := s.backend.AddCartItem(ctx, username, productID); err != nil {
		s.metrics.IncCartMutation("add", outcomeFailed)
		return s.Current(), err
	}

	snapshot, err := s.Load(ctx, username)
	if err != nil {
		// The add itself succeeded; the stale snapshot stays until the
		// next successful load.
		s.warn(ctx, "cart reload after add failed", err)
		s.metrics.IncCartMutation("add", outcomeFailed)
		return s.Current(), err
	}
	s.metrics.IncCartMutation("add", outcomeUpdated)
	return snapshot, nil
}

// SetQuantity sets the absolute quantity for a cart line. A non-positive
// quantity removes the line. Requests above the effective stock limit are
// rejected before any network call.
func (s *service) SetQuantity(ctx context.Context, username, productID string, quantity int) (Snapshot, error) {
	if quantity <= 0 {
		return s.Remove(ctx, username, productID)
	}

	if err := s.acquire(productID); err != nil {
		s.metrics.IncCartMutation("set_quantity", outcomeConflict)
		return s.Current(), err
	}
	defer s.release(productID)

	snapshot := s.Current()
	item, ok := snapshot.Item(productID)
	if !ok {
		s.metrics.IncCartMutation("set_quantity", outcomeFailed)
		return snapshot, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	if limit := s.effectiveLimit(item); limit > 0 && quantity > limit {
		s.metrics.IncCartMutation("set_quantity", outcomeRejected)
		return snapshot, pkgerrors.New(pkgerrors.CodeStockLimit,
			fmt.Sprintf("only %d available", limit)).
			WithDetails(map[string]any{"limit": limit})
	}

	if err := s.backend.UpdateCartItem(ctx, username, productID, quantity); err != nil {
		s.metrics.IncCartMutation("set_quantity", outcomeFailed)
		return snapshot, err
	}

	next := snapshot.clone()
	subtotal := next.Subtotal
	for i, line := range next.Items {
		if line.ProductID != productID {
			continue
		}
		subtotal = subtotal.Sub(line.TotalPrice)
		line.Quantity = quantity
		line.TotalPrice = lineTotal(line.PricePerUnit, quantity)
		subtotal = subtotal.Add(line.TotalPrice)
		next.Items[i] = line
	}
	next.Subtotal = subtotal
	s.replace(next)
	s.metrics.IncCartMutation("set_quantity", outcomeUpdated)
	return next.clone(), nil
}

// Remove deletes a cart line.
func (s *service) Remove(ctx context.Context, username, productID string) (Snapshot, error) {
	if err := s.acquire(productID); err != nil {
		s.metrics.IncCartMutation("remove", outcomeConflict)
		return s.Current(), err
	}
	defer s.release(productID)

	if err := s.backend.RemoveCartItem(ctx, username, productID); err != nil {
		s.metrics.IncCartMutation("remove", outcomeFailed)
		return s.Current(), err
	}

	snapshot := s.Current()
	next := Snapshot{Username: snapshot.Username, Items: make([]Item, 0, len(snapshot.Items))}
	for _, item := range snapshot.Items {
		if item.ProductID == productID {
			continue
		}
		next.Items = append(next.Items, item)
		next.Subtotal = next.Subtotal.Add(item.TotalPrice)
	}
	s.replace(next)
	s.metrics.IncCartMutation("remove", outcomeUpdated)
	return next.clone(), nil
}

// effectiveLimit resolves the stock cap for an item: the current ledger
// first, the quantity snapshotted on the cart line second, zero (no cap)
// otherwise.
func (s *service) effectiveLimit(item Item) int {
	s.mu.Lock()
	lookup := s.stock
	s.mu.Unlock()
	if lookup != nil {
		if available, ok := lookup.Available(item.ProductID); ok {
			return available
		}
	}
	if item.StockQuantity != nil {
		return *item.StockQuantity
	}
	return 0
}

// acquire marks a product as having a mutation in flight. A second
// mutation on the same product before the first resolves is refused
// rather than racing the backend.
func (s *service) acquire(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[productID]; busy {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "another update for this product is in flight").
			WithDetails(map[string]any{"product_id": productID})
	}
	s.inFlight[productID] = struct{}{}
	return nil
}

func (s *service) release(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, productID)
}

func (s *service) replace(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(ctx, fmt.Sprintf("%s: %v", msg, err))
}
