package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/salessavvy/storefront/internal/cart"
	"github.com/salessavvy/storefront/internal/gateway"
	"github.com/salessavvy/storefront/internal/pricing"
	pkgerrors "github.com/salessavvy/storefront/pkg/errors"
	"github.com/salessavvy/storefront/pkg/logger"
)

type paymentBackend interface {
	CreatePaymentOrder(ctx context.Context, req gateway.PaymentOrderRequest) (string, error)
	VerifyPayment(ctx context.Context, req gateway.PaymentVerification) error
}

// Service drives the payment flow: register an order for the cart's
// current total, then confirm the provider's signature triple.
type Service struct {
	backend paymentBackend
	logg    *logger.Logger
}

func NewService(backend paymentBackend, logg *logger.Logger) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("payment backend required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{backend: backend, logg: logg}, nil
}

// Quote computes the price breakdown for the snapshot's subtotal.
func (s *Service) Quote(snapshot cart.Snapshot) pricing.Breakdown {
	return pricing.Compute(snapshot.Subtotal)
}

// CreateOrder registers a payment order for the cart and returns the
// provider's opaque order id. An empty cart is refused before any
// network call.
func (s *Service) CreateOrder(ctx context.Context, snapshot cart.Snapshot) (string, error) {
	if snapshot.Empty() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cannot check out an empty cart")
	}

	req := gateway.PaymentOrderRequest{
		TotalAmount: snapshot.Subtotal.StringFixed(2),
		CartItems:   make([]gateway.PaymentCartItem, 0, len(snapshot.Items)),
	}
	for _, item := range snapshot.Items {
		req.CartItems = append(req.CartItems, gateway.PaymentCartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.PricePerUnit.StringFixed(2),
		})
	}

	orderID, err := s.backend.CreatePaymentOrder(ctx, req)
	if err != nil {
		return "", err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID,
		"amount":   req.TotalAmount,
	}), "payment order created")
	return orderID, nil
}

// Confirm submits the provider's post-payment signature for verification.
func (s *Service) Confirm(ctx context.Context, orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id, payment id and signature are all required")
	}
	if err := s.backend.VerifyPayment(ctx, gateway.PaymentVerification{
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: signature,
	}); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", orderID), "payment verified")
	return nil
}

// AmountPaise converts a rupee amount to whole paise, the unit the
// payment provider bills in.
func AmountPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
