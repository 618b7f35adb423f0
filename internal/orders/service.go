package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/salessavvy/storefront/internal/gateway"
	pkgerrors "github.com/salessavvy/storefront/pkg/errors"
)

// Line is one product row of a past order.
type Line struct {
	ProductID  string
	Name       string
	Quantity   int
	TotalPrice decimal.Decimal
	ImageURL   string
}

// Order groups the lines purchased together.
type Order struct {
	OrderID string
	Lines   []Line
}

// Total sums the line totals of the order.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.TotalPrice)
	}
	return total
}

type ordersBackend interface {
	FetchOrders(ctx context.Context) (*gateway.OrdersPayload, error)
}

// Service loads and groups the user's order history.
type Service struct {
	backend ordersBackend
}

func NewService(backend ordersBackend) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("orders backend required")
	}
	return &Service{backend: backend}, nil
}

// History returns past orders, grouped by order id in first-seen order.
func (s *Service) History(ctx context.Context) ([]Order, error) {
	payload, err := s.backend.FetchOrders(ctx)
	if err != nil {
		return nil, err
	}
	return groupRows(payload.Products)
}

// groupRows folds the flat endpoint rows into per-order groups, keeping
// both order and line ordering as the server sent them.
func groupRows(rows []gateway.OrderRow) ([]Order, error) {
	grouped := make([]Order, 0)
	indexByID := make(map[string]int)
	for _, row := range rows {
		total := decimal.Zero
		if raw := row.TotalPrice.String(); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeServer, err, "unparseable total for order "+row.OrderID)
			}
			total = parsed
		}
		line := Line{
			ProductID:  row.ProductID.String(),
			Name:       row.Name,
			Quantity:   row.Quantity,
			TotalPrice: total.Round(2),
			ImageURL:   row.ImageURL,
		}
		if idx, ok := indexByID[row.OrderID]; ok {
			grouped[idx].Lines = append(grouped[idx].Lines, line)
			continue
		}
		indexByID[row.OrderID] = len(grouped)
		grouped = append(grouped, Order{OrderID: row.OrderID, Lines: []Line{line}})
	}
	return grouped, nil
}
