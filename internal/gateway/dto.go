package gateway

import "encoding/json"

// Payloads mirror the commerce API responses field-for-field. Numeric
// fields the backend has historically sent as either strings or numbers
// are decoded as json.Number and normalized by the consuming service.

type UserInfo struct {
	Name string `json:"name"`
}

type CatalogPayload struct {
	User     UserInfo         `json:"user"`
	Products []CatalogProduct `json:"products" validate:"dive"`
}

type CatalogProduct struct {
	ProductID     json.Number `json:"product_id" validate:"required"`
	Name          string      `json:"name" validate:"required"`
	Description   string      `json:"description"`
	Price         json.Number `json:"price"`
	StockQuantity *int        `json:"stock_quantity"`
	Stock         *int        `json:"stock"`
	Images        []string    `json:"images"`
}

type CartPayload struct {
	Username string   `json:"username"`
	Cart     CartBody `json:"cart"`
}

type CartBody struct {
	Products          []CartProduct `json:"products" validate:"dive"`
	OverallTotalPrice json.Number   `json:"overall_total_price"`
}

type CartProduct struct {
	ProductID     json.Number `json:"product_id" validate:"required"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	ImageURL      string      `json:"image_url"`
	Quantity      int         `json:"quantity" validate:"gt=0"`
	PricePerUnit  json.Number `json:"price_per_unit" validate:"required"`
	TotalPrice    json.Number `json:"total_price"`
	StockQuantity *int        `json:"stock_quantity"`
}

type OrdersPayload struct {
	Username string     `json:"username"`
	Products []OrderRow `json:"products" validate:"dive"`
}

// OrderRow is one product line of a past order; the endpoint returns a
// flat list grouped client-side by order id.
type OrderRow struct {
	OrderID    string      `json:"order_id" validate:"required"`
	ProductID  json.Number `json:"product_id" validate:"required"`
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"`
	TotalPrice json.Number `json:"total_price"`
	ImageURL   string      `json:"image_url"`
}

type cartMutationRequest struct {
	Username  string `json:"username"`
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type PaymentOrderRequest struct {
	TotalAmount string            `json:"totalAmount"`
	CartItems   []PaymentCartItem `json:"cartItems"`
}

type PaymentCartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type PaymentVerification struct {
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpaySignature string `json:"razorpaySignature"`
}
