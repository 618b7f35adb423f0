package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/salessavvy/storefront/pkg/config"
	pkgerrors "github.com/salessavvy/storefront/pkg/errors"
	"github.com/salessavvy/storefront/pkg/logger"
	"github.com/salessavvy/storefront/pkg/metrics"
)

// Operation labels used for logging and metrics.
const (
	opFetchCatalog       = "fetch_catalog"
	opFetchCart          = "fetch_cart"
	opAddCartItem        = "add_cart_item"
	opUpdateCartItem     = "update_cart_item"
	opRemoveCartItem     = "remove_cart_item"
	opFetchOrders        = "fetch_orders"
	opCreatePaymentOrder = "create_payment_order"
	opVerifyPayment      = "verify_payment"
)

const maxErrorBodyBytes = 4 << 10

// Client talks to the commerce API. Failures map onto the error-code
// taxonomy: transport failures become NETWORK_ERROR, non-success statuses
// become SERVER_ERROR carrying the server message when one was sent.
// Nothing is retried.
type Client struct {
	baseURL       string
	sessionCookie string
	http          *http.Client
	logg          *logger.Logger
	metrics       *metrics.StorefrontMetrics
	validate      *validator.Validate
}

// NewClient builds a commerce API client from configuration.
func NewClient(cfg config.APIConfig, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api base url required")
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		sessionCookie: cfg.SessionCookie,
		http:          &http.Client{Timeout: cfg.Timeout},
		logg:          logg,
		metrics:       m,
		validate:      validator.New(),
	}, nil
}

// FetchCatalog loads the product catalog for a category. The response also
// carries the identity of the signed-in user.
func (c *Client) FetchCatalog(ctx context.Context, category string) (*CatalogPayload, error) {
	query := url.Values{"category": []string{category}}
	resp, err := c.send(ctx, opFetchCatalog, http.MethodGet, "/api/products", query, nil)
	if err != nil {
		return nil, err
	}
	var payload CatalogPayload
	if err := c.decode(ctx, opFetchCatalog, resp, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchCart loads the server-side cart for the user.
func (c *Client) FetchCart(ctx context.Context, username string) (*CartPayload, error) {
	query := url.Values{}
	if username != "" {
		query.Set("username", username)
	}
	resp, err := c.send(ctx, opFetchCart, http.MethodGet, "/api/cart/items", query, nil)
	if err != nil {
		return nil, err
	}
	var payload CartPayload
	if err := c.decode(ctx, opFetchCart, resp, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AddCartItem adds one unit of the product to the user's cart.
func (c *Client) AddCartItem(ctx context.Context, username, productID string) error {
	body := cartMutationRequest{Username: username, ProductID: productID}
	resp, err := c.send(ctx, opAddCartItem, http.MethodPost, "/api/cart/add", nil, body)
	if err != nil {
		return err
	}
	return c.expectSuccess(ctx, opAddCartItem, resp)
}

// UpdateCartItem sets the absolute quantity for a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, username, productID string, quantity int) error {
	body := cartMutationRequest{Username: username, ProductID: productID, Quantity: &quantity}
	resp, err := c.send(ctx, opUpdateCartItem, http.MethodPut, "/api/cart/update", nil, body)
	if err != nil {
		return err
	}
	return c.expectSuccess(ctx, opUpdateCartItem, resp)
}

// RemoveCartItem deletes a cart line. The backend signals success with 204
// and nothing else.
func (c *Client) RemoveCartItem(ctx context.Context, username, productID string) error {
	body := cartMutationRequest{Username: username, ProductID: productID}
	resp, err := c.send(ctx, opRemoveCartItem, http.MethodDelete, "/api/cart/delete", nil, body)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusNoContent {
		return c.serverError(ctx, opRemoveCartItem, resp)
	}
	return nil
}

// FetchOrders loads the user's order history as flat product rows.
func (c *Client) FetchOrders(ctx context.Context) (*OrdersPayload, error) {
	resp, err := c.send(ctx, opFetchOrders, http.MethodGet, "/api/orders", nil, nil)
	if err != nil {
		return nil, err
	}
	var payload OrdersPayload
	if err := c.decode(ctx, opFetchOrders, resp, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreatePaymentOrder registers a payment order with the provider and
// returns its opaque id.
func (c *Client) CreatePaymentOrder(ctx context.Context, req PaymentOrderRequest) (string, error) {
	resp, err := c.send(ctx, opCreatePaymentOrder, http.MethodPost, "/api/payment/create", nil, req)
	if err != nil {
		return "", err
	}
	defer drain(resp)
	if !isSuccess(resp.StatusCode) {
		return "", c.serverError(ctx, opCreatePaymentOrder, resp)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return "", c.fail(ctx, opCreatePaymentOrder, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "reading payment order id"))
	}
	orderID := strings.TrimSpace(string(raw))
	if orderID == "" {
		return "", c.fail(ctx, opCreatePaymentOrder, pkgerrors.New(pkgerrors.CodeServer, "empty payment order id"))
	}
	return orderID, nil
}

// VerifyPayment submits the provider's signature triple for verification.
func (c *Client) VerifyPayment(ctx context.Context, req PaymentVerification) error {
	resp, err := c.send(ctx, opVerifyPayment, http.MethodPost, "/api/payment/verify", nil, req)
	if err != nil {
		return err
	}
	return c.expectSuccess(ctx, opVerifyPayment, resp)
}

func (c *Client) send(ctx context.Context, op, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(ctx, op, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body"))
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, c.fail(ctx, op, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request"))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.sessionCookie != "" {
		req.Header.Set("Cookie", c.sessionCookie)
	}

	if c.logg != nil {
		logCtx := c.logg.WithRequestID(ctx, requestID)
		c.logg.Debug(c.logg.WithField(logCtx, "operation", op), "calling commerce api")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(ctx, op, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, op+" request failed"))
	}
	return resp, nil
}

// decode consumes the response body into out, validating the structure of
// what the server sent.
func (c *Client) decode(ctx context.Context, op string, resp *http.Response, out any) error {
	defer drain(resp)
	if !isSuccess(resp.StatusCode) {
		return c.serverError(ctx, op, resp)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return c.fail(ctx, op, pkgerrors.Wrap(pkgerrors.CodeServer, err, "decoding "+op+" response"))
	}
	if err := c.validate.Struct(out); err != nil {
		return c.fail(ctx, op, pkgerrors.Wrap(pkgerrors.CodeServer, err, "malformed "+op+" response"))
	}
	return nil
}

func (c *Client) expectSuccess(ctx context.Context, op string, resp *http.Response) error {
	defer drain(resp)
	if !isSuccess(resp.StatusCode) {
		return c.serverError(ctx, op, resp)
	}
	return nil
}

func (c *Client) serverError(ctx context.Context, op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	message := serverMessage(raw)
	serverErr := pkgerrors.New(pkgerrors.CodeServer, fmt.Sprintf("%s returned status %d", op, resp.StatusCode))
	if message != "" {
		serverErr = serverErr.WithDetails(map[string]any{"server_message": message})
	}
	return c.fail(ctx, op, serverErr)
}

func (c *Client) fail(ctx context.Context, op string, err *pkgerrors.Error) error {
	c.metrics.IncGatewayError(op, string(err.Code()))
	if c.logg != nil {
		c.logg.Error(c.logg.WithField(ctx, "operation", op), "commerce api call failed", err)
	}
	return err
}

// serverMessage pulls a human-readable message out of an error body,
// accepting either a JSON object with message/error fields or plain text.
func serverMessage(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}
	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil {
		if structured.Message != "" {
			return structured.Message
		}
		if structured.Error != "" {
			return structured.Error
		}
	}
	return trimmed
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes)) //nolint:errcheck
	resp.Body.Close()
}
