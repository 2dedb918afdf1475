// Package rest implements the backend collaborator ports over the
// JSON HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"pantry/internal/api"
	"pantry/internal/core"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// Ensure interface conformance
var (
	_ api.Backend          = (*Client)(nil)
	_ api.InventoryBackend = (*Client)(nil)
	_ api.ReceiptBackend   = (*Client)(nil)
)

// New creates a client for the given base URL (e.g. "http://host:5000/api").
// No client-side timeout is set; failure is detected only through an
// explicit transport error or a non-success status.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// NewFromEnv creates a client from PANTRY_API_URL.
func NewFromEnv() (*Client, error) {
	base := strings.TrimSpace(os.Getenv("PANTRY_API_URL"))
	if base == "" {
		return nil, errors.New("missing PANTRY_API_URL")
	}
	return New(base), nil
}

// wireFloat decodes a JSON number that the collaborator may serialize
// either as a number or as a quoted decimal string.
type wireFloat float64

func (f *wireFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = wireFloat(v)
	return nil
}

type (
	productDTO struct {
		ID         int64     `json:"id"`
		Name       string    `json:"name"`
		Category   string    `json:"category"`
		Quantity   wireFloat `json:"quantity"`
		Unit       string    `json:"unit"`
		Price      wireFloat `json:"price"`
		ExpiryDate core.Date `json:"expiry_date"`
		IsFrozen   bool      `json:"is_frozen"`
		Shop       string    `json:"shop"`
	}

	receiptDTO struct {
		ID    int64     `json:"id"`
		Date  core.Date `json:"data_zakupu"`
		Shop  string    `json:"sklep"`
		Total wireFloat `json:"suma_total"`
	}

	receiptItemDTO struct {
		Name      string    `json:"product_name"`
		Category  string    `json:"kategoria"`
		Quantity  wireFloat `json:"ilosc"`
		UnitPrice wireFloat `json:"cena_jedn"`
		Unit      string    `json:"jednostka"`
	}

	patchDTO struct {
		ExpiryDate *core.Date `json:"expiry_date,omitempty"`
		IsFrozen   *bool      `json:"is_frozen,omitempty"`
	}

	usageRequest struct {
		Amount float64 `json:"amount"`
	}

	usageResponse struct {
		NewQuantity wireFloat `json:"new_quantity"`
	}

	errorResponse struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	suggestionResponse struct {
		Suggestion json.RawMessage `json:"suggestion"`
		IsJSON     bool            `json:"is_json"`
	}
)

func (p productDTO) toDomain() core.Product {
	return core.Product{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Quantity:   float64(p.Quantity),
		Unit:       p.Unit,
		Shop:       p.Shop,
		ExpiryDate: p.ExpiryDate,
		IsFrozen:   p.IsFrozen,
	}
}

func (r receiptDTO) toDomain() core.Receipt {
	return core.Receipt{
		ID:    r.ID,
		Date:  r.Date,
		Shop:  r.Shop,
		Total: core.MoneyFromFloat(float64(r.Total)),
	}
}

// do issues one request and decodes a 2xx JSON body into out (when out
// is non-nil). Non-2xx statuses become *api.StatusError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.DebugContext(ctx, "API request",
		"request_id", requestID, "operation", op, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &apiErr)
		msg := apiErr.Error
		if msg == "" {
			msg = apiErr.Message
		}
		slog.WarnContext(ctx, "API request rejected",
			"request_id", requestID, "operation", op, "status_code", resp.StatusCode)
		return &api.StatusError{Op: op, Code: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context) ([]core.Product, error) {
	var dtos []productDTO
	if err := c.do(ctx, "list products", http.MethodGet, "/products", nil, &dtos); err != nil {
		return nil, err
	}
	products := make([]core.Product, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, d.toDomain())
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, draft core.ProductDraft) (core.Product, error) {
	var created productDTO
	if err := c.do(ctx, "create product", http.MethodPost, "/products", draft, &created); err != nil {
		return core.Product{}, err
	}
	return created.toDomain(), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, patch core.ProductPatch) error {
	body := patchDTO{IsFrozen: patch.IsFrozen}
	if patch.ExpiryDate != nil {
		body.ExpiryDate = patch.ExpiryDate
	}
	path := fmt.Sprintf("/products/%d", id)
	return c.do(ctx, "update product", http.MethodPut, path, body, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/products/%d", id)
	return c.do(ctx, "delete product", http.MethodDelete, path, nil, nil)
}

func (c *Client) ApplyUsage(ctx context.Context, id int64, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, core.ErrInvalidAmount
	}
	var resp usageResponse
	path := fmt.Sprintf("/products/%d/usage", id)
	if err := c.do(ctx, "apply usage", http.MethodPost, path, usageRequest{Amount: amount}, &resp); err != nil {
		return 0, err
	}
	return float64(resp.NewQuantity), nil
}

func (c *Client) ListReceipts(ctx context.Context) ([]core.Receipt, error) {
	var dtos []receiptDTO
	if err := c.do(ctx, "list receipts", http.MethodGet, "/receipts", nil, &dtos); err != nil {
		return nil, err
	}
	receipts := make([]core.Receipt, 0, len(dtos))
	for _, d := range dtos {
		receipts = append(receipts, d.toDomain())
	}
	return receipts, nil
}

func (c *Client) ReceiptDetail(ctx context.Context, id int64) (core.ReceiptDetail, error) {
	var resp struct {
		Receipt receiptDTO       `json:"receipt"`
		Items   []receiptItemDTO `json:"items"`
	}
	path := fmt.Sprintf("/receipts/%d", id)
	if err := c.do(ctx, "receipt detail", http.MethodGet, path, nil, &resp); err != nil {
		return core.ReceiptDetail{}, err
	}
	detail := core.ReceiptDetail{Receipt: resp.Receipt.toDomain()}
	for _, item := range resp.Items {
		detail.Items = append(detail.Items, core.ReceiptItem{
			Name:      item.Name,
			Category:  item.Category,
			Quantity:  float64(item.Quantity),
			UnitPrice: core.MoneyFromFloat(float64(item.UnitPrice)),
			Unit:      item.Unit,
		})
	}
	return detail, nil
}

func (c *Client) ReadConfig(ctx context.Context) (api.ConfigSnapshot, error) {
	var snap api.ConfigSnapshot
	if err := c.do(ctx, "read config", http.MethodGet, "/config", nil, &snap); err != nil {
		return api.ConfigSnapshot{}, err
	}
	return snap, nil
}

func (c *Client) WriteConfig(ctx context.Context, snap api.ConfigSnapshot) error {
	return c.do(ctx, "write config", http.MethodPost, "/config/update", snap, nil)
}

func (c *Client) ReadPreferences(ctx context.Context) (api.Preferences, error) {
	var prefs api.Preferences
	if err := c.do(ctx, "read preferences", http.MethodGet, "/preferences", nil, &prefs); err != nil {
		return api.Preferences{}, err
	}
	return prefs, nil
}

func (c *Client) WritePreferences(ctx context.Context, prefs api.Preferences) error {
	return c.do(ctx, "write preferences", http.MethodPost, "/preferences", prefs, nil)
}

func (c *Client) Suggest(ctx context.Context, kind api.SuggestionKind) (api.Suggestion, error) {
	if !kind.IsValid() {
		return api.Suggestion{}, fmt.Errorf("unknown suggestion kind %q", kind)
	}
	var resp suggestionResponse
	if err := c.do(ctx, "suggest", http.MethodPost, "/"+string(kind), nil, &resp); err != nil {
		return api.Suggestion{}, err
	}

	// The suggestion field is a string for plain text and an object when
	// the collaborator managed to produce structured output.
	var text string
	if err := json.Unmarshal(resp.Suggestion, &text); err != nil {
		text = string(resp.Suggestion)
	}
	return api.Suggestion{Text: text, IsJSON: resp.IsJSON}, nil
}
