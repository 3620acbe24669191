package products_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MockShop/internal/products"
	"MockShop/internal/resource"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
	Message string          `json:"message"`
}

func newProductsTS(t *testing.T, mode resource.UpdateMode) *httptest.Server {
	t.Helper()

	s := products.NewServer(products.NewStore(), mode, zap.NewNop())
	h := products.NewHandler(s, products.HTTPDeps{
		Log:            zap.NewNop(),
		Service:        "products",
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (int, envelope) {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
	return v
}

func TestProducts_CreateAssignsNextIDAndDefaults(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	status, env := doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"name": "Mug", "price": 9.99, "category": "Home",
	})
	if status != http.StatusCreated {
		t.Fatalf("status=%d env=%+v", status, env)
	}
	if !env.Success || env.Message != "Product created successfully" {
		t.Fatalf("env=%+v", env)
	}

	p := decodeData[products.Product](t, env)
	if p.ID != 5 || p.Stock != 0 || p.Description != "" || p.Price != 9.99 {
		t.Fatalf("product=%+v", p)
	}

	status, env = doJSON(t, http.MethodGet, ts.URL+"/products/5", nil)
	if status != http.StatusOK {
		t.Fatalf("get status=%d", status)
	}
	if got := decodeData[products.Product](t, env); got != p {
		t.Fatalf("get=%+v want=%+v", got, p)
	}
}

func TestProducts_CreateRequiresFields(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	for _, body := range []any{
		map[string]any{"name": "Mug", "category": "Home"},
		map[string]any{"name": "Mug", "price": 0, "category": "Home"},
		map[string]any{"price": 1, "category": "Home"},
		nil,
	} {
		status, env := doJSON(t, http.MethodPost, ts.URL+"/products", body)
		if status != http.StatusBadRequest {
			t.Fatalf("body=%v status=%d", body, status)
		}
		if env.Success || env.Message != "Name, price, and category are required" {
			t.Fatalf("body=%v env=%+v", body, env)
		}
	}
}

func TestProducts_CreateRejectsNegativeAndBadJSON(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	status, env := doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"name": "Mug", "price": 1, "category": "Home", "stock": -1,
	})
	if status != http.StatusBadRequest || env.Message != "Price and stock must be non-negative" {
		t.Fatalf("status=%d env=%+v", status, env)
	}

	status, env = doJSON(t, http.MethodPost, ts.URL+"/products", `{"name":`)
	if status != http.StatusBadRequest || env.Message != "Invalid JSON body" {
		t.Fatalf("status=%d env=%+v", status, env)
	}
}

func TestProducts_PresentModeAcceptsZeroPrice(t *testing.T) {
	ts := newProductsTS(t, resource.UpdatePresent)

	status, env := doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"name": "Sticker", "price": 0, "category": "Gifts",
	})
	if status != http.StatusCreated {
		t.Fatalf("status=%d env=%+v", status, env)
	}
}

func TestProducts_ListFiltersCaseInsensitiveWithLimit(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	status, env := doJSON(t, http.MethodGet, ts.URL+"/products?category=electronics", nil)
	if status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	items := decodeData[[]products.Product](t, env)
	if len(items) != 2 || env.Total == nil || *env.Total != 2 {
		t.Fatalf("items=%+v total=%v", items, env.Total)
	}
	for _, p := range items {
		if p.Category != "Electronics" {
			t.Fatalf("unexpected category %q", p.Category)
		}
	}

	_, env = doJSON(t, http.MethodGet, ts.URL+"/products?category=ELECTRONICS&limit=1", nil)
	items = decodeData[[]products.Product](t, env)
	if len(items) != 1 || items[0].ID != 1 || *env.Total != 2 {
		t.Fatalf("items=%+v total=%d", items, *env.Total)
	}

	_, env = doJSON(t, http.MethodGet, ts.URL+"/products?category=toys", nil)
	items = decodeData[[]products.Product](t, env)
	if len(items) != 0 || *env.Total != 0 || string(env.Data) != "[]" {
		t.Fatalf("data=%s total=%d", env.Data, *env.Total)
	}

	_, env = doJSON(t, http.MethodGet, ts.URL+"/products?limit=abc", nil)
	if items = decodeData[[]products.Product](t, env); len(items) != 4 {
		t.Fatalf("len=%d want=4", len(items))
	}
}

func TestProducts_ListLimitUsesLeadingDigits(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	_, env := doJSON(t, http.MethodGet, ts.URL+"/products?limit=2abc", nil)
	items := decodeData[[]products.Product](t, env)
	if len(items) != 2 || *env.Total != 4 {
		t.Fatalf("items=%d total=%d", len(items), *env.Total)
	}
}

func TestProducts_UpdatePresentModeRejectsBlankRequiredFields(t *testing.T) {
	ts := newProductsTS(t, resource.UpdatePresent)

	for _, body := range []map[string]any{{"name": ""}, {"category": "  "}} {
		status, env := doJSON(t, http.MethodPut, ts.URL+"/products/1", body)
		if status != http.StatusBadRequest || env.Message != "Name and category cannot be empty" {
			t.Fatalf("body=%v status=%d env=%+v", body, status, env)
		}
	}

	_, env := doJSON(t, http.MethodGet, ts.URL+"/products/1", nil)
	if p := decodeData[products.Product](t, env); p.Name != "Wireless Bluetooth Headphones" || p.Category != "Electronics" {
		t.Fatalf("product changed: %+v", p)
	}

	status, env := doJSON(t, http.MethodPut, ts.URL+"/products/1", map[string]any{"description": ""})
	if status != http.StatusOK {
		t.Fatalf("optional field blanking rejected: status=%d env=%+v", status, env)
	}
}

func TestProducts_UpdateTruthyModeIgnoresBlankName(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	status, env := doJSON(t, http.MethodPut, ts.URL+"/products/1", map[string]any{"name": ""})
	if p := decodeData[products.Product](t, env); status != http.StatusOK || p.Name != "Wireless Bluetooth Headphones" {
		t.Fatalf("status=%d product=%+v", status, p)
	}
}

func TestProducts_GetUnknownOrMalformedID(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	for _, id := range []string{"99", "abc"} {
		status, env := doJSON(t, http.MethodGet, ts.URL+"/products/"+id, nil)
		if status != http.StatusNotFound || env.Success || env.Message != "Product not found" {
			t.Fatalf("id=%s status=%d env=%+v", id, status, env)
		}
	}
}

func TestProducts_UpdateTruthyModeSkipsZeroStock(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	status, env := doJSON(t, http.MethodPut, ts.URL+"/products/1", map[string]any{"stock": 0})
	if status != http.StatusOK || env.Message != "Product updated successfully" {
		t.Fatalf("status=%d env=%+v", status, env)
	}
	p := decodeData[products.Product](t, env)
	if p.Stock != 50 {
		t.Fatalf("stock=%d want=50 (zero is ignored in truthy mode)", p.Stock)
	}
}

func TestProducts_UpdatePresentModeAppliesZeroStock(t *testing.T) {
	ts := newProductsTS(t, resource.UpdatePresent)

	_, env := doJSON(t, http.MethodPut, ts.URL+"/products/1", map[string]any{"stock": 0})
	if p := decodeData[products.Product](t, env); p.Stock != 0 {
		t.Fatalf("stock=%d want=0", p.Stock)
	}
}

func TestProducts_UpdateChangesOnlyGivenField(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	_, env := doJSON(t, http.MethodGet, ts.URL+"/products/3", nil)
	before := decodeData[products.Product](t, env)

	_, env = doJSON(t, http.MethodPut, ts.URL+"/products/3", map[string]any{"price": 119.5})
	after := decodeData[products.Product](t, env)

	want := before
	want.Price = 119.5
	if after != want {
		t.Fatalf("after=%+v want=%+v", after, want)
	}

	status, _ := doJSON(t, http.MethodPut, ts.URL+"/products/42", map[string]any{"price": 1})
	if status != http.StatusNotFound {
		t.Fatalf("status=%d want=404", status)
	}
}

func TestProducts_DeleteThenCreateDoesNotReuseID(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	status, env := doJSON(t, http.MethodDelete, ts.URL+"/products/2", nil)
	if status != http.StatusOK || env.Message != "Product deleted successfully" {
		t.Fatalf("status=%d env=%+v", status, env)
	}
	if p := decodeData[products.Product](t, env); p.Name != "Smart Watch" {
		t.Fatalf("deleted=%+v", p)
	}

	status, _ = doJSON(t, http.MethodGet, ts.URL+"/products/2", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status=%d want=404", status)
	}

	_, env = doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"name": "Lamp", "price": 20, "category": "Home",
	})
	if p := decodeData[products.Product](t, env); p.ID != 5 {
		t.Fatalf("id=%d want=5", p.ID)
	}

	status, _ = doJSON(t, http.MethodDelete, ts.URL+"/products/2", nil)
	if status != http.StatusNotFound {
		t.Fatalf("second delete status=%d want=404", status)
	}
}

func TestProducts_Health(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var h struct {
		Success   bool   `json:"success"`
		Service   string `json:"service"`
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !h.Success || h.Service != "Product Service" || h.Status != "healthy" || h.Timestamp == "" {
		t.Fatalf("status=%d health=%+v", resp.StatusCode, h)
	}
}

func TestProducts_MetricsExposed(t *testing.T) {
	ts := newProductsTS(t, resource.UpdateTruthy)

	doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{"name": "Mug", "price": 9.99, "category": "Home"})

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	for _, want := range []string{"http_requests_total", `resource_mutations_total{op="create",resource="Product"} 1`, `resource_records{resource="Product"} 5`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}
