package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/ecocycle/ecocycle-backend/internal/cart"
	"github.com/ecocycle/ecocycle-backend/internal/catalog"
	checkoutsvc "github.com/ecocycle/ecocycle-backend/internal/checkout"
	"github.com/ecocycle/ecocycle-backend/internal/orders"
	"github.com/ecocycle/ecocycle-backend/internal/sellers"
	"github.com/ecocycle/ecocycle-backend/internal/session"
	"github.com/ecocycle/ecocycle-backend/internal/settlement"
	"github.com/ecocycle/ecocycle-backend/internal/watchlist"
	"github.com/ecocycle/ecocycle-backend/pkg/config"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
	"github.com/ecocycle/ecocycle-backend/pkg/types"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemory()
	registry := prometheus.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(registry)
	cfg := &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}

	sessionService, err := session.NewService(ctx, session.ServiceParams{KV: kv, Metrics: storeMetrics})
	if err != nil {
		t.Fatalf("session service: %v", err)
	}
	cartService, err := cart.NewService(ctx, cart.ServiceParams{
		KV:      kv,
		Metrics: storeMetrics,
		TaxRate: decimal.RequireFromString("0.10"),
	})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	watchlistService, err := watchlist.NewService(ctx, watchlist.ServiceParams{KV: kv, Metrics: storeMetrics})
	if err != nil {
		t.Fatalf("watchlist service: %v", err)
	}
	catalogService, err := catalog.NewService(ctx, catalog.ServiceParams{KV: kv, Metrics: storeMetrics})
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	ordersService, err := orders.NewService(ctx, orders.ServiceParams{KV: kv, Metrics: storeMetrics})
	if err != nil {
		t.Fatalf("order service: %v", err)
	}
	sellerService, err := sellers.NewService(ctx, sellers.ServiceParams{KV: kv, Metrics: storeMetrics})
	if err != nil {
		t.Fatalf("seller service: %v", err)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Cart:    cartService,
		Orders:  ordersService,
		Settler: settlement.NewSimulator(settlement.SimulatorParams{}),
		Metrics: storeMetrics,
	})
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	return NewRouter(
		cfg,
		nil,
		kv,
		registry,
		sessionService,
		cartService,
		watchlistService,
		catalogService,
		checkoutService,
		ordersService,
		sellerService,
	)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object payload, got %T", envelope.Data)
	}
	return data
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodGet, "/health/live", ""); w.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodGet, "/health/ready", ""); w.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodGet, "/api/v1/session/", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with no session, got %d", w.Code)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/session/login", `{"email":"maya@ecocycle.io","password":"hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	user := decodeData(t, w)
	if user["name"] != "maya" {
		t.Fatalf("unexpected user payload: %v", user)
	}

	w = doJSON(t, router, http.MethodPut, "/api/v1/session/preferences", `{"contribution_focus":"selling","completed_preferences":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("preferences: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(t, router, http.MethodPost, "/api/v1/session/logout", ""); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodGet, "/api/v1/session/", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after logout, got %d", w.Code)
	}
}

func TestCartEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"id":"p1","title":"Recycled HDPE Pellets","quantity":2,"unit_price":"10.00","listing_type":"sell"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	cartData := decodeData(t, w)
	totals := cartData["totals"].(map[string]any)
	if totals["total"] != "22" {
		t.Fatalf("unexpected total: %v", totals["total"])
	}

	w = doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/p1", `{"quantity":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/p1", ""); w.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/cart/", "")
	cartData = decodeData(t, w)
	items := cartData["items"].([]any)
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestProductEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/products/",
		`{"seller_id":"s1","title":"Reclaimed Teak","category":"Wood","listing_type":"sell","seller":{"name":"Timber Revival"}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	product := decodeData(t, w)
	id := product["id"].(string)

	w = doJSON(t, router, http.MethodPatch, "/api/v1/products/"+id, `{"price":"5.00/kg"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(t, router, http.MethodPatch, "/api/v1/products/missing", `{"price":"5.00/kg"}`); w.Code != http.StatusNotFound {
		t.Fatalf("update missing: expected 404, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/products/?seller_id=s1", "")
	listing := decodeData(t, w)
	if int(listing["total"].(float64)) != 1 {
		t.Fatalf("expected one listing for seller, got %v", listing["total"])
	}

	if w := doJSON(t, router, http.MethodDelete, "/api/v1/products/"+id, ""); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodGet, "/api/v1/products/"+id, ""); w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestWatchlistEndpoints(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"id":"w1","title":"Reclaimed Teak Planks","category":"Wood"}`
	if w := doJSON(t, router, http.MethodPost, "/api/v1/watchlist/items", payload); w.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/api/v1/watchlist/items", payload); w.Code != http.StatusOK {
		t.Fatalf("second add: expected 200, got %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/watchlist/", "")
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	items := envelope.Data.([]any)
	if len(items) != 1 {
		t.Fatalf("expected idempotent add, got %d items", len(items))
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/watchlist/items/w1/watched", "")
	if w.Code != http.StatusOK {
		t.Fatalf("watched: expected 200, got %d", w.Code)
	}
	if membership := decodeData(t, w); membership["watched"] != true {
		t.Fatalf("expected w1 watched, got %v", membership)
	}

	if w := doJSON(t, router, http.MethodDelete, "/api/v1/watchlist/items/w1", ""); w.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/watchlist/items/w1/watched", "")
	if w.Code != http.StatusOK {
		t.Fatalf("watched after remove: expected 200, got %d", w.Code)
	}
	if membership := decodeData(t, w); membership["watched"] != false {
		t.Fatalf("expected w1 unwatched after remove, got %v", membership)
	}
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"id":"p1","title":"Recycled HDPE Pellets","quantity":2,"unit_price":"10.00","listing_type":"sell"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("seed cart: expected 200, got %d", w.Code)
	}

	delivery := `{"full_name":"Maya Chen","email":"maya@ecocycle.io","phone":"5550100",` +
		`"address":"1 Market St","city":"San Francisco","state":"CA","zip_code":"94105","delivery_type":"delivery"}`
	if w := doJSON(t, router, http.MethodPut, "/api/v1/checkout/delivery", delivery); w.Code != http.StatusOK {
		t.Fatalf("delivery: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(t, router, http.MethodPut, "/api/v1/checkout/payment", `{"method":"upi","upi_id":"maya@okhdfcbank"}`); w.Code != http.StatusOK {
		t.Fatalf("payment: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/checkout/submit", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	result := decodeData(t, w)
	order := result["order"].(map[string]any)
	if order["status"] != "confirmed" {
		t.Fatalf("unexpected order payload: %v", order)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/orders/", "")
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	listed := envelope.Data.([]any)
	if len(listed) != 1 {
		t.Fatalf("expected one order, got %d", len(listed))
	}

	orderID := order["id"].(string)
	if w := doJSON(t, router, http.MethodGet, "/api/v1/orders/"+orderID, ""); w.Code != http.StatusOK {
		t.Fatalf("order lookup: expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/orders/"+orderID+"/rate",
		`{"stars":5,"aspects":["Quality"],"review":"Fast shipping and clean material."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("rate: expected 200, got %d", w.Code)
	}
	rated := decodeData(t, w)
	if rated["rating"] == nil {
		t.Fatalf("expected rating on order, got %v", rated)
	}

	if w := doJSON(t, router, http.MethodPost, "/api/v1/orders/missing/rate", `{"stars":3}`); w.Code != http.StatusNotFound {
		t.Fatalf("rate unknown order: expected 404, got %d", w.Code)
	}
}

func TestCheckoutSubmitValidationErrorOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"id":"p1","title":"Recycled HDPE Pellets","quantity":1,"unit_price":"10.00","listing_type":"sell"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("seed cart: expected 200, got %d", w.Code)
	}
	delivery := `{"full_name":"Maya Chen","email":"maya@ecocycle.io","phone":"5550100",` +
		`"address":"1 Market St","city":"San Francisco","state":"CA","zip_code":"94105","delivery_type":"delivery"}`
	if w := doJSON(t, router, http.MethodPut, "/api/v1/checkout/delivery", delivery); w.Code != http.StatusOK {
		t.Fatalf("delivery: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPut, "/api/v1/checkout/payment", `{"method":"upi"}`); w.Code != http.StatusOK {
		t.Fatalf("payment: expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/checkout/submit", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Error.Message != "Please enter your UPI ID" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestSellerProfileEndpoints(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodGet, "/api/v1/seller/profile/", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before setup, got %d", w.Code)
	}

	w := doJSON(t, router, http.MethodPut, "/api/v1/seller/profile/",
		`{"company":"GreenLoop Materials","phone":"5550100","address":"1 Market St"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPut, "/api/v1/seller/profile/", `{"company":"","phone":"5550100","address":"1 Market St"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing required field, got %d", w.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Error.Message != "Please fill in all required fields" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}
