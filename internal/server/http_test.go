package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanoria/pricingservice/internal/auth"
	"github.com/sanoria/pricingservice/internal/cart"
	"github.com/sanoria/pricingservice/internal/domain"
	"github.com/sanoria/pricingservice/internal/events"
	"github.com/sanoria/pricingservice/internal/pricing"
	"github.com/sanoria/pricingservice/internal/promotion"
	"github.com/sanoria/pricingservice/internal/shipping"
)

func newTestServer(t *testing.T) (*httptest.Server, *auth.TokenValidator) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	catalog := promotion.NewSeededCatalog()
	handler := NewHandler(
		pricing.NewEngine(catalog),
		catalog,
		shipping.NewDefaultRateTable(),
		cart.NewRedisStoreWithClient(client, time.Hour),
		events.NoopPublisher{},
	)
	validator, err := auth.NewTokenValidator("test-secret")
	require.NoError(t, err)

	ts := httptest.NewServer(NewRouter(handler, validator))
	t.Cleanup(ts.Close)
	return ts, validator
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestQuoteEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 2000, Quantity: 1, InStock: true}},
		ShippingMethod: "standard",
		PromoCode:      "SKINCARE15",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	quote := decode[QuoteResponse](t, resp)
	assert.Equal(t, int64(2000), quote.Subtotal)
	assert.Equal(t, int64(300), quote.Discount)
	assert.Equal(t, int64(150), quote.ShippingCost)
	assert.False(t, quote.FreeShipping)
	assert.Equal(t, int64(1850), quote.Total)
	assert.Equal(t, "SKINCARE15", quote.AppliedPromotionCode)
	assert.Empty(t, quote.RejectedReason)
}

func TestQuoteEndpoint_FreeShippingPromo(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 2000, Quantity: 1, InStock: true}},
		ShippingMethod: "express",
		PromoCode:      "FREESHIP",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	quote := decode[QuoteResponse](t, resp)
	assert.Equal(t, int64(0), quote.ShippingCost)
	assert.True(t, quote.FreeShipping)
	assert.Equal(t, int64(2000), quote.Total)
	assert.Equal(t, "FREESHIP", quote.AppliedPromotionCode)
}

func TestQuoteEndpoint_RejectedPromo(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 500, Quantity: 1, InStock: true}},
		ShippingMethod: "standard",
		PromoCode:      "WELCOME20",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "a rejected promo is not an HTTP error")

	quote := decode[QuoteResponse](t, resp)
	assert.Equal(t, string(domain.RejectionBelowMinimum), quote.RejectedReason)
	assert.Equal(t, "Minimum order amount of Rs. 1000 required", quote.RejectedMessage)
	assert.Equal(t, int64(650), quote.Total)
}

func TestQuoteEndpoint_MalformedCart(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 100, Quantity: -1}},
		ShippingMethod: "standard",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[ErrorResponse](t, resp)
	assert.Equal(t, domain.ErrCodeNegativeQuantity, body.Code)
}

func TestQuoteEndpoint_UnknownShippingMethod(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 100, Quantity: 1}},
		ShippingMethod: "drone",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[ErrorResponse](t, resp)
	assert.Equal(t, domain.ErrCodeUnknownShippingMethod, body.Code)
}

func TestQuoteEndpoint_OvernightCityRestriction(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 100, Quantity: 1}},
		ShippingMethod: "overnight",
		City:           "quetta",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The same method is fine for an eligible city.
	resp = postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 100, Quantity: 1}},
		ShippingMethod: "overnight",
		City:           "lahore",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	quote := decode[QuoteResponse](t, resp)
	assert.Equal(t, int64(500), quote.ShippingCost)
}

func TestShippingOptionsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/shipping-options?city=quetta")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	options := decode[[]domain.ShippingOption](t, resp)
	require.Len(t, options, 2)
	for _, opt := range options {
		assert.NotEqual(t, "overnight", opt.Method)
	}
}

func TestCartLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	// Create
	resp := postJSON(t, ts.URL+"/api/v1/cart", SaveCartRequest{
		Items: []LineItemDTO{{ProductID: "p1", UnitPrice: 1299, Quantity: 2, InStock: true}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[CartResponse](t, resp)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, int64(2598), created.Subtotal)

	// Get
	resp, err := http.Get(ts.URL + "/api/v1/cart/" + created.SessionID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[CartResponse](t, resp)
	assert.Equal(t, created.Items, got.Items)

	// Update
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/cart/"+created.SessionID, bytes.NewReader(mustJSON(t, SaveCartRequest{
		Items: []LineItemDTO{{ProductID: "p1", UnitPrice: 1299, Quantity: 1, InStock: true}},
	})))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[CartResponse](t, resp)
	assert.Equal(t, int64(1299), updated.Subtotal)

	// Clear
	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/cart/"+created.SessionID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/v1/cart/" + created.SessionID)
	require.NoError(t, err)
	cleared := decode[CartResponse](t, resp)
	assert.True(t, cleared.IsEmpty)
}

func TestAdminPromotions_RequiresToken(t *testing.T) {
	ts, validator := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/admin/promotions")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	token, err := validator.IssueToken("test", time.Hour)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/admin/promotions", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rules := decode[[]domain.PromotionRule](t, resp)
	assert.Len(t, rules, 4)
}

func TestAdminPromotions_UpsertAndDelete(t *testing.T) {
	ts, validator := newTestServer(t)
	token, err := validator.IssueToken("test", time.Hour)
	require.NoError(t, err)

	rule := domain.PromotionRule{
		Code: "EID25", Kind: domain.PromotionKindPercentage, Value: 25,
		MinimumOrderAmount: 1200, Active: true,
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/admin/promotions", bytes.NewReader(mustJSON(t, rule)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The new code is immediately quotable.
	quoteResp := postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 1600, Quantity: 1, InStock: true}},
		ShippingMethod: "express",
		PromoCode:      "eid25",
	})
	require.Equal(t, http.StatusOK, quoteResp.StatusCode)
	quote := decode[QuoteResponse](t, quoteResp)
	assert.Equal(t, "EID25", quote.AppliedPromotionCode)
	assert.Equal(t, int64(400), quote.Discount)

	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/admin/promotions/EID25", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	quoteResp = postJSON(t, ts.URL+"/api/v1/quote", QuoteRequest{
		Items:          []LineItemDTO{{ProductID: "p1", UnitPrice: 1600, Quantity: 1, InStock: true}},
		ShippingMethod: "express",
		PromoCode:      "EID25",
	})
	quote = decode[QuoteResponse](t, quoteResp)
	assert.Equal(t, string(domain.RejectionCodeNotFound), quote.RejectedReason)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
