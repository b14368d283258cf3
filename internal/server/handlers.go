package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanoria/pricingservice/internal/cart"
	"github.com/sanoria/pricingservice/internal/domain"
	"github.com/sanoria/pricingservice/internal/events"
	"github.com/sanoria/pricingservice/internal/log"
	"github.com/sanoria/pricingservice/internal/pricing"
	"github.com/sanoria/pricingservice/internal/promotion"
	"github.com/sanoria/pricingservice/internal/shipping"
)

// Handler serves the storefront pricing API
type Handler struct {
	engine    *pricing.Engine
	catalog   promotion.Catalog
	rates     *shipping.RateTable
	carts     cart.Repository
	publisher events.Publisher
}

// NewHandler creates the API handler with its collaborators
func NewHandler(
	engine *pricing.Engine,
	catalog promotion.Catalog,
	rates *shipping.RateTable,
	carts cart.Repository,
	publisher events.Publisher,
) *Handler {
	return &Handler{
		engine:    engine,
		catalog:   catalog,
		rates:     rates,
		carts:     carts,
		publisher: publisher,
	}
}

// Quote computes a price quote for the posted cart snapshot
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid JSON body", err.Error())
		return
	}

	option, err := h.resolveShipping(req.ShippingMethod, req.City)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	quote, err := h.engine.Quote(r.Context(), toCart(req.Items), option, req.PromoCode, time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.publishQuoteEvents(r, req, quote)
	writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}

// ShippingOptions lists the shipping methods deliverable to a city
func (h *Handler) ShippingOptions(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	writeJSON(w, http.StatusOK, h.rates.AvailableMethods(city))
}

// CreateCart stores a new cart under a fresh session ID
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req SaveCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid JSON body", err.Error())
		return
	}

	sessionID := uuid.NewString()
	ctx := log.WithSessionID(r.Context(), sessionID)
	c := toCart(req.Items)
	if err := h.carts.Save(ctx, sessionID, c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cartResponse(sessionID, c))
}

// GetCart returns the stored cart for a session
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctx := log.WithSessionID(r.Context(), sessionID)
	c, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse(sessionID, c))
}

// SaveCart replaces the stored cart for a session
func (h *Handler) SaveCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctx := log.WithSessionID(r.Context(), sessionID)

	var req SaveCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid JSON body", err.Error())
		return
	}

	c := toCart(req.Items)
	if err := h.carts.Save(ctx, sessionID, c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse(sessionID, c))
}

// ClearCart removes the stored cart for a session
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctx := log.WithSessionID(r.Context(), sessionID)
	if err := h.carts.Clear(ctx, sessionID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPromotions returns every promotion rule for the admin surface
func (h *Handler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	rules, err := h.catalog.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// UpsertPromotion creates or replaces a promotion rule
func (h *Handler) UpsertPromotion(w http.ResponseWriter, r *http.Request) {
	var rule PromotionDTO
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid JSON body", err.Error())
		return
	}
	if err := h.catalog.Upsert(r.Context(), rule); err != nil {
		writeDomainError(w, err)
		return
	}
	log.Info(r.Context(), "promotion upserted", zap.String("code", domain.NormalizePromoCode(rule.Code)))
	w.WriteHeader(http.StatusNoContent)
}

// DeletePromotion removes a promotion rule by code
func (h *Handler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.catalog.Delete(r.Context(), code); err != nil {
		writeDomainError(w, err)
		return
	}
	log.Info(r.Context(), "promotion deleted", zap.String("code", domain.NormalizePromoCode(code)))
	w.WriteHeader(http.StatusNoContent)
}

// resolveShipping maps a method name to its option and enforces city
// availability, so the engine only ever sees an already-filtered option.
func (h *Handler) resolveShipping(method, city string) (domain.ShippingOption, error) {
	option, err := h.rates.Resolve(method)
	if err != nil {
		return domain.ShippingOption{}, err
	}
	if city != "" {
		for _, available := range h.rates.AvailableMethods(city) {
			if available.Method == option.Method {
				return option, nil
			}
		}
		return domain.ShippingOption{}, domain.NewInvalidInputError(
			"shipping method is not available for this city", option.Method+" to "+city)
	}
	return option, nil
}

// publishQuoteEvents emits quote.computed and, when relevant,
// promotion.rejected. Publishing failures are logged, never surfaced to the
// shopper.
func (h *Handler) publishQuoteEvents(r *http.Request, req QuoteRequest, quote domain.PriceQuote) {
	ctx := r.Context()

	event, err := events.NewEvent(events.TypeQuoteComputed, req.SessionID, events.QuoteComputedData{
		Quote:          quote,
		ShippingMethod: req.ShippingMethod,
		ItemCount:      len(req.Items),
	})
	if err == nil {
		err = h.publisher.Publish(ctx, event)
	}
	if err != nil {
		log.Warn(ctx, "failed to publish quote event", zap.Error(err))
	}

	if quote.RejectedReason == nil {
		return
	}
	event, err = events.NewEvent(events.TypePromotionRejected, req.SessionID, events.PromotionRejectedData{
		Code:   domain.NormalizePromoCode(req.PromoCode),
		Reason: string(*quote.RejectedReason),
	})
	if err == nil {
		err = h.publisher.Publish(ctx, event)
	}
	if err != nil {
		log.Warn(ctx, "failed to publish rejection event", zap.Error(err))
	}
}

func cartResponse(sessionID string, c domain.Cart) CartResponse {
	return CartResponse{
		SessionID: sessionID,
		Items:     toLineItemDTOs(c),
		Subtotal:  c.Subtotal(),
		IsEmpty:   c.IsEmpty(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message, details string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message, Details: details})
}

// writeDomainError maps a domain error to its HTTP status. Malformed input
// codes are the caller's fault; anything unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	if !domain.IsDomainError(err) {
		writeError(w, http.StatusInternalServerError, domain.ErrCodeInternal, "internal error", "")
		return
	}
	de := domain.GetDomainError(err)

	status := http.StatusInternalServerError
	switch de.Code {
	case domain.ErrCodeNegativeQuantity, domain.ErrCodeZeroQuantity, domain.ErrCodeQuantityExceedsLimit,
		domain.ErrCodeNegativePrice, domain.ErrCodeUnknownShippingMethod, domain.ErrCodeInvalidTimestamp,
		domain.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
	case domain.ErrCodeAlreadyExists:
		status = http.StatusConflict
	}
	writeJSON(w, status, ErrorResponse{Code: de.Code, Message: de.Message, Details: de.Details})
}
