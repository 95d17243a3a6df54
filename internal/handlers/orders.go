package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vibe-commerce/api/internal/platform/httpx"
	"github.com/vibe-commerce/api/internal/services"
)

// OrderHandlers exposes the order history and tracking endpoints.
type OrderHandlers struct {
	orders services.OrderService
}

// NewOrderHandlers constructs handlers over the order service.
func NewOrderHandlers(orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// Routes wires the /orders endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.list)
	r.Get("/{receiptID}", h.get)
	r.Post("/{receiptID}/track", h.track)
	r.Post("/{receiptID}/advance", h.advance)
}

func (h *OrderHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	receipts, err := h.orders.ListOrders(ctx, sid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"orders": buildReceiptPayloads(receipts)})
}

func (h *OrderHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	rid, ok := parseReceiptID(w, r)
	if !ok {
		return
	}

	receipt, err := h.orders.GetOrder(ctx, sid, rid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"receipt": buildReceiptPayload(receipt)})
}

func (h *OrderHandlers) track(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	rid, ok := parseReceiptID(w, r)
	if !ok {
		return
	}

	receipt, err := h.orders.TrackOrder(ctx, sid, rid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"receipt": buildReceiptPayload(receipt)})
}

func (h *OrderHandlers) advance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	rid, ok := parseReceiptID(w, r)
	if !ok {
		return
	}

	receipt, err := h.orders.AdvanceOrder(ctx, sid, rid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"receipt": buildReceiptPayload(receipt)})
}

func (h *OrderHandlers) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "order service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	return requireSession(ctx, w)
}

func parseReceiptID(w http.ResponseWriter, r *http.Request) (string, bool) {
	rid := strings.TrimSpace(chi.URLParam(r, "receiptID"))
	if rid == "" {
		httpx.WriteError(r.Context(), w, httpx.NewError("validation_error", "receiptID is required", http.StatusUnprocessableEntity))
		return "", false
	}
	return rid, true
}
