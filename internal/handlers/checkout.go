package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vibe-commerce/api/internal/platform/httpx"
	"github.com/vibe-commerce/api/internal/services"
)

// CheckoutHandlers exposes the checkout endpoint.
type CheckoutHandlers struct {
	checkout services.CheckoutService
}

const maxCheckoutBodySize = 16 * 1024

// NewCheckoutHandlers constructs handlers over the checkout service.
func NewCheckoutHandlers(checkout services.CheckoutService) *CheckoutHandlers {
	return &CheckoutHandlers{checkout: checkout}
}

// Routes wires the /checkout endpoint onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.checkoutCart)
}

type checkoutRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *CheckoutHandlers) checkoutCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sid, ok := requireSession(ctx, w)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxCheckoutBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req checkoutRequest
	if err := decodeStrict(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusUnprocessableEntity))
		return
	}

	receipt, err := h.checkout.Checkout(ctx, services.CheckoutCommand{
		SessionID: sid,
		Name:      req.Name,
		Email:     req.Email,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, map[string]any{"receipt": buildReceiptPayload(receipt)})
}
