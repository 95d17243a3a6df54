package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vibe-commerce/api/internal/platform/httpx"
	"github.com/vibe-commerce/api/internal/services"
)

// WishlistHandlers exposes the session wishlist endpoints.
type WishlistHandlers struct {
	wishlists services.WishlistService
}

const maxWishlistBodySize = 4 * 1024

// NewWishlistHandlers constructs handlers over the wishlist service.
func NewWishlistHandlers(wishlists services.WishlistService) *WishlistHandlers {
	return &WishlistHandlers{wishlists: wishlists}
}

// Routes wires the /wishlist endpoints onto the provided router.
func (h *WishlistHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.list)
	r.Post("/toggle", h.toggle)
	r.Post("/{productID}/move-to-cart", h.moveToCart)
}

type toggleWishlistRequest struct {
	ProductID int `json:"product_id"`
}

func (h *WishlistHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	products, err := h.wishlists.List(ctx, sid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"products": buildProductPayloads(products)})
}

func (h *WishlistHandlers) toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxWishlistBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req toggleWishlistRequest
	if err := decodeStrict(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusUnprocessableEntity))
		return
	}
	if req.ProductID < 1 {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "product_id must be a positive integer", http.StatusUnprocessableEntity))
		return
	}

	products, err := h.wishlists.Toggle(ctx, services.ToggleWishlistCommand{
		SessionID: sid,
		ProductID: req.ProductID,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"products": buildProductPayloads(products)})
}

func (h *WishlistHandlers) moveToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	result, err := h.wishlists.MoveToCart(ctx, services.MoveToCartCommand{
		SessionID: sid,
		ProductID: productID,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"cart":     buildCartResponse(result.Cart),
		"products": buildProductPayloads(result.Wishlist),
	})
}

func (h *WishlistHandlers) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	if h.wishlists == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "wishlist service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	return requireSession(ctx, w)
}
