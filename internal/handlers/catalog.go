package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vibe-commerce/api/internal/platform/httpx"
	"github.com/vibe-commerce/api/internal/services"
)

// CatalogHandlers exposes the read-only storefront catalog endpoints.
type CatalogHandlers struct {
	storefront services.StorefrontService
}

// NewCatalogHandlers constructs handlers over the storefront service.
func NewCatalogHandlers(storefront services.StorefrontService) *CatalogHandlers {
	return &CatalogHandlers{storefront: storefront}
}

// Routes wires the /products endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listProducts)
	r.Get("/categories", h.listCategories)
	r.Get("/{productID}", h.getProduct)
}

// RecentRoute wires the recently-viewed endpoint.
func (h *CatalogHandlers) RecentRoute(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.recentProducts)
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.storefront == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	query := services.ProductQuery{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}
	products, err := h.storefront.ListProducts(ctx, query)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"products": buildProductPayloads(products)})
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.storefront == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil || id < 1 {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "productID must be a positive integer", http.StatusUnprocessableEntity))
		return
	}

	cmd := services.GetProductCommand{ProductID: id}
	if sid, ok := requireSession(ctx, w); ok {
		cmd.SessionID = sid
	} else {
		return
	}

	product, err := h.storefront.GetProduct(ctx, cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"product": buildProductPayload(product)})
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.storefront == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	categories, err := h.storefront.ListCategories(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *CatalogHandlers) recentProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.storefront == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	sid, ok := requireSession(ctx, w)
	if !ok {
		return
	}
	products, err := h.storefront.RecentProducts(ctx, sid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"products": buildProductPayloads(products)})
}
