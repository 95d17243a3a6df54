package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/vibe-commerce/api/internal/platform/httpx"
	"github.com/vibe-commerce/api/internal/services"
)

// writeServiceError maps service sentinels onto the wire error vocabulary.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *services.CheckoutValidationError
	if errors.As(err, &verr) {
		details := make(map[string]any, len(verr.Fields))
		for field, msg := range verr.Fields {
			details[field] = msg
		}
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "invalid customer details", http.StatusUnprocessableEntity).WithDetails(details))
		return
	}

	switch {
	case errors.Is(err, services.ErrCartOutOfStock):
		httpx.WriteError(ctx, w, httpx.NewError("out_of_stock", "product is out of stock", http.StatusConflict))
	case errors.Is(err, services.ErrCartInsufficientStock):
		httpx.WriteError(ctx, w, httpx.NewError("insufficient_stock", "requested quantity exceeds available stock", http.StatusConflict))
	case errors.Is(err, services.ErrCouponInvalid):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_coupon", "coupon code is not valid", http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrCouponAlreadyApplied):
		httpx.WriteError(ctx, w, httpx.NewError("coupon_already_applied", "a coupon is already applied", http.StatusConflict))
	case errors.Is(err, services.ErrWalletInsufficientFunds):
		httpx.WriteError(ctx, w, httpx.NewError("insufficient_funds", "wallet balance cannot cover the total", http.StatusPaymentRequired))
	case errors.Is(err, services.ErrCheckoutInFlight):
		httpx.WriteError(ctx, w, httpx.NewError("checkout_in_flight", "another checkout is already in progress", http.StatusConflict))
	case errors.Is(err, services.ErrCheckoutCartEmpty):
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "cart is empty", http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrCatalogUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("remote_fetch_failed", "product catalog is unreachable", http.StatusBadGateway))
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrWishlistProductNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
	case errors.Is(err, services.ErrOrderInvalidState):
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "order cannot advance further", http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrCartInvalidInput),
		errors.Is(err, services.ErrWishlistInvalidInput),
		errors.Is(err, services.ErrWalletInvalidInput),
		errors.Is(err, services.ErrOrderInvalidInput),
		errors.Is(err, services.ErrChatInvalidInput),
		errors.Is(err, services.ErrProfileInvalidInput),
		errors.Is(err, services.ErrStorefrontInvalidInput),
		errors.Is(err, services.ErrCheckoutValidation):
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusUnprocessableEntity))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "service is temporarily unavailable", http.StatusServiceUnavailable))
	}
}
