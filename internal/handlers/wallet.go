package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vibe-commerce/api/internal/platform/httpx"
	"github.com/vibe-commerce/api/internal/services"
)

// WalletHandlers exposes the session wallet endpoints.
type WalletHandlers struct {
	wallets services.WalletService
}

const maxWalletBodySize = 4 * 1024

// NewWalletHandlers constructs handlers over the wallet service.
func NewWalletHandlers(wallets services.WalletService) *WalletHandlers {
	return &WalletHandlers{wallets: wallets}
}

// Routes wires the /wallet endpoints onto the provided router.
func (h *WalletHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.get)
	r.Post("/credit", h.credit)
}

type creditWalletRequest struct {
	Amount float64 `json:"amount"`
}

func (h *WalletHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	wallet, err := h.wallets.Get(ctx, sid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"wallet": buildWalletPayload(wallet)})
}

func (h *WalletHandlers) credit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxWalletBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req creditWalletRequest
	if err := decodeStrict(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusUnprocessableEntity))
		return
	}

	wallet, err := h.wallets.Credit(ctx, services.CreditWalletCommand{SessionID: sid, Amount: req.Amount})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"wallet": buildWalletPayload(wallet)})
}

func (h *WalletHandlers) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	if h.wallets == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "wallet service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	return requireSession(ctx, w)
}
