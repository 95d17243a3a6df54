package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vibe-commerce/api/internal/platform/httpx"
	"github.com/vibe-commerce/api/internal/services"
)

// ChatHandlers exposes the scripted assistant endpoints.
type ChatHandlers struct {
	chat services.ChatService
}

const maxChatBodySize = 8 * 1024

// NewChatHandlers constructs handlers over the chat service.
func NewChatHandlers(chat services.ChatService) *ChatHandlers {
	return &ChatHandlers{chat: chat}
}

// Routes wires the /chat endpoints onto the provided router.
func (h *ChatHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.history)
	r.Delete("/", h.reset)
	r.Post("/messages", h.send)
}

type sendChatMessageRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandlers) history(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	state, err := h.chat.History(ctx, sid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildChatResponse(state))
}

func (h *ChatHandlers) send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxChatBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req sendChatMessageRequest
	if err := decodeStrict(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusUnprocessableEntity))
		return
	}

	state, err := h.chat.Send(ctx, services.SendChatMessageCommand{SessionID: sid, Text: req.Text})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildChatResponse(state))
}

func (h *ChatHandlers) reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := h.chat.Reset(ctx, sid); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandlers) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	if h.chat == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "chat service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	return requireSession(ctx, w)
}
