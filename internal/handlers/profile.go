package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vibe-commerce/api/internal/platform/httpx"
	"github.com/vibe-commerce/api/internal/services"
)

// ProfileHandlers exposes the stub account endpoints.
type ProfileHandlers struct {
	profiles services.ProfileService
}

const maxProfileBodySize = 8 * 1024

// NewProfileHandlers constructs handlers over the profile service.
func NewProfileHandlers(profiles services.ProfileService) *ProfileHandlers {
	return &ProfileHandlers{profiles: profiles}
}

// Routes wires the /profile endpoints onto the provided router.
func (h *ProfileHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.get)
	r.Put("/", h.update)
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *ProfileHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(ctx, sid)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"profile": buildProfilePayload(profile)})
}

func (h *ProfileHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxProfileBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req updateProfileRequest
	if err := decodeStrict(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusUnprocessableEntity))
		return
	}

	profile, err := h.profiles.Update(ctx, services.UpdateProfileCommand{
		SessionID: sid,
		Name:      req.Name,
		Email:     req.Email,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"profile": buildProfilePayload(profile)})
}

func (h *ProfileHandlers) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	if h.profiles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("unavailable", "profile service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	return requireSession(ctx, w)
}
