package handler

import (
	"log/slog"
	"net/http"

	"github.com/neuralhub/neuralhub-go/internal/middleware"
	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/service"
)

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

func NewProfileHandler(svc *service.AuthService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: svc, logger: logger}
}

// HandleGetProfile handles GET /api/user/profile requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{User: user})
}

// HandleUpdateProfile handles PUT /api/user/profile requests.
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	var upd model.UserUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{Message: "Profile updated successfully", User: user})
}
