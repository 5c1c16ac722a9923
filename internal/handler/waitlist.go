package handler

import (
	"log/slog"
	"net/http"

	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/service"
)

type WaitlistHandler struct {
	service *service.WaitlistService
	logger  *slog.Logger
}

func NewWaitlistHandler(svc *service.WaitlistService, logger *slog.Logger) *WaitlistHandler {
	return &WaitlistHandler{service: svc, logger: logger}
}

// HandleSubscribe handles POST /api/subscribe requests.
func (h *WaitlistHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req model.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Subscribe(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
