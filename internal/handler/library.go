package handler

import (
	"log/slog"
	"net/http"

	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/service"
)

type LibraryHandler struct {
	service *service.LibraryService
	logger  *slog.Logger
}

func NewLibraryHandler(svc *service.LibraryService, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{service: svc, logger: logger}
}

// HandleList handles GET /api/library?q=&type= requests.
func (h *LibraryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.LibraryResponse{Content: items})
}
