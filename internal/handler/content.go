package handler

import (
	"log/slog"
	"net/http"

	"github.com/neuralhub/neuralhub-go/internal/middleware"
	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/service"
)

// ContentHandler handles HTTP requests for a user's saved content.
type ContentHandler struct {
	service *service.ContentService
	logger  *slog.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(svc *service.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{service: svc, logger: logger}
}

// HandleList handles GET /api/content?q=&type= requests.
func (h *ContentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	items, err := h.service.List(r.Context(), userID, filterFromQuery(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ContentListResponse{Content: items})
}

// HandleCreate handles POST /api/content requests.
func (h *ContentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	var req model.ContentFields
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.ContentEnvelope{Message: "Content created successfully", Content: *item})
}

// HandleUpdate handles PUT /api/content requests. The item id travels in the body.
func (h *ContentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	var req model.UpdateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.Update(r.Context(), userID, req.ID, req.ContentPatch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ContentEnvelope{Message: "Content updated successfully", Content: *item})
}

// HandleDelete handles DELETE /api/content?id= requests.
func (h *ContentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), userID, r.URL.Query().Get("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Content deleted successfully"})
}

func filterFromQuery(r *http.Request) model.ContentFilter {
	q := r.URL.Query()
	filter := model.ContentFilter{Query: q.Get("q")}
	if t := q.Get("type"); t != "" && t != "all" {
		filter.Type = model.ContentType(t)
	}
	return filter
}
