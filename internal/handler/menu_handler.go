package handler

import (
	"net/http"

	"brewcart/internal/model"
	"brewcart/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu browsing HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// GetAll handles GET /api/menu requests.
func (h *MenuHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	items, err := h.service.GetMenu(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve menu", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// GetByID handles GET /api/menu/{id} requests.
func (h *MenuHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/menu/{id}
	itemID := r.URL.Path[len("/api/menu/"):]
	if itemID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "item ID is required", h.logger)
		return
	}

	item, err := h.service.GetItem(r.Context(), itemID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve menu item", h.logger)
		return
	}

	if item == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeItemNotFound, "menu item not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
