package handler

import (
	"encoding/json"
	"net/http"

	"brewcart/internal/model"
	"brewcart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart management HTTP requests. Every route reads
// the shopper's identity from the X-Owner-Key header.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	key, ok := ownerKey(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), key)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	key, ok := ownerKey(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "itemId is required", h.logger)
		return
	}

	cart, err := h.service.AddItem(r.Context(), key, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, cart)
}

// UpdateItem handles PUT /api/cart/items/{lineID} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request, lineID string) {
	key, ok := ownerKey(w, r, h.logger)
	if !ok {
		return
	}

	var req model.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), key, lineID, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	key, ok := ownerKey(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), key); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/cart/items/{lineID} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request, lineID string) {
	key, ok := ownerKey(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), key, lineID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}
