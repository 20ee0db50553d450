package handler

import (
	"encoding/json"
	"net/http"

	"scheduleflow/internal/availability/service"
	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	httputil "scheduleflow/pkg/http"
	"scheduleflow/pkg/logger"
	"scheduleflow/pkg/middleware"
	"scheduleflow/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// List returns the seller's slots ordered by start time. Buyers and sellers
// share this view; booked slots stay in the listing so the day renders whole.
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sellerID := ps.ByName("id")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	slots, total, err := h.service.List(r.Context(), sellerID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, slots, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

// Generate creates a day of slots for the authenticated seller.
func (h *AvailabilityHandler) Generate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sellerID := ps.ByName("id")
	if !h.requireOwner(w, r, sellerID, "Generate") {
		return
	}

	var req model.GenerateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Generate", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	added, err := h.service.Generate(r.Context(), sellerID, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Generate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, map[string]any{
		"seller_id":   sellerID,
		"date":        req.Date,
		"slots_added": added,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Generate", "operation", "WriteCreated", "error", err)
	}
}

// Remove deletes an unbooked slot owned by the authenticated seller.
func (h *AvailabilityHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sellerID := ps.ByName("id")
	slotID := ps.ByName("slotId")
	if !h.requireOwner(w, r, sellerID, "Remove") {
		return
	}

	if err := h.service.Remove(r.Context(), sellerID, slotID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) requireOwner(w http.ResponseWriter, r *http.Request, sellerID string, op string) bool {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil || identity.Subject != sellerID {
		if writeErr := httputil.WriteError(w, apperrors.Forbidden("Only the calendar owner can modify availability")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", op, "operation", "WriteError", "error", writeErr)
		}
		return false
	}
	return true
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/sellers/:id/availability", h.List)
	router.POST("/api/v1/sellers/:id/availability/generate", h.Generate)
	router.DELETE("/api/v1/sellers/:id/availability/:slotId", h.Remove)
}
