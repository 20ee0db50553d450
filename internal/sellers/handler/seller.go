package handler

import (
	"encoding/json"
	"net/http"

	"scheduleflow/internal/sellers/service"
	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	httputil "scheduleflow/pkg/http"
	"scheduleflow/pkg/logger"
	"scheduleflow/pkg/middleware"
	"scheduleflow/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SellerHandler struct {
	service service.SellerService
	log     *logger.Logger
}

func NewSellerHandler(service service.SellerService, log *logger.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		log:     log,
	}
}

func (h *SellerHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sellers, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, sellers, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *SellerHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	seller, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, seller); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Update edits the profile. Only the profile owner may edit it.
func (h *SellerHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	identity := middleware.IdentityFrom(r.Context())
	if identity == nil || identity.Subject != id {
		if writeErr := httputil.WriteError(w, apperrors.Forbidden("Only the profile owner can edit it")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var updates model.SellerUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	seller, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, seller); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SellerHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/sellers", h.GetAll)
	router.GET("/api/v1/sellers/:id", h.GetByID)
	router.PATCH("/api/v1/sellers/:id", h.Update)
}
