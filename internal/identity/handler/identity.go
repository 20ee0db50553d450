package handler

import (
	"encoding/json"
	"net/http"

	"scheduleflow/internal/identity/service"
	apperrors "scheduleflow/pkg/errors"
	httputil "scheduleflow/pkg/http"
	"scheduleflow/pkg/logger"
	"scheduleflow/pkg/middleware"
	"scheduleflow/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type IdentityHandler struct {
	service service.IdentityService
	log     *logger.Logger
}

func NewIdentityHandler(service service.IdentityService, log *logger.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		log:     log,
	}
}

func (h *IdentityHandler) GetSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Authentication required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSession", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	session, err := h.service.Resolve(r.Context(), identity.Subject, identity.Email)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSession", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSession", "operation", "WriteSuccess", "error", err)
	}
}

type setRoleRequest struct {
	Role model.Role `json:"role"`
}

func (h *IdentityHandler) SetRole(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Authentication required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetRole", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetRole", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	session, err := h.service.SetRole(r.Context(), identity.Subject, req.Role)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetRole", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "SetRole", "operation", "WriteSuccess", "error", err)
	}
}

type storeCredentialRequest struct {
	AccessToken string `json:"access_token"`
}

func (h *IdentityHandler) StoreCredential(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Authentication required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "StoreCredential", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req storeCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "StoreCredential", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.StoreCredential(r.Context(), identity.Subject, req.AccessToken); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "StoreCredential", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *IdentityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/session", h.GetSession)
	router.POST("/api/v1/session/role", h.SetRole)
	router.PUT("/api/v1/session/credential", h.StoreCredential)
}
