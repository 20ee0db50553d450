package recommend

import (
	"encoding/json"
	"net/http"

	apperrors "scheduleflow/pkg/errors"
	httputil "scheduleflow/pkg/http"
	"scheduleflow/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type RecommendHandler struct {
	service RecommendService
	log     *logger.Logger
}

func NewRecommendHandler(service RecommendService, log *logger.Logger) *RecommendHandler {
	return &RecommendHandler{
		service: service,
		log:     log,
	}
}

type recommendBody struct {
	Description string `json:"description"`
}

func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body recommendBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Recommend", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	if body.Description == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Description cannot be empty")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Recommend", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	sellers := h.service.Recommend(r.Context(), body.Description)

	if err := httputil.WriteSuccess(w, sellers); err != nil {
		h.log.Error("failed to write success response", "handler", "Recommend", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RecommendHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/recommendations", h.Recommend)
}
