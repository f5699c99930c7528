package api

import (
	"net/http"

	"capture-gpt/backend/internal/interfaces"
)

// ModelHandler serves the model registry.
type ModelHandler struct {
	service interfaces.ModelService
}

func NewModelHandler(svc interfaces.ModelService) *ModelHandler {
	return &ModelHandler{service: svc}
}

// HandleListModels godoc
// @Summary      List models
// @Description  Lists the configured models with their token limits, cost and speed labels, and the picker categories.
// @Tags         Models
// @Produce      json
// @Success      200  {object}  ModelsResponse
// @Router       /v1/models [get]
func (h *ModelHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, ModelsResponse{
		Models:     h.service.List(),
		Categories: h.service.Categories(),
	})
}
