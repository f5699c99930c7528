package service

import (
	"capture-gpt/backend/internal/llm"
)

// ModelInfo is a registry entry annotated with its picker category.
type ModelInfo struct {
	llm.ModelConfig
	Category string `json:"category,omitempty"`
}

// ModelService exposes the model registry to the API layer.
type ModelService struct {
	registry *llm.Registry
}

// NewModelService creates a new ModelService.
func NewModelService(registry *llm.Registry) *ModelService {
	return &ModelService{registry: registry}
}

// List returns the models in registry order.
func (s *ModelService) List() []ModelInfo {
	category := make(map[string]string)
	for _, c := range s.registry.Categories() {
		for _, id := range c.Models {
			category[id] = c.Label
		}
	}
	models := s.registry.Models()
	out := make([]ModelInfo, len(models))
	for i, m := range models {
		out[i] = ModelInfo{ModelConfig: m, Category: category[m.ID]}
	}
	return out
}

// Categories returns the picker categories.
func (s *ModelService) Categories() []llm.Category {
	return s.registry.Categories()
}

// Resolve returns the model for id, falling back to the default.
func (s *ModelService) Resolve(id string) llm.ModelConfig {
	return s.registry.Resolve(id)
}

// DefaultID returns the default model identifier.
func (s *ModelService) DefaultID() string {
	return s.registry.DefaultID()
}
