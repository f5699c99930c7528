package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// DefaultModelID is used for unknown or empty model identifiers.
const DefaultModelID = "gpt-4o"

// ModelConfig is the static per-model configuration used to build requests.
type ModelConfig struct {
	ID          string  `json:"id" toml:"id" validate:"required"`
	Name        string  `json:"name" toml:"name" validate:"required"`
	ShortName   string  `json:"shortName" toml:"short_name"`
	Description string  `json:"description" toml:"description"`
	Provider    string  `json:"provider" toml:"provider" validate:"required"`
	MaxTokens   int     `json:"maxTokens" toml:"max_tokens" validate:"gt=0"`
	Temperature float64 `json:"temperature" toml:"temperature" validate:"gte=0,lte=2"`
	Cost        string  `json:"cost" toml:"cost"`
	Speed       string  `json:"speed" toml:"speed"`
}

// Category groups models for the picker.
type Category struct {
	ID     string   `json:"id" toml:"id" validate:"required"`
	Label  string   `json:"label" toml:"label" validate:"required"`
	Models []string `json:"models" toml:"models" validate:"required,min=1"`
}

// Registry is an immutable, validated set of models keyed by identifier.
type Registry struct {
	defaultID  string
	order      []string
	byID       map[string]ModelConfig
	categories []Category
}

type registryFile struct {
	Default    string        `toml:"default"`
	Models     []ModelConfig `toml:"models"`
	Categories []Category    `toml:"categories"`
}

var validate = validator.New()

// NewRegistry validates the models and categories. The default must be one
// of the models and every category must reference known models.
func NewRegistry(defaultID string, models []ModelConfig, categories []Category) (*Registry, error) {
	if len(models) == 0 {
		return nil, errors.New("model registry is empty")
	}
	r := &Registry{defaultID: defaultID, byID: make(map[string]ModelConfig, len(models))}
	for _, m := range models {
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("invalid model %q: %w", m.ID, err)
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate model %q", m.ID)
		}
		r.byID[m.ID] = m
		r.order = append(r.order, m.ID)
	}
	if _, ok := r.byID[defaultID]; !ok {
		return nil, fmt.Errorf("default model %q is not in the registry", defaultID)
	}
	for _, c := range categories {
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("invalid category %q: %w", c.ID, err)
		}
		for _, id := range c.Models {
			if _, ok := r.byID[id]; !ok {
				return nil, fmt.Errorf("category %q references unknown model %q", c.ID, id)
			}
		}
		c.Models = append([]string(nil), c.Models...)
		r.categories = append(r.categories, c)
	}
	return r, nil
}

// LoadRegistryFile reads a registry from a TOML file:
//
//	default = "gpt-4o"
//	[[models]]
//	id = "gpt-4o"
//	...
func LoadRegistryFile(path string) (*Registry, error) {
	var f registryFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("could not decode model registry %s: %w", path, err)
	}
	if f.Default == "" && len(f.Models) > 0 {
		f.Default = f.Models[0].ID
	}
	return NewRegistry(f.Default, f.Models, f.Categories)
}

// DefaultRegistry returns the built-in OpenAI models.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultModelID, []ModelConfig{
		{ID: "gpt-4o", Name: "GPT-4o", ShortName: "4o", Description: "Latest model with improved reasoning", Provider: "openai", MaxTokens: 4000, Temperature: 0.7, Cost: "Higher", Speed: "Fast"},
		{ID: "gpt-4", Name: "GPT-4", ShortName: "4", Description: "Most capable model for complex tasks", Provider: "openai", MaxTokens: 1000, Temperature: 0.7, Cost: "High", Speed: "Slower"},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", ShortName: "4T", Description: "Faster GPT-4 with larger context", Provider: "openai", MaxTokens: 2000, Temperature: 0.7, Cost: "Medium", Speed: "Medium"},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", ShortName: "3.5", Description: "Fast and efficient for most tasks", Provider: "openai", MaxTokens: 1000, Temperature: 0.7, Cost: "Low", Speed: "Fast"},
	}, []Category{
		{ID: "latest", Label: "Latest", Models: []string{"gpt-4o"}},
		{ID: "standard", Label: "Standard", Models: []string{"gpt-4", "gpt-4-turbo"}},
		{ID: "efficient", Label: "Efficient", Models: []string{"gpt-3.5-turbo"}},
	})
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultID returns the fallback model identifier.
func (r *Registry) DefaultID() string { return r.defaultID }

// Lookup returns the model with the given id.
func (r *Registry) Lookup(id string) (ModelConfig, bool) {
	m, ok := r.byID[strings.TrimSpace(id)]
	return m, ok
}

// Resolve returns the model with the given id, or the default model.
func (r *Registry) Resolve(id string) ModelConfig {
	if m, ok := r.Lookup(id); ok {
		return m
	}
	return r.byID[r.defaultID]
}

// Models returns the models in registration order.
func (r *Registry) Models() []ModelConfig {
	out := make([]ModelConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Categories returns a copy of the picker categories.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	for i, c := range r.categories {
		c.Models = append([]string(nil), c.Models...)
		out[i] = c
	}
	return out
}

// DisplayName returns the model's name, or the id itself when unknown.
func (r *Registry) DisplayName(id string) string {
	if m, ok := r.Lookup(id); ok {
		return m.Name
	}
	return id
}

// ShortName returns the compact label, or the id itself when unknown.
func (r *Registry) ShortName(id string) string {
	if m, ok := r.Lookup(id); ok && m.ShortName != "" {
		return m.ShortName
	}
	return id
}
