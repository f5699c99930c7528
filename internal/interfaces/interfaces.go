package interfaces

import (
	"context"

	"capture-gpt/backend/internal/history"
	"capture-gpt/backend/internal/llm"
	"capture-gpt/backend/internal/model"
	"capture-gpt/backend/internal/prompts"
	"capture-gpt/backend/internal/service"
)

// This file defines the interfaces the API and CLI layers depend on, so they
// can be tested against mocks instead of the concrete services.

// ConversationStore defines the contract for the conversation state machine.
type ConversationStore interface {
	State() service.State
	Sessions(query string) []model.SessionSummary
	Groups(query string) []history.Group
	Session(id string) (*model.Session, error)
	StartNewSession(ctx context.Context) error
	SelectSession(ctx context.Context, id string) error
	DeleteSession(ctx context.Context, id string) error
	RenameSession(ctx context.Context, id, title string) error
	SendMessage(ctx context.Context, text, modelID string) (*model.Message, error)
	SendMessageStream(ctx context.Context, text, modelID string) (<-chan llm.Fragment, error)
	Presets() []prompts.Preset
	SelectPreset(id string) error
	ClearPreset()
}

// SettingsService defines the contract for managing user preferences.
type SettingsService interface {
	Get(ctx context.Context) model.Settings
	Save(ctx context.Context, settings model.Settings) error
}

// ModelService defines the contract for listing the available models.
type ModelService interface {
	List() []service.ModelInfo
	Categories() []llm.Category
}
