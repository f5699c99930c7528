package service

import (
	"context"
	"fmt"
	"log/slog"

	app_errors "capture-gpt/backend/internal/errors"
	"capture-gpt/backend/internal/llm"
	"capture-gpt/backend/internal/model"
	"capture-gpt/backend/internal/storage"
)

// SettingsKey is the storage key of the settings record.
const SettingsKey = "settings"

// SettingsService loads and saves the user preferences.
type SettingsService struct {
	storage *storage.Adapter
	models  *llm.Registry
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(adapter *storage.Adapter, models *llm.Registry) *SettingsService {
	return &SettingsService{storage: adapter, models: models}
}

// Get returns the stored settings, with defaults for anything missing. An
// unknown selected model is replaced by the registry default.
func (s *SettingsService) Get(ctx context.Context) model.Settings {
	settings := storage.Load(ctx, s.storage, SettingsKey, model.DefaultSettings(s.models.DefaultID()))
	if _, ok := s.models.Lookup(settings.SelectedModel); !ok {
		if settings.SelectedModel != "" {
			slog.Warn("Stored model is not available, using default", "model", settings.SelectedModel, "default", s.models.DefaultID())
		}
		settings.SelectedModel = s.models.DefaultID()
	}
	return settings
}

// Save validates and persists settings.
func (s *SettingsService) Save(ctx context.Context, settings model.Settings) error {
	if _, ok := s.models.Lookup(settings.SelectedModel); !ok {
		return fmt.Errorf("%w: unknown model '%s'", app_errors.ErrValidation, settings.SelectedModel)
	}
	if !s.storage.Save(ctx, SettingsKey, settings) {
		return fmt.Errorf("%w: settings could not be saved", app_errors.ErrInternal)
	}
	return nil
}

// ToggleTheme flips between the dark and light theme.
func (s *SettingsService) ToggleTheme(ctx context.Context) (model.Settings, error) {
	return s.update(ctx, func(st *model.Settings) { st.ThemeIsDark = !st.ThemeIsDark })
}

// ToggleSidebar shows or hides the session sidebar.
func (s *SettingsService) ToggleSidebar(ctx context.Context) (model.Settings, error) {
	return s.update(ctx, func(st *model.Settings) { st.SidebarOpen = !st.SidebarOpen })
}

// SelectModel makes id the model used for sends that do not name one.
func (s *SettingsService) SelectModel(ctx context.Context, id string) (model.Settings, error) {
	return s.update(ctx, func(st *model.Settings) { st.SelectedModel = id })
}

// SelectedModel implements ModelSelector.
func (s *SettingsService) SelectedModel(ctx context.Context) string {
	return s.Get(ctx).SelectedModel
}

func (s *SettingsService) update(ctx context.Context, fn func(*model.Settings)) (model.Settings, error) {
	settings := s.Get(ctx)
	fn(&settings)
	if err := s.Save(ctx, settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// ThemeAttributes returns the document attributes a view applies for the
// settings: data-theme=dark for the dark theme, nothing otherwise.
func ThemeAttributes(settings model.Settings) map[string]string {
	attrs := map[string]string{}
	if settings.ThemeIsDark {
		attrs["data-theme"] = "dark"
	}
	return attrs
}
