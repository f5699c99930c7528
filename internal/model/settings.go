package model

import "encoding/json"

// Settings holds the user preferences persisted next to the chat history.
type Settings struct {
	ThemeIsDark   bool   `json:"themeIsDark"`
	SidebarOpen   bool   `json:"sidebarOpen"`
	SelectedModel string `json:"selectedModel"`
}

// DefaultSettings returns the settings used when nothing has been stored yet.
func DefaultSettings(defaultModel string) Settings {
	return Settings{ThemeIsDark: true, SidebarOpen: true, SelectedModel: defaultModel}
}

// UnmarshalJSON leaves absent fields untouched, so decoding into a value that
// already holds defaults yields defaults for missing keys. The older
// `isDarkMode` key is honoured when `themeIsDark` is absent.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type alias Settings
	aux := struct {
		*alias
		ThemeIsDark *bool `json:"themeIsDark"`
		IsDarkMode  *bool `json:"isDarkMode"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.ThemeIsDark != nil:
		s.ThemeIsDark = *aux.ThemeIsDark
	case aux.IsDarkMode != nil:
		s.ThemeIsDark = *aux.IsDarkMode
	}
	return nil
}
