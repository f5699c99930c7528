package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "capture-gpt/backend/internal/errors"
	"capture-gpt/backend/internal/llm"
	"capture-gpt/backend/internal/model"
	"capture-gpt/backend/internal/service"
)

// This file contains shared DTOs (Data Transfer Objects) for API requests and
// responses, and helper functions for sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse defines a generic success response for operations that do
// not return a resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// UpdateTitleRequest is the DTO for the manual session title update endpoint.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100" example:"Spring campaign edit notes"`
}

// SendMessageRequest is the DTO for sending a message to the active
// conversation. Blank text is accepted and ignored.
type SendMessageRequest struct {
	Text     string `json:"text" validate:"max=32000" example:"Summarize the client's notes on the rough cut"`
	Model    string `json:"model,omitempty" validate:"omitempty,max=100" example:"gpt-4o"`
	PresetID string `json:"presetId,omitempty" validate:"omitempty,max=50" example:"feedback"`
}

// SendMessageResponse carries the assistant reply and the resulting state.
type SendMessageResponse struct {
	Message *model.Message `json:"message"`
	State   service.State  `json:"state"`
}

// UpdateSettingsRequest is a partial settings update; absent fields keep
// their stored value.
type UpdateSettingsRequest struct {
	ThemeIsDark   *bool   `json:"themeIsDark,omitempty"`
	SidebarOpen   *bool   `json:"sidebarOpen,omitempty"`
	SelectedModel *string `json:"selectedModel,omitempty" validate:"omitempty,min=1,max=100"`
}

// SettingsResponse is the settings record plus the document attributes a
// view applies for the theme.
type SettingsResponse struct {
	model.Settings
	ThemeAttributes map[string]string `json:"themeAttributes"`
}

// ModelsResponse lists the available models and their picker categories.
type ModelsResponse struct {
	Models     []service.ModelInfo `json:"models"`
	Categories []llm.Category      `json:"categories"`
}

// respondWithError is the centralized error handling function for the API layer.
// It maps business-layer errors to HTTP status codes and a standard JSON body.
func respondWithError(w http.ResponseWriter, err error) {
	statusCode, message := classifyError(err)

	// The underlying error is logged; the client gets a generic message.
	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		return http.StatusNotFound, "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		// Validation messages from the service layer are already user-facing.
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, app_errors.ErrBusy):
		return http.StatusConflict, "A reply is still being generated. Please wait for it to finish."
	case errors.Is(err, app_errors.ErrConflict):
		return http.StatusConflict, "A conflict occurred with the current state of the resource."
	default:
		return http.StatusInternalServerError, "An unexpected internal server error occurred."
	}
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// sendStreamError sends a structured error message over a Server-Sent Events (SSE) stream.
func sendStreamError(w http.ResponseWriter, message string) {
	slog.Warn("Sending stream error to client", "message", message)
	jsonData, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		slog.Error("Failed to marshal stream error payload", "error", err)
		return
	}

	// The `event: error` line lets clients register a dedicated listener.
	if _, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", string(jsonData)); err != nil {
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
		return
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// writeStreamEvent marshals data and writes it to an SSE stream. A returned
// error means the client has disconnected.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		return nil
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", string(jsonData)); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
