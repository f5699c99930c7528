package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"capture-gpt/backend/internal/interfaces"
	"capture-gpt/backend/internal/model"
	"capture-gpt/backend/internal/service"
)

// ChatHandler serves the conversation, preset and settings endpoints.
type ChatHandler struct {
	store    interfaces.ConversationStore
	settings interfaces.SettingsService
}

func NewChatHandler(store interfaces.ConversationStore, settings interfaces.SettingsService) *ChatHandler {
	return &ChatHandler{store: store, settings: settings}
}

// GetState godoc
// @Summary      Get conversation state
// @Description  Returns the active session id, its messages, the pending flag and the armed preset.
// @Tags         Conversation
// @Produce      json
// @Success      200  {object}  service.State
// @Router       /v1/state [get]
func (h *ChatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.State())
}

// ListSessions godoc
// @Summary      List sessions
// @Description  Lists stored sessions, most recent first. `q` filters by title and accepts after:/before: date tokens.
// @Tags         Sessions
// @Produce      json
// @Param        q    query     string  false  "Search query"
// @Success      200  {array}   model.SessionSummary
// @Router       /v1/sessions [get]
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.store.Sessions(r.URL.Query().Get("q"))
	if sessions == nil {
		sessions = []model.SessionSummary{}
	}
	respondWithJSON(w, http.StatusOK, sessions)
}

// ListSessionGroups godoc
// @Summary      List sessions grouped by recency
// @Description  Groups matching sessions into Today, Yesterday, Previous 7 Days, Previous 30 Days and Older. Empty groups are omitted.
// @Tags         Sessions
// @Produce      json
// @Param        q    query     string  false  "Search query"
// @Success      200  {array}   history.Group
// @Router       /v1/sessions/groups [get]
func (h *ChatHandler) ListSessionGroups(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Groups(r.URL.Query().Get("q")))
}

// GetSession godoc
// @Summary      Get a session
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  model.Session
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID} [get]
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// CreateSession godoc
// @Summary      Start a new conversation
// @Description  Saves the active session and clears the conversation. The session itself is created by the first completed exchange.
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  service.State
// @Failure      409  {object}  ErrorResponse
// @Router       /v1/sessions [post]
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.StartNewSession(r.Context()); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.store.State())
}

// SelectSession godoc
// @Summary      Make a session active
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  service.State
// @Failure      404        {object}  ErrorResponse
// @Failure      409        {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/select [post]
func (h *ChatHandler) SelectSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SelectSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.store.State())
}

// UpdateSessionTitle godoc
// @Summary      Rename a session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string              true  "Session ID"
// @Param        request    body      UpdateTitleRequest  true  "New title"
// @Success      200        {object}  StatusResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/title [put]
func (h *ChatHandler) UpdateSessionTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.store.RenameSession(r.Context(), chi.URLParam(r, "sessionID"), req.Title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// DeleteSession godoc
// @Summary      Delete a session
// @Description  Deleting the active session clears the conversation. Unknown ids are ignored.
// @Tags         Sessions
// @Param        sessionID  path  string  true  "Session ID"
// @Success      204
// @Failure      409  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID} [delete]
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Appends the message, waits for the assistant reply and returns it. Completion failures are returned as reply text.
// @Tags         Conversation
// @Accept       json
// @Produce      json
// @Param        request  body      SendMessageRequest  true  "Message"
// @Success      200      {object}  SendMessageResponse
// @Success      204      "Blank text, nothing sent"
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /v1/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if req.PresetID != "" {
		if err := h.store.SelectPreset(req.PresetID); err != nil {
			respondWithError(w, err)
			return
		}
	}

	msg, err := h.store.SendMessage(r.Context(), req.Text, req.Model)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if msg == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, SendMessageResponse{Message: msg, State: h.store.State()})
}

// StreamMessage godoc
// @Summary      Send a message and stream the reply
// @Description  Streams the reply as Server-Sent Events. Each event carries `{"content": ...}`; failures arrive as one `event: error`; the stream ends with `{"done": true}`.
// @Tags         Conversation
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body      SendMessageRequest  true  "Message"
// @Success      200      {object}  model.StreamResponse
// @Router       /v1/messages/stream [post]
func (h *ChatHandler) StreamMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var req SendMessageRequest
	if err := decodeRequest(r, &req); err != nil {
		_, msg := classifyError(err)
		sendStreamError(w, msg)
		return
	}
	if req.PresetID != "" {
		if err := h.store.SelectPreset(req.PresetID); err != nil {
			_, msg := classifyError(err)
			sendStreamError(w, msg)
			return
		}
	}

	fragments, err := h.store.SendMessageStream(r.Context(), req.Text, req.Model)
	if err != nil {
		_, msg := classifyError(err)
		sendStreamError(w, msg)
		return
	}

	connected := true
	for frag := range fragments {
		if !connected {
			continue
		}
		if frag.Err {
			sendStreamError(w, frag.Text)
			continue
		}
		if err := writeStreamEvent(w, model.StreamResponse{Content: frag.Text}); err != nil {
			slog.Info("Client disconnected during stream", "error", err)
			connected = false
		}
	}
	if connected {
		_ = writeStreamEvent(w, model.StreamResponse{Done: true})
	}
}

// ListPresets godoc
// @Summary      List presets
// @Tags         Presets
// @Produce      json
// @Success      200  {array}  prompts.Preset
// @Router       /v1/presets [get]
func (h *ChatHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Presets())
}

// SelectPreset godoc
// @Summary      Arm a preset for the next send
// @Tags         Presets
// @Produce      json
// @Param        presetID  path      string  true  "Preset ID"
// @Success      200       {object}  service.State
// @Failure      404       {object}  ErrorResponse
// @Router       /v1/presets/{presetID}/select [post]
func (h *ChatHandler) SelectPreset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SelectPreset(chi.URLParam(r, "presetID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.store.State())
}

// ClearPreset godoc
// @Summary      Disarm the selected preset
// @Tags         Presets
// @Success      204
// @Router       /v1/presets/selected [delete]
func (h *ChatHandler) ClearPreset(w http.ResponseWriter, r *http.Request) {
	h.store.ClearPreset()
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings godoc
// @Summary      Get settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  SettingsResponse
// @Router       /v1/settings [get]
func (h *ChatHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, settingsResponse(h.settings.Get(r.Context())))
}

// UpdateSettings godoc
// @Summary      Update settings
// @Description  Applies a partial update; absent fields keep their stored value.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateSettingsRequest  true  "Settings"
// @Success      200      {object}  SettingsResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /v1/settings [put]
func (h *ChatHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	settings := h.settings.Get(r.Context())
	if req.ThemeIsDark != nil {
		settings.ThemeIsDark = *req.ThemeIsDark
	}
	if req.SidebarOpen != nil {
		settings.SidebarOpen = *req.SidebarOpen
	}
	if req.SelectedModel != nil {
		settings.SelectedModel = *req.SelectedModel
	}

	if err := h.settings.Save(r.Context(), settings); err != nil {
		respondWithError(w, err)
		return
	}
	slog.Info("Settings updated", "model", settings.SelectedModel, "dark", settings.ThemeIsDark)
	respondWithJSON(w, http.StatusOK, settingsResponse(settings))
}

func settingsResponse(s model.Settings) SettingsResponse {
	return SettingsResponse{Settings: s, ThemeAttributes: service.ThemeAttributes(s)}
}
