package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"capture-gpt/backend/internal/clock"
	"capture-gpt/backend/internal/debounce"
	app_errors "capture-gpt/backend/internal/errors"
	"capture-gpt/backend/internal/history"
	"capture-gpt/backend/internal/llm"
	"capture-gpt/backend/internal/model"
	"capture-gpt/backend/internal/prompts"
	"capture-gpt/backend/internal/storage"
)

const (
	// ChatHistoryKey is the storage key of the session collection.
	ChatHistoryKey = "chatHistory"

	// WelcomeMessage opens every new conversation.
	WelcomeMessage = "Hello! I'm Capture This GPT, your AI assistant for video production. I can help you analyze Frame.io feedback, draft client communications, answer questions about SOPs, and assist with general production workflows."

	// DefaultAutosaveDelay is the quiet period before a dirty session is saved.
	DefaultAutosaveDelay = 500 * time.Millisecond

	interruptedReply = "❌ Error: the response was interrupted before any text arrived. Please try again."
)

// ModelSelector supplies the model used when a send does not name one.
type ModelSelector interface {
	SelectedModel(ctx context.Context) string
}

// StoreOptions configures a ConversationStore. Zero values select defaults.
type StoreOptions struct {
	AutosaveDelay time.Duration
	Clock         clock.Clock
	Presets       []prompts.Preset
	Models        ModelSelector
}

// State is a snapshot of the conversation bound to the view.
type State struct {
	ActiveSessionID string          `json:"activeSessionId"`
	Messages        []model.Message `json:"messages"`
	Pending         bool            `json:"pending"`
	PresetID        string          `json:"presetId,omitempty"`
}

// ConversationStore owns the session collection and the active conversation.
// All methods are safe for concurrent use; the lock is never held while a
// completion request is in flight.
type ConversationStore struct {
	storage   *storage.Adapter
	completer llm.Completer
	clock     clock.Clock
	presets   []prompts.Preset
	models    ModelSelector
	saver     *debounce.Debouncer

	mu       sync.Mutex
	sessions []model.Session
	activeID string
	active   []model.Message
	pending  bool
	preset   *prompts.Preset
	dirty    bool
	unsaved  bool // last collection write failed
}

// exchange is the part of a send captured before the lock is released.
type exchange struct {
	prompt       string
	userText     string
	useKnowledge bool
	modelID      string
}

// NewConversationStore loads the stored sessions and returns a store with no
// active session.
func NewConversationStore(ctx context.Context, adapter *storage.Adapter, completer llm.Completer, opts StoreOptions) *ConversationStore {
	if opts.AutosaveDelay <= 0 {
		opts.AutosaveDelay = DefaultAutosaveDelay
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Presets == nil {
		opts.Presets = prompts.DefaultPresets()
	}

	s := &ConversationStore{
		storage:   adapter,
		completer: completer,
		clock:     opts.Clock,
		presets:   opts.Presets,
		models:    opts.Models,
		sessions:  storage.Load(ctx, adapter, ChatHistoryKey, []model.Session{}),
	}
	if s.sessions == nil {
		s.sessions = []model.Session{}
	}
	s.saver = debounce.New(opts.Clock, opts.AutosaveDelay, s.autosave)
	slog.Info("Conversation store ready", "sessions", len(s.sessions))
	return s
}

// State returns a copy of the active conversation.
func (s *ConversationStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ActiveSessionID: s.activeID,
		Messages:        model.CloneMessages(s.active),
		Pending:         s.pending,
	}
	if s.preset != nil {
		st.PresetID = s.preset.ID
	}
	return st
}

// Sessions returns the summaries matching query, most recent first.
func (s *ConversationStore) Sessions(query string) []model.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	return history.Summaries(history.ParseQuery(query, now).Apply(s.sessions), now)
}

// Groups returns the sessions matching query grouped by recency.
func (s *ConversationStore) Groups(query string) []history.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	return history.GroupSessions(history.ParseQuery(query, now).Apply(s.sessions), now)
}

// Session returns a copy of one session. The active session reflects the
// in-memory messages.
func (s *ConversationStore) Session(id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: session %s", app_errors.ErrNotFound, id)
	}
	out := s.sessions[i].Clone()
	if id == s.activeID {
		out.Messages = model.CloneMessages(s.active)
	}
	return out, nil
}

// StartNewSession saves the active session and clears the conversation.
func (s *ConversationStore) StartNewSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return app_errors.ErrBusy
	}
	if s.activeID != "" && len(s.active) > 0 {
		s.flushLocked(ctx)
	}
	s.saver.Cancel()
	s.activeID = ""
	s.active = nil
	s.preset = nil
	s.dirty = false
	return nil
}

// SelectSession saves the active session and makes id the active one.
func (s *ConversationStore) SelectSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return app_errors.ErrBusy
	}
	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: session %s", app_errors.ErrNotFound, id)
	}
	if s.activeID != "" && len(s.active) > 0 {
		s.syncActiveLocked()
	}
	s.saver.Cancel()

	target := &s.sessions[i]
	target.UpdatedAt = s.clock.Now()
	s.activeID = id
	s.active = model.CloneMessages(target.Messages)
	s.preset = nil
	s.dirty = false
	s.persistLocked(ctx)
	slog.Debug("Session selected", "session_id", id)
	return nil
}

// DeleteSession removes a session. Deleting the active session clears the
// conversation. Unknown ids are ignored.
func (s *ConversationStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	if id == s.activeID {
		if s.pending {
			return app_errors.ErrBusy
		}
		s.saver.Cancel()
		s.activeID = ""
		s.active = nil
		s.preset = nil
		s.dirty = false
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	s.persistLocked(ctx)
	slog.Info("Session deleted", "session_id", id)
	return nil
}

// RenameSession sets a session title.
func (s *ConversationStore) RenameSession(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", app_errors.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: session %s", app_errors.ErrNotFound, id)
	}
	s.sessions[i].Title = title
	s.sessions[i].UpdatedAt = s.clock.Now()
	s.persistLocked(ctx)
	return nil
}

// Presets returns the available presets.
func (s *ConversationStore) Presets() []prompts.Preset {
	return append([]prompts.Preset(nil), s.presets...)
}

// SelectPreset arms a preset for the next send.
func (s *ConversationStore) SelectPreset(id string) error {
	p, ok := prompts.Find(s.presets, id)
	if !ok {
		return fmt.Errorf("%w: preset %s", app_errors.ErrNotFound, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preset = &p
	return nil
}

// ClearPreset disarms the selected preset.
func (s *ConversationStore) ClearPreset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preset = nil
}

// SendMessage appends text to the active conversation, waits for the reply
// and appends it. Blank text is a no-op returning a nil message. Completion
// failures arrive as reply text, so the only error is ErrBusy.
func (s *ConversationStore) SendMessage(ctx context.Context, text, modelID string) (*model.Message, error) {
	ex, ok, err := s.beginExchange(ctx, text, modelID)
	if err != nil || !ok {
		return nil, err
	}
	reply := s.completer.Complete(ctx, ex.prompt, ex.useKnowledge, ex.modelID)
	msg := s.finishExchange(ex, reply)
	return &msg, nil
}

// SendMessageStream is SendMessage with incremental delivery. Fragments are
// forwarded in order; the channel closes once the assembled reply has been
// appended. Callers must drain the channel or cancel ctx.
func (s *ConversationStore) SendMessageStream(ctx context.Context, text, modelID string) (<-chan llm.Fragment, error) {
	ex, ok, err := s.beginExchange(ctx, text, modelID)
	if err != nil {
		return nil, err
	}
	out := make(chan llm.Fragment)
	if !ok {
		close(out)
		return out, nil
	}

	frags := s.completer.Stream(ctx, ex.prompt, ex.useKnowledge, ex.modelID)
	go func() {
		defer close(out)
		var reply strings.Builder
		for f := range frags {
			reply.WriteString(f.Text)
			select {
			case out <- f:
			case <-ctx.Done():
			}
		}
		text := reply.String()
		if text == "" {
			text = interruptedReply
		}
		s.finishExchange(ex, text)
	}()
	return out, nil
}

// Flush writes a pending auto-save immediately and retries a failed write.
func (s *ConversationStore) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saver.Cancel()
	switch {
	case s.dirty && s.activeID != "":
		s.flushLocked(ctx)
	case s.unsaved:
		s.persistLocked(ctx)
	}
}

// Close flushes pending changes and stops the auto-save timer.
func (s *ConversationStore) Close(ctx context.Context) {
	s.Flush(ctx)
}

func (s *ConversationStore) beginExchange(ctx context.Context, text, modelID string) (exchange, bool, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return exchange{}, false, nil
	}
	if modelID == "" && s.models != nil {
		modelID = s.models.SelectedModel(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return exchange{}, false, app_errors.ErrBusy
	}

	now := s.clock.Now()
	if len(s.active) == 0 {
		s.active = append(s.active, model.NewMessage(model.RoleAssistant, WelcomeMessage, now))
	}
	s.active = append(s.active, model.NewMessage(model.RoleUser, text, now))
	s.pending = true
	s.touchLocked()

	ex := exchange{
		prompt:       text,
		userText:     trimmed,
		useKnowledge: prompts.NeedsKnowledge("", text),
		modelID:      modelID,
	}
	if s.preset != nil {
		ex.prompt = s.preset.Prompt + text
		ex.useKnowledge = prompts.NeedsKnowledge(s.preset.ID, text)
	}
	slog.Debug("Sending message", "session_id", s.activeID, "model", modelID, "knowledge", ex.useKnowledge)
	return ex, true, nil
}

// finishExchange appends the reply and creates or updates the active session.
func (s *ConversationStore) finishExchange(ex exchange, reply string) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	msg := model.NewMessage(model.RoleAssistant, reply, now)
	s.active = append(s.active, msg)

	if s.activeID == "" {
		session := model.Session{
			ID:        model.NewID(),
			Title:     history.DeriveTitle(firstUserText(s.active, ex.userText)),
			Messages:  model.CloneMessages(s.active),
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.sessions = append([]model.Session{session}, s.sessions...)
		s.activeID = session.ID
		slog.Info("Session created", "session_id", session.ID, "title", session.Title)
	} else if i := s.indexLocked(s.activeID); i >= 0 {
		s.sessions[i].Messages = model.CloneMessages(s.active)
		s.sessions[i].UpdatedAt = now
	}

	s.pending = false
	s.preset = nil
	s.touchLocked()
	return msg
}

// touchLocked marks the active conversation dirty and restarts the
// auto-save timer.
func (s *ConversationStore) touchLocked() {
	s.dirty = true
	if s.activeID != "" {
		s.saver.Trigger()
	}
}

// autosave runs on the debouncer's timer, without any store lock held.
func (s *ConversationStore) autosave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.activeID == "" {
		return
	}
	s.flushLocked(context.Background())
}

// flushLocked copies the active conversation into its session and writes
// the collection.
func (s *ConversationStore) flushLocked(ctx context.Context) {
	s.saver.Cancel()
	s.syncActiveLocked()
	s.persistLocked(ctx)
	s.dirty = false
}

func (s *ConversationStore) syncActiveLocked() {
	i := s.indexLocked(s.activeID)
	if i < 0 {
		return
	}
	session := &s.sessions[i]
	session.Messages = model.CloneMessages(s.active)
	session.UpdatedAt = s.clock.Now()
	if session.Title == history.PlaceholderTitle {
		session.Title = history.DeriveTitle(firstUserText(s.active, ""))
	}
}

// persistLocked writes the collection. The write outlives a cancelled
// request context; a failed write is retried by the next Flush.
func (s *ConversationStore) persistLocked(ctx context.Context) {
	s.unsaved = !s.storage.Save(context.WithoutCancel(ctx), ChatHistoryKey, s.sessions)
	if s.unsaved {
		slog.Warn("Chat history was not saved", "sessions", len(s.sessions))
	}
}

func (s *ConversationStore) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func firstUserText(msgs []model.Message, fallback string) string {
	for _, m := range msgs {
		if m.IsUser() {
			return m.Text
		}
	}
	return fallback
}
