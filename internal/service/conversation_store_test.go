package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"capture-gpt/backend/internal/clock"
	app_errors "capture-gpt/backend/internal/errors"
	"capture-gpt/backend/internal/llm"
	"capture-gpt/backend/internal/llm/mocks"
	"capture-gpt/backend/internal/model"
	"capture-gpt/backend/internal/prompts"
	"capture-gpt/backend/internal/service"
	"capture-gpt/backend/internal/storage"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// countingBackend records how many times each key was written.
type countingBackend struct {
	storage.Backend
	mu   sync.Mutex
	sets map[string]int
}

func newCountingBackend() *countingBackend {
	return &countingBackend{Backend: storage.NewMemoryBackend(), sets: map[string]int{}}
}

func (b *countingBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	b.sets[key]++
	b.mu.Unlock()
	return b.Backend.Set(ctx, key, value)
}

func (b *countingBackend) saves(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sets[key]
}

func (b *countingBackend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sets = map[string]int{}
}

type storeFixture struct {
	store     *service.ConversationStore
	clock     *clock.Fake
	backend   *countingBackend
	adapter   *storage.Adapter
	completer *mocks.MockCompleter
}

const historyKey = storage.DefaultPrefix + "_" + service.ChatHistoryKey

// setupStore builds a store over an in-memory backend, a fake clock and a
// mocked completer.
func setupStore(t *testing.T) *storeFixture {
	t.Helper()
	f := &storeFixture{
		clock:     clock.NewFake(t0),
		backend:   newCountingBackend(),
		completer: mocks.NewMockCompleter(t),
	}
	f.adapter = storage.NewAdapter(f.backend, "")
	f.store = service.NewConversationStore(context.Background(), f.adapter, f.completer, service.StoreOptions{Clock: f.clock})
	return f
}

func (f *storeFixture) stored(t *testing.T) []model.Session {
	t.Helper()
	return storage.Load[[]model.Session](context.Background(), f.adapter, service.ChatHistoryKey, nil)
}

func fragments(items ...llm.Fragment) <-chan llm.Fragment {
	ch := make(chan llm.Fragment, len(items))
	for _, it := range items {
		ch <- it
	}
	close(ch)
	return ch
}

// TestConversationStore_FirstSendCreatesSession checks that a conversation
// becomes a session on its first completed exchange and that later sends
// update it in place.
func TestConversationStore_FirstSendCreatesSession(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, "  How do I export a ProRes master?  ", false, "gpt-4o").Return("Use the deliver page.").Once()
	f.completer.On("Complete", mock.Anything, "And for H.264?", false, "gpt-4o").Return("Pick the H.264 preset.").Once()

	// ACT: first send on a blank conversation.
	reply, err := f.store.SendMessage(ctx, "  How do I export a ProRes master?  ", "gpt-4o")

	// ASSERT
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "Use the deliver page.", reply.Text)
	assert.Equal(t, model.RoleAssistant, reply.Role)

	state := f.store.State()
	require.Len(t, state.Messages, 3)
	assert.Equal(t, service.WelcomeMessage, state.Messages[0].Text)
	assert.Equal(t, model.RoleUser, state.Messages[1].Role)
	assert.Equal(t, "  How do I export a ProRes master?  ", state.Messages[1].Text, "text is stored as typed")
	assert.Equal(t, reply.ID, state.Messages[2].ID)
	assert.False(t, state.Pending)
	require.NotEmpty(t, state.ActiveSessionID)

	sessions := f.store.Sessions("")
	require.Len(t, sessions, 1)
	assert.Equal(t, state.ActiveSessionID, sessions[0].ID)
	assert.Equal(t, "How do I export a ProRes master?", sessions[0].Title)
	assert.Equal(t, 3, sessions[0].MessageCount)

	// ACT: second send on the same session.
	f.clock.Advance(time.Minute)
	_, err = f.store.SendMessage(ctx, "And for H.264?", "gpt-4o")
	require.NoError(t, err)

	// ASSERT: same session, two more messages, no welcome repeat.
	sessions = f.store.Sessions("")
	require.Len(t, sessions, 1)
	assert.Equal(t, state.ActiveSessionID, sessions[0].ID)
	assert.Equal(t, 5, sessions[0].MessageCount)
	assert.Equal(t, t0.Add(time.Minute), sessions[0].UpdatedAt)
	assert.Equal(t, t0, sessions[0].CreatedAt)
}

func TestConversationStore_BlankTextIsNoop(t *testing.T) {
	f := setupStore(t)

	reply, err := f.store.SendMessage(context.Background(), " \n\t ", "")
	require.NoError(t, err)
	assert.Nil(t, reply)

	ch, err := f.store.SendMessageStream(context.Background(), "", "")
	require.NoError(t, err)
	_, open := <-ch
	assert.False(t, open)

	assert.Empty(t, f.store.State().Messages)
	f.completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestConversationStore_FailuresBecomeMessages drives the real completion
// client into each failure mode.
//
// GOAL: every failure appends exactly one non-empty assistant message and
// leaves the store idle.
func TestConversationStore_FailuresBecomeMessages(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	apiErr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"The server had an error"}}`))
	}))
	defer apiErr.Close()

	cases := []struct {
		name string
		cfg  llm.Config
	}{
		{"Network failure", llm.Config{BaseURL: downURL, APIKey: "sk-test"}},
		{"API error", llm.Config{BaseURL: apiErr.URL, APIKey: "sk-test"}},
		{"Missing credential", llm.Config{BaseURL: apiErr.URL, APIKey: llm.PlaceholderAPIKey}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adapter := storage.NewAdapter(storage.NewMemoryBackend(), "")
			store := service.NewConversationStore(context.Background(), adapter, llm.NewClient(tc.cfg, nil, nil), service.StoreOptions{Clock: clock.NewFake(t0)})

			reply, err := store.SendMessage(context.Background(), "hello", "")

			require.NoError(t, err)
			require.NotNil(t, reply)
			assert.NotEmpty(t, reply.Text)
			state := store.State()
			assert.False(t, state.Pending)
			require.Len(t, state.Messages, 3)
			assert.Equal(t, model.RoleAssistant, state.Messages[2].Role)
			assert.Equal(t, reply.Text, state.Messages[2].Text)
		})
	}
}

// TestConversationStore_AutosaveCollapsesBursts checks that rapid mutations
// produce one write once the quiet period elapses.
func TestConversationStore_AutosaveCollapsesBursts(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, mock.Anything, false, "gpt-4o").Return("ok")

	_, err := f.store.SendMessage(ctx, "first", "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, 0, f.backend.saves(historyKey), "session creation is saved by the debounced flush")
	f.clock.Advance(service.DefaultAutosaveDelay)
	require.Equal(t, 1, f.backend.saves(historyKey))
	f.backend.reset()

	// ACT: three sends inside the window.
	for i := 0; i < 3; i++ {
		_, err := f.store.SendMessage(ctx, fmt.Sprintf("edit %d", i), "gpt-4o")
		require.NoError(t, err)
		f.clock.Advance(100 * time.Millisecond)
	}

	// ASSERT
	assert.Equal(t, 0, f.backend.saves(historyKey))
	f.clock.Advance(399 * time.Millisecond)
	assert.Equal(t, 0, f.backend.saves(historyKey))
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, 1, f.backend.saves(historyKey))

	stored := f.stored(t)
	require.Len(t, stored, 1)
	require.Len(t, stored[0].Messages, 9)
	assert.Equal(t, "edit 2", stored[0].Messages[7].Text)
	assert.Equal(t, f.clock.Now(), stored[0].UpdatedAt)

	f.clock.Advance(time.Hour)
	assert.Equal(t, 1, f.backend.saves(historyKey), "nothing left to flush")
}

func TestConversationStore_FlushAndClose(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok")

	_, err := f.store.SendMessage(ctx, "keep me", "")
	require.NoError(t, err)
	require.Equal(t, 1, f.clock.Pending())

	f.store.Close(ctx)

	assert.Equal(t, 1, f.backend.saves(historyKey))
	assert.Equal(t, 0, f.clock.Pending())
	require.Len(t, f.stored(t), 1)

	f.store.Flush(ctx)
	assert.Equal(t, 1, f.backend.saves(historyKey), "clean state is not rewritten")
}

// TestConversationStore_DeleteSession covers deleting active and inactive
// sessions.
func TestConversationStore_DeleteSession(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok")

	_, err := f.store.SendMessage(ctx, "older conversation", "")
	require.NoError(t, err)
	older := f.store.State().ActiveSessionID
	require.NoError(t, f.store.StartNewSession(ctx))
	_, err = f.store.SendMessage(ctx, "current conversation", "")
	require.NoError(t, err)
	current := f.store.State()

	t.Run("Non-active session leaves the conversation untouched", func(t *testing.T) {
		require.NoError(t, f.store.DeleteSession(ctx, older))

		state := f.store.State()
		assert.Equal(t, current.ActiveSessionID, state.ActiveSessionID)
		assert.Equal(t, current.Messages, state.Messages)
		stored := f.stored(t)
		require.Len(t, stored, 1)
		assert.Equal(t, current.ActiveSessionID, stored[0].ID)
	})

	t.Run("Unknown id is ignored", func(t *testing.T) {
		assert.NoError(t, f.store.DeleteSession(ctx, "missing"))
		assert.Len(t, f.store.Sessions(""), 1)
	})

	t.Run("Active session clears the conversation", func(t *testing.T) {
		require.NoError(t, f.store.DeleteSession(ctx, current.ActiveSessionID))

		state := f.store.State()
		assert.Empty(t, state.ActiveSessionID)
		assert.Empty(t, state.Messages)
		assert.Empty(t, f.store.Sessions(""))
		assert.Empty(t, f.stored(t))
		assert.Equal(t, 0, f.clock.Pending(), "no auto-save left for a deleted session")
	})
}

func TestConversationStore_SelectSession(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok")

	_, err := f.store.SendMessage(ctx, "first topic", "")
	require.NoError(t, err)
	first := f.store.State().ActiveSessionID
	require.NoError(t, f.store.StartNewSession(ctx))
	_, err = f.store.SendMessage(ctx, "second topic", "")
	require.NoError(t, err)
	second := f.store.State()

	t.Run("Unknown id leaves state unchanged", func(t *testing.T) {
		err := f.store.SelectSession(ctx, "nope")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
		assert.Equal(t, second, f.store.State())
	})

	t.Run("Switches and touches the target", func(t *testing.T) {
		require.NoError(t, f.store.SelectPreset("email"))
		f.clock.Advance(2 * time.Hour)

		require.NoError(t, f.store.SelectSession(ctx, first))

		state := f.store.State()
		assert.Equal(t, first, state.ActiveSessionID)
		require.Len(t, state.Messages, 3)
		assert.Equal(t, "first topic", state.Messages[1].Text)
		assert.Empty(t, state.PresetID, "selecting a session clears the preset")

		target, err := f.store.Session(first)
		require.NoError(t, err)
		assert.Equal(t, f.clock.Now(), target.UpdatedAt)

		stored := f.stored(t)
		require.Len(t, stored, 2)
		for _, s := range stored {
			if s.ID == second.ActiveSessionID {
				assert.Len(t, s.Messages, 3, "previous session was flushed")
			}
		}
	})
}

func TestConversationStore_StartNewSession(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok")

	t.Run("Nothing to flush", func(t *testing.T) {
		require.NoError(t, f.store.StartNewSession(ctx))
		assert.Equal(t, 0, f.backend.saves(historyKey))
	})

	t.Run("Flushes and clears", func(t *testing.T) {
		_, err := f.store.SendMessage(ctx, "rough cut notes", "")
		require.NoError(t, err)
		require.NoError(t, f.store.SelectPreset("feedback"))

		require.NoError(t, f.store.StartNewSession(ctx))

		state := f.store.State()
		assert.Empty(t, state.ActiveSessionID)
		assert.Empty(t, state.Messages)
		assert.Empty(t, state.PresetID)
		assert.Equal(t, 1, f.backend.saves(historyKey))
		assert.Equal(t, 0, f.clock.Pending())
		assert.Len(t, f.stored(t), 1)
	})
}

// TestConversationStore_Presets checks prompt construction and that a preset
// applies to a single send.
func TestConversationStore_Presets(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	sop, _ := prompts.Find(prompts.DefaultPresets(), prompts.PresetSOP)
	f.completer.On("Complete", mock.Anything, sop.Prompt+"how do we deliver?", true, "gpt-4o").Return("Per our SOP...").Once()
	f.completer.On("Complete", mock.Anything, "thanks", false, "gpt-4o").Return("You're welcome").Once()

	assert.Len(t, f.store.Presets(), 3)
	assert.ErrorIs(t, f.store.SelectPreset("unknown"), app_errors.ErrNotFound)

	require.NoError(t, f.store.SelectPreset(prompts.PresetSOP))
	assert.Equal(t, prompts.PresetSOP, f.store.State().PresetID)

	_, err := f.store.SendMessage(ctx, "how do we deliver?", "gpt-4o")
	require.NoError(t, err)
	assert.Empty(t, f.store.State().PresetID)

	// The stored user text is the raw input, not the expanded prompt.
	assert.Equal(t, "how do we deliver?", f.store.State().Messages[1].Text)
	assert.Equal(t, "how do we deliver?", f.store.Sessions("")[0].Title)

	_, err = f.store.SendMessage(ctx, "thanks", "gpt-4o")
	require.NoError(t, err)

	require.NoError(t, f.store.SelectPreset("email"))
	f.store.ClearPreset()
	assert.Empty(t, f.store.State().PresetID)
}

func TestConversationStore_KnowledgeKeywords(t *testing.T) {
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, "What is the Frame.io workflow?", true, "gpt-4o").Return("ok").Once()

	_, err := f.store.SendMessage(context.Background(), "What is the Frame.io workflow?", "gpt-4o")
	require.NoError(t, err)
}

// TestConversationStore_BusyWhilePending verifies that a second send, a
// session switch or deleting the active session are rejected while a reply is
// outstanding.
func TestConversationStore_BusyWhilePending(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.completer.On("Complete", mock.Anything, "other", mock.Anything, mock.Anything).Return("ok").Once()
	f.completer.On("Complete", mock.Anything, "slow question", mock.Anything, mock.Anything).
		Return(func(context.Context, string, bool, string) string {
			close(started)
			<-release
			return "slow answer"
		}).Once()

	_, err := f.store.SendMessage(ctx, "other", "")
	require.NoError(t, err)
	other := f.store.State().ActiveSessionID
	require.NoError(t, f.store.StartNewSession(ctx))

	done := make(chan *model.Message)
	go func() {
		msg, err := f.store.SendMessage(ctx, "slow question", "")
		assert.NoError(t, err)
		done <- msg
	}()
	<-started

	assert.True(t, f.store.State().Pending)
	_, err = f.store.SendMessage(ctx, "impatient", "")
	assert.ErrorIs(t, err, app_errors.ErrBusy)
	assert.ErrorIs(t, err, app_errors.ErrConflict)
	_, err = f.store.SendMessageStream(ctx, "impatient", "")
	assert.ErrorIs(t, err, app_errors.ErrBusy)
	assert.ErrorIs(t, f.store.StartNewSession(ctx), app_errors.ErrBusy)
	assert.ErrorIs(t, f.store.SelectSession(ctx, other), app_errors.ErrBusy)
	assert.NoError(t, f.store.DeleteSession(ctx, other), "inactive sessions may be deleted")

	close(release)
	msg := <-done
	require.NotNil(t, msg)
	assert.Equal(t, "slow answer", msg.Text)

	state := f.store.State()
	assert.False(t, state.Pending)
	assert.Len(t, state.Messages, 3)
	assert.Len(t, f.store.Sessions(""), 1)
}

func TestConversationStore_SendMessageStream(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Stream", mock.Anything, "tell me a story", false, "gpt-4").
		Return(fragments(llm.Fragment{Text: "Once "}, llm.Fragment{Text: "upon "}, llm.Fragment{Text: "a time"})).Once()

	ch, err := f.store.SendMessageStream(ctx, "tell me a story", "gpt-4")
	require.NoError(t, err)

	var got []string
	for frag := range ch {
		got = append(got, frag.Text)
	}

	assert.Equal(t, []string{"Once ", "upon ", "a time"}, got)
	state := f.store.State()
	assert.False(t, state.Pending)
	require.Len(t, state.Messages, 3)
	assert.Equal(t, "Once upon a time", state.Messages[2].Text)
	assert.NotEmpty(t, state.ActiveSessionID)
}

func TestConversationStore_SendMessageStreamError(t *testing.T) {
	f := setupStore(t)
	f.completer.On("Stream", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fragments(llm.Fragment{Text: "partial "}, llm.Fragment{Text: "❌ Error: boom", Err: true})).Once()

	ch, err := f.store.SendMessageStream(context.Background(), "hi", "")
	require.NoError(t, err)

	var last llm.Fragment
	for frag := range ch {
		last = frag
	}

	assert.True(t, last.Err)
	state := f.store.State()
	assert.Equal(t, "partial ❌ Error: boom", state.Messages[2].Text)
	assert.False(t, state.Pending)
}

func TestConversationStore_SendMessageStreamEmptyReply(t *testing.T) {
	f := setupStore(t)
	f.completer.On("Stream", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(fragments()).Once()

	ch, err := f.store.SendMessageStream(context.Background(), "hi", "")
	require.NoError(t, err)
	for range ch {
	}

	state := f.store.State()
	require.Len(t, state.Messages, 3)
	assert.NotEmpty(t, state.Messages[2].Text)
}

func TestConversationStore_RenameSession(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok")
	_, err := f.store.SendMessage(ctx, "untitled thoughts", "")
	require.NoError(t, err)
	id := f.store.State().ActiveSessionID

	assert.ErrorIs(t, f.store.RenameSession(ctx, id, "   "), app_errors.ErrValidation)
	assert.ErrorIs(t, f.store.RenameSession(ctx, "missing", "x"), app_errors.ErrNotFound)

	require.NoError(t, f.store.RenameSession(ctx, id, "  Client kickoff  "))

	s, err := f.store.Session(id)
	require.NoError(t, err)
	assert.Equal(t, "Client kickoff", s.Title)
	assert.Equal(t, "Client kickoff", f.stored(t)[0].Title)
}

func TestConversationStore_PlaceholderTitleIsRegenerated(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	adapter := storage.NewAdapter(backend, "")
	legacy := []model.Session{{
		ID:    "1700000000000",
		Title: "New Chat",
		Messages: []model.Message{
			{ID: "1", Text: service.WelcomeMessage, Role: model.RoleAssistant, Timestamp: t0},
			{ID: "2", Text: "Color grading checklist for the spring campaign please", Role: model.RoleUser, Timestamp: t0},
		},
		CreatedAt: t0,
	}}
	require.True(t, adapter.Save(ctx, service.ChatHistoryKey, legacy))

	completer := mocks.NewMockCompleter(t)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok")
	clk := clock.NewFake(t0.Add(time.Hour))
	store := service.NewConversationStore(ctx, adapter, completer, service.StoreOptions{Clock: clk})

	require.NoError(t, store.SelectSession(ctx, "1700000000000"))
	_, err := store.SendMessage(ctx, "and the deliverables", "")
	require.NoError(t, err)
	store.Flush(ctx)

	s, err := store.Session("1700000000000")
	require.NoError(t, err)
	assert.Equal(t, "Color grading checklist for the spring...", s.Title)
	assert.Len(t, s.Messages, 4)
}

func TestConversationStore_LoadsStoredHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing sessions", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		require.NoError(t, backend.Set(ctx, historyKey, `[{"id":1,"title":"Legacy","messages":[{"id":2,"text":"hi","isUser":true,"timestamp":"2025-03-01T10:00:00Z"}],"createdAt":"2025-03-01T10:00:00Z"}]`))

		store := service.NewConversationStore(ctx, storage.NewAdapter(backend, ""), mocks.NewMockCompleter(t), service.StoreOptions{Clock: clock.NewFake(t0)})

		sessions := store.Sessions("")
		require.Len(t, sessions, 1)
		assert.Equal(t, "1", sessions[0].ID)
		assert.Equal(t, "Previous 30 Days", sessions[0].Bucket)
		assert.Empty(t, store.State().ActiveSessionID, "nothing is active after load")
	})

	t.Run("Corrupt payload starts empty", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		require.NoError(t, backend.Set(ctx, historyKey, `{not json`))

		store := service.NewConversationStore(ctx, storage.NewAdapter(backend, ""), mocks.NewMockCompleter(t), service.StoreOptions{Clock: clock.NewFake(t0)})

		assert.Empty(t, store.Sessions(""))
		assert.NotNil(t, store.Groups(""))
	})
}

func TestConversationStore_SearchAndGroups(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	f.completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok")

	_, err := f.store.SendMessage(ctx, "Draft email to Acme", "")
	require.NoError(t, err)
	require.NoError(t, f.store.StartNewSession(ctx))
	f.clock.Advance(26 * time.Hour)
	_, err = f.store.SendMessage(ctx, "Frame.io notes", "")
	require.NoError(t, err)

	found := f.store.Sessions("EMAIL")
	require.Len(t, found, 1)
	assert.Equal(t, "Draft email to Acme", found[0].Title)

	groups := f.store.Groups("")
	require.Len(t, groups, 2)
	assert.Equal(t, "Today", string(groups[0].Bucket))
	assert.Equal(t, "Yesterday", string(groups[1].Bucket))

	_, err = f.store.Session("missing")
	assert.True(t, errors.Is(err, app_errors.ErrNotFound))
}

func TestConversationStore_UsesSelectedModel(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), "")
	settings := service.NewSettingsService(adapter, llm.DefaultRegistry())
	_, err := settings.SelectModel(ctx, "gpt-3.5-turbo")
	require.NoError(t, err)

	completer := mocks.NewMockCompleter(t)
	completer.On("Complete", mock.Anything, "hi", false, "gpt-3.5-turbo").Return("ok").Once()
	store := service.NewConversationStore(ctx, adapter, completer, service.StoreOptions{Clock: clock.NewFake(t0), Models: settings})

	_, err = store.SendMessage(ctx, "hi", "")
	require.NoError(t, err)
}

// failingBackend rejects writes while fail is set.
type failingBackend struct {
	storage.Backend
	mu   sync.Mutex
	fail bool
}

func (b *failingBackend) setFail(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = v
}

func (b *failingBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	fail := b.fail
	b.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return b.Backend.Set(ctx, key, value)
}

// TestConversationStore_DeleteWithCancelledContext checks that a delete whose
// request context is already cancelled still reaches SQLite, so the session
// does not come back after a restart.
func TestConversationStore_DeleteWithCancelledContext(t *testing.T) {
	// ARRANGE: a store over a real SQLite file with one saved session.
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	backend, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	completer := mocks.NewMockCompleter(t)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok").Once()
	store := service.NewConversationStore(ctx, storage.NewAdapter(backend, ""), completer, service.StoreOptions{Clock: clock.NewFake(t0)})

	_, err = store.SendMessage(ctx, "client review notes", "")
	require.NoError(t, err)
	store.Flush(ctx)
	id := store.State().ActiveSessionID
	require.NotEmpty(t, id)

	// ACT: delete with a request context the client has already abandoned.
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.NoError(t, store.DeleteSession(cancelled, id))
	store.Close(ctx)
	require.NoError(t, backend.Close())

	// ASSERT: a fresh store over the same file sees no sessions.
	reopened, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	restarted := service.NewConversationStore(ctx, storage.NewAdapter(reopened, ""), mocks.NewMockCompleter(t), service.StoreOptions{Clock: clock.NewFake(t0)})
	assert.Empty(t, restarted.Sessions(""))
}

// TestConversationStore_FailedWriteIsRetried checks that a collection write
// that failed is written again by Close.
func TestConversationStore_FailedWriteIsRetried(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{Backend: storage.NewMemoryBackend()}
	adapter := storage.NewAdapter(backend, "")
	completer := mocks.NewMockCompleter(t)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok")
	store := service.NewConversationStore(ctx, adapter, completer, service.StoreOptions{Clock: clock.NewFake(t0)})
	load := func() []model.Session {
		return storage.Load[[]model.Session](ctx, adapter, service.ChatHistoryKey, nil)
	}

	_, err := store.SendMessage(ctx, "first", "")
	require.NoError(t, err)
	keep := store.State().ActiveSessionID
	require.NoError(t, store.StartNewSession(ctx))
	_, err = store.SendMessage(ctx, "second", "")
	require.NoError(t, err)
	store.Flush(ctx)
	require.Len(t, load(), 2)

	backend.setFail(true)
	require.NoError(t, store.DeleteSession(ctx, keep))
	require.Len(t, load(), 2, "write was rejected")

	backend.setFail(false)
	store.Close(ctx)

	stored := load()
	require.Len(t, stored, 1)
	assert.NotEqual(t, keep, stored[0].ID)
}

// TestConversationStore_SendKeepsRawText checks that surrounding whitespace
// only matters for the blank check and the title.
func TestConversationStore_SendKeepsRawText(t *testing.T) {
	ctx := context.Background()
	f := setupStore(t)
	raw := "\n  Timeline:\n  - 00:12 cut\n"
	f.completer.On("Complete", mock.Anything, raw, false, "").Return("noted").Once()

	_, err := f.store.SendMessage(ctx, raw, "")
	require.NoError(t, err)

	state := f.store.State()
	require.Len(t, state.Messages, 3)
	assert.Equal(t, raw, state.Messages[1].Text)
	sessions := f.store.Sessions("")
	require.Len(t, sessions, 1)
	assert.Equal(t, "Timeline:\n  - 00:12 cut", sessions[0].Title)
}
