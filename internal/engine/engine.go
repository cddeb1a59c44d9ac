// Package engine is the per-turn dispatcher: it loads the thread's
// checkpointed state, routes the message, runs exactly one action handler,
// merges the handler's delta and persists the result. One handler per turn,
// no chaining.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/learnmate/learnmate/internal/agent"
	"github.com/learnmate/learnmate/internal/model"
	"github.com/learnmate/learnmate/internal/router"
)

// CheckpointStore is the persistence contract the engine needs. LoadSession
// returns (nil, nil) for a thread that has never been saved.
type CheckpointStore interface {
	LoadSession(threadID string) (*model.SessionState, error)
	SaveSession(state *model.SessionState) error
	AppendLog(msg model.LogMessage) error
}

// TurnResult is the outcome of one dispatched turn.
type TurnResult struct {
	State  *model.SessionState
	Reply  string
	Action model.Action
}

// Defaults seed the settings of freshly created threads. Zero values fall
// back to the model defaults.
type Defaults struct {
	DurationDays int
	SkillLevel   string
}

type Engine struct {
	store    CheckpointStore
	router   *router.Router
	handlers agent.Registry
	defaults Defaults

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-thread turn serialization
}

func New(store CheckpointStore, r *router.Router, handlers agent.Registry, defaults Defaults) *Engine {
	return &Engine{
		store:    store,
		router:   r,
		handlers: handlers,
		defaults: defaults,
		locks:    make(map[string]*sync.Mutex),
	}
}

// newState creates a fresh thread state with the configured defaults applied.
func (e *Engine) newState(threadID string) *model.SessionState {
	state := model.NewSessionState(threadID)
	if e.defaults.DurationDays > 0 {
		state.DurationDays = e.defaults.DurationDays
	}
	if e.defaults.SkillLevel != "" {
		state.SkillLevel = e.defaults.SkillLevel
	}
	return state
}

// threadLock returns the mutex serializing turns for one thread id.
// Distinct threads proceed independently.
func (e *Engine) threadLock(threadID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[threadID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[threadID] = lock
	}
	return lock
}

// Turn processes one user message for a thread. Persistence failure is the
// only hard error; everything else degrades inside the handlers. On context
// cancellation nothing is persisted.
func (e *Engine) Turn(ctx context.Context, threadID, userText string) (*TurnResult, error) {
	lock := e.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.store.LoadSession(threadID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if state == nil {
		state = e.newState(threadID)
		slog.Info("new thread", "thread_id", threadID)
	}

	state.History = append(state.History, model.ChatMessage{Role: model.RoleUser, Content: userText})

	action := e.router.Route(ctx, state)
	handler, ok := e.handlers[action]
	if !ok {
		handler = e.handlers[model.ActionUnknown]
	}

	delta := handler.Handle(ctx, state)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state.Apply(delta)
	state.PendingAction = action
	state.History = append(state.History, model.ChatMessage{Role: model.RoleAssistant, Content: delta.Reply})

	if err := e.store.SaveSession(state); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	// The log is supplemental; the snapshot above already holds the history.
	e.appendLog(threadID, model.RoleUser, userText, "")
	e.appendLog(threadID, model.RoleAssistant, delta.Reply, action)

	slog.Info("turn", "thread_id", threadID, "action", action)
	return &TurnResult{State: state, Reply: delta.Reply, Action: action}, nil
}

func (e *Engine) appendLog(threadID string, role model.Role, content string, action model.Action) {
	err := e.store.AppendLog(model.LogMessage{
		ThreadID: threadID,
		Role:     role,
		Content:  content,
		Action:   action,
	})
	if err != nil {
		slog.Warn("append conversation log failed", "thread_id", threadID, "error", err)
	}
}

// State returns the checkpointed state for inspection, or nil when the
// thread is unknown.
func (e *Engine) State(threadID string) (*model.SessionState, error) {
	return e.store.LoadSession(threadID)
}

// Reset replaces a thread's state with a fresh empty one under the same id.
func (e *Engine) Reset(threadID string) (*model.SessionState, error) {
	lock := e.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	state := e.newState(threadID)
	if err := e.store.SaveSession(state); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	slog.Info("thread reset", "thread_id", threadID)
	return state, nil
}
