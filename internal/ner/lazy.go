package ner

import (
	"context"
	"sync"

	"github.com/dealguard-ai/dealguard/internal/redact"
)

// State describes a lazy engine's lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateWarming State = "warming"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Lazy defers model loading to a one-time background warm-up. Recognize
// never blocks on the load: it returns ErrUnavailable until the model is
// ready, and keeps returning it if the load failed.
type Lazy struct {
	load func() (Engine, error)

	mu     sync.Mutex
	state  State
	engine Engine
}

// NewLazy wraps a loader. The loader runs at most once, on the first WarmUp.
func NewLazy(load func() (Engine, error)) *Lazy {
	return &Lazy{load: load, state: StateIdle}
}

// WarmUp starts the background load. Safe to call more than once.
func (l *Lazy) WarmUp() {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return
	}
	l.state = StateWarming
	l.mu.Unlock()

	go func() {
		engine, err := l.load()

		l.mu.Lock()
		defer l.mu.Unlock()
		if err != nil {
			l.state = StateFailed
			redact.Logf("ner: model warm-up failed: %v", err)
			return
		}
		l.engine = engine
		l.state = StateReady
		redact.Logf("ner: model ready")
	}()
}

// State reports the current lifecycle state.
func (l *Lazy) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Recognize delegates to the loaded engine, or fails fast with
// ErrUnavailable while the model is idle, warming, or failed. An idle
// engine starts warming in the background so a later call can succeed.
func (l *Lazy) Recognize(ctx context.Context, text string) ([]Entity, error) {
	l.mu.Lock()
	engine := l.engine
	state := l.state
	l.mu.Unlock()

	if state == StateIdle {
		l.WarmUp()
	}
	if state != StateReady || engine == nil {
		return nil, ErrUnavailable
	}
	return engine.Recognize(ctx, text)
}
