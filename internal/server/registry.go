package server

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/logging"
	"github.com/mj1618/browser-cli/internal/steps"
)

// entry is one open browser session. mu serializes tool calls on it.
type entry struct {
	mu       sync.Mutex
	id       string
	runner   *steps.Runner
	lastUsed time.Time
}

// Registry tracks open sessions by id. Sessions left idle longer than the
// TTL are closed by Sweep. A ttl of 0 keeps sessions until closed.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	log     *logging.Logger
}

// NewRegistry creates an empty registry. Browser close failures during
// Sweep and CloseAll are logged to log, which may be nil.
func NewRegistry(ttl time.Duration, log *logging.Logger) *Registry {
	if log == nil {
		log = logging.Nop()
	}
	return &Registry{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
}

// Add stores r under a new random id and returns it.
func (g *Registry) Add(r *steps.Runner) string {
	id := uuid.NewString()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[id] = &entry{id: id, runner: r, lastUsed: g.now()}
	return id
}

// Acquire locks the session with the given id and marks it used. The
// caller must call the returned release func.
func (g *Registry) Acquire(id string) (*steps.Runner, func(), error) {
	g.mu.Lock()
	e, ok := g.entries[id]
	if ok {
		e.lastUsed = g.now()
	}
	g.mu.Unlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown session %q", id)
	}
	e.mu.Lock()
	return e.runner, e.mu.Unlock, nil
}

// Remove deletes the session and closes its browser.
func (g *Registry) Remove(id string) error {
	g.mu.Lock()
	e, ok := g.entries[id]
	delete(g.entries, id)
	g.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown session %q", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runner.Session.Close()
}

// IDs lists open session ids in sorted order.
func (g *Registry) IDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.entries))
	for id := range g.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sweep closes sessions idle for longer than the TTL and returns their ids.
func (g *Registry) Sweep() []string {
	if g.ttl == 0 {
		return nil
	}
	g.mu.Lock()
	var expired []string
	for id, e := range g.entries {
		if g.now().Sub(e.lastUsed) >= g.ttl {
			expired = append(expired, id)
		}
	}
	g.mu.Unlock()
	sort.Strings(expired)
	for _, id := range expired {
		g.close(id)
	}
	return expired
}

// CloseAll closes every session.
func (g *Registry) CloseAll() {
	for _, id := range g.IDs() {
		g.close(id)
	}
}

func (g *Registry) close(id string) {
	if err := g.Remove(id); err != nil {
		g.log.Warn("close browser", zap.String("session", id), zap.Error(err))
	}
}
