// Package config holds the knobs every session reads: the process-wide
// runtime defaults and the file/env configuration they are loaded from.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/browser-cli/internal/ajax"
	"github.com/mj1618/browser-cli/internal/locator"
	"github.com/mj1618/browser-cli/internal/wait"
)

const (
	// DefaultTimeout is the default wait timeout, in milliseconds.
	DefaultTimeout = "60000"
	// DefaultMarker is the element whose visibility means "page loaded".
	DefaultMarker = "dashboard"
)

// Runtime is the mutable set of defaults shared by every session holding it.
// Changes take effect for all subsequent calls of those sessions.
type Runtime struct {
	mu        sync.RWMutex
	timeout   string
	marker    string
	ajax      string
	highlight bool
	interval  time.Duration
}

// NewRuntime returns a Runtime with the built-in defaults.
func NewRuntime() *Runtime {
	return &Runtime{
		timeout:   DefaultTimeout,
		marker:    DefaultMarker,
		highlight: true,
		interval:  wait.DefaultInterval,
	}
}

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
)

// Default returns the process-wide Runtime, creating it on first use.
func Default() *Runtime {
	defaultOnce.Do(func() {
		defaultRuntime = NewRuntime()
	})
	return defaultRuntime
}

// ParseMillis parses a string-encoded millisecond count.
func ParseMillis(ms string) (time.Duration, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(ms), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid timeout %q: want a non-negative number of milliseconds", ms)
	}
	return time.Duration(n) * time.Millisecond, nil
}

// SetTimeout sets the default wait timeout from milliseconds, e.g. "30000".
func (r *Runtime) SetTimeout(ms string) error {
	if _, err := ParseMillis(ms); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeout = strings.TrimSpace(ms)
	return nil
}

// TimeoutMillis returns the default wait timeout as configured.
func (r *Runtime) TimeoutMillis() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.timeout
}

// Timeout returns the default wait timeout.
func (r *Runtime) Timeout() time.Duration {
	d, _ := ParseMillis(r.TimeoutMillis())
	return d
}

// SetMarker sets the page-ready marker locator. Empty restores the default.
func (r *Runtime) SetMarker(raw string) error {
	if raw == "" {
		raw = DefaultMarker
	}
	if _, err := locator.Parse(raw); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marker = raw
	return nil
}

// Marker returns the page-ready marker locator.
func (r *Runtime) Marker() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.marker
}

// SetAjax sets the AJAX-idle expression from a preset name or a custom
// expression. "" or "none" disables the AJAX-idle wait.
func (r *Runtime) SetAjax(nameOrExpr string) error {
	expr, err := ajax.Resolve(nameOrExpr)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ajax = expr
	return nil
}

// Ajax returns the AJAX-idle expression, or "" when none is configured.
func (r *Runtime) Ajax() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ajax
}

func (r *Runtime) SetHighlight(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlight = on
}

// Highlight reports whether actions flash their target element.
func (r *Runtime) Highlight() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.highlight
}

// SetInterval sets the poll interval. A non-positive value restores
// wait.DefaultInterval.
func (r *Runtime) SetInterval(d time.Duration) {
	if d <= 0 {
		d = wait.DefaultInterval
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interval = d
}

func (r *Runtime) Interval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.interval
}

// Apply copies the runtime knobs of f onto r. Empty fields keep their
// current values.
func (r *Runtime) Apply(f *File) error {
	if f.Timeout != "" {
		if err := r.SetTimeout(f.Timeout); err != nil {
			return err
		}
	}
	if f.Marker != "" {
		if err := r.SetMarker(f.Marker); err != nil {
			return err
		}
	}
	if f.Ajax != "" {
		if err := r.SetAjax(f.Ajax); err != nil {
			return err
		}
	}
	if f.Highlight != nil {
		r.SetHighlight(*f.Highlight)
	}
	if f.Interval > 0 {
		r.SetInterval(f.Interval)
	}
	return nil
}
