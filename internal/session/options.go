package session

import (
	"time"

	"github.com/mj1618/browser-cli/internal/ajax"
	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/model"
)

// CallOption adjusts a single operation.
type CallOption func(*call)

type call struct {
	highlight  *bool
	name       string
	label      *model.Element
	timeout    time.Duration
	hasTimeout bool
	ajax       *string
}

func newCall(opts []CallOption) *call {
	c := &call{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NoHighlight skips flashing the target element.
func NoHighlight() CallOption {
	return func(c *call) {
		off := false
		c.highlight = &off
	}
}

// Named sets the human-readable name used in the action log.
func Named(name string) CallOption {
	return func(c *call) { c.name = name }
}

// For takes the log name and label from a structured element descriptor.
func For(el model.Element) CallOption {
	return func(c *call) {
		c.name = el.Name
		c.label = el.Label
	}
}

// Within overrides the runtime default timeout for the waits of one call.
func Within(d time.Duration) CallOption {
	return func(c *call) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// AjaxIdle overrides the AJAX-idle expression for one call. It accepts a
// preset name, a custom expression, or "none".
func AjaxIdle(nameOrExpr string) CallOption {
	return func(c *call) { c.ajax = &nameOrExpr }
}

func (c *call) highlightOn(r *config.Runtime) bool {
	if c.highlight != nil {
		return *c.highlight
	}
	return r.Highlight()
}

func (c *call) timeoutOr(r *config.Runtime) time.Duration {
	if c.hasTimeout {
		if c.timeout < 0 {
			return 0
		}
		return c.timeout
	}
	return r.Timeout()
}

func (c *call) ajaxExpr(r *config.Runtime) (string, error) {
	if c.ajax == nil {
		return r.Ajax(), nil
	}
	return ajax.Resolve(*c.ajax)
}
