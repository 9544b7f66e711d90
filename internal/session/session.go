// Package session is the action facade test authors drive a browser through.
// Every operation resolves its locator, optionally highlights the target,
// performs one driver primitive and then waits for the page to settle.
package session

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/locator"
	"github.com/mj1618/browser-cli/internal/logging"
	"github.com/mj1618/browser-cli/internal/model"
	"github.com/mj1618/browser-cli/internal/wait"
)

// Session is a handle on one browser. It is not safe for concurrent use;
// callers sharing a session serialize access themselves.
type Session struct {
	driver  browser.Driver
	runtime *config.Runtime
	log     *logging.Logger
	clock   wait.Clock
}

// Option configures a Session.
type Option func(*Session)

// WithRuntime makes the session read its defaults from r instead of
// config.Default().
func WithRuntime(r *config.Runtime) Option {
	return func(s *Session) { s.runtime = r }
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock replaces the wall clock used by waits and Sleep.
func WithClock(c wait.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// New wraps a driver in a Session.
func New(d browser.Driver, opts ...Option) *Session {
	s := &Session{driver: d}
	for _, o := range opts {
		o(s)
	}
	if s.runtime == nil {
		s.runtime = config.Default()
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	return s
}

// Driver returns the underlying driver.
func (s *Session) Driver() browser.Driver { return s.driver }

// Runtime returns the defaults this session reads.
func (s *Session) Runtime() *config.Runtime { return s.runtime }

// Logger returns the session logger.
func (s *Session) Logger() *logging.Logger { return s.log }

// Close ends the browser session.
func (s *Session) Close() error {
	s.log.Debug("closing browser")
	return s.driver.Close()
}

func (s *Session) poller() *wait.Poller {
	p := wait.NewPoller(s.runtime.Interval())
	if s.clock != nil {
		p.Clock = s.clock
	}
	return p
}

func (s *Session) now() time.Time {
	return s.poller().Clock.Now()
}

// Now reads the clock the session waits and sleeps on.
func (s *Session) Now() time.Time { return s.now() }

// find returns every element matching raw.
func (s *Session) find(raw string) ([]browser.Element, error) {
	spec, err := locator.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.driver.FindElements(spec)
}

// first returns the first element matching raw, or an error matching
// browser.ErrNotFound when there is none.
func (s *Session) first(raw string) (browser.Element, error) {
	els, err := s.find(raw)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", raw, browser.ErrNotFound)
	}
	return els[0], nil
}

func (s *Session) highlight(c *call, el browser.Element) {
	if !c.highlightOn(s.runtime) {
		return
	}
	if err := el.Highlight(); err != nil {
		s.log.Debug("highlight failed", zap.Error(err))
	}
}

// category classifies a found element. Lookup failures return "".
func (s *Session) category(el browser.Element) string {
	tag, err := el.TagName()
	if err != nil {
		s.log.Debug("could not read tag name", zap.Error(err))
		return ""
	}
	typ, err := el.Attribute("type")
	if err != nil {
		s.log.Debug("could not read type attribute", zap.Error(err))
	}
	return model.Classify(tag, typ)
}

// describe returns the text action logs use for the target of an action.
func (s *Session) describe(c *call, raw string, el browser.Element) string {
	if c.label != nil {
		if t, err := s.Text(c.label.Locator); err == nil && t != "" {
			return "element: " + t
		} else if err != nil {
			s.log.Debug("could not read label text", zap.String("label", c.label.Locator), zap.Error(err))
		}
	}
	subject := raw
	if c.name != "" {
		subject = c.name
	}
	if el == nil {
		return subject
	}
	return model.Describe(s.category(el), subject)
}
