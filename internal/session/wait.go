package session

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/ajax"
	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/wait"
)

// WaitForPageToLoad waits for the page-ready marker to be visible and then
// for outstanding AJAX requests to finish.
func (s *Session) WaitForPageToLoad(opts ...CallOption) error {
	c := newCall(opts)
	marker := s.runtime.Marker()
	s.log.Debug("waiting for page to load", zap.String("marker", marker), zap.Duration("timeout", c.timeoutOr(s.runtime)))
	if err := s.waitVisible(c, marker); err != nil {
		return err
	}
	return s.ajaxWait(c)
}

// WaitForElement waits until loc matches at least one element.
func (s *Session) WaitForElement(loc string, opts ...CallOption) error {
	c := newCall(opts)
	timeout := c.timeoutOr(s.runtime)
	s.log.Action("wait for element", zap.String("locator", loc), zap.Duration("timeout", timeout))
	return s.waitPresent(loc, timeout)
}

func (s *Session) waitPresent(loc string, timeout time.Duration) error {
	return wait.True(s.poller(), "element "+loc+" to be present", func() (bool, error) {
		els, err := s.find(loc)
		if err != nil {
			return false, err
		}
		return len(els) > 0, nil
	}, timeout)
}

// WaitForVisible waits until loc is present and then displayed. Both phases
// share one deadline.
func (s *Session) WaitForVisible(loc string, opts ...CallOption) error {
	c := newCall(opts)
	s.log.Action("wait for visible", zap.String("locator", loc), zap.Duration("timeout", c.timeoutOr(s.runtime)))
	return s.waitVisible(c, loc)
}

func (s *Session) waitVisible(c *call, loc string) error {
	timeout := c.timeoutOr(s.runtime)
	start := s.now()
	if err := s.waitPresent(loc, timeout); err != nil {
		return err
	}
	remaining := timeout - s.now().Sub(start)
	if remaining < 0 {
		remaining = 0
	}
	return wait.True(s.poller(), "element "+loc+" to be visible", func() (bool, error) {
		return s.visible(loc)
	}, remaining)
}

// WaitForInvisible waits until loc is hidden or gone. An element that does
// not exist at all is invisible, so the wait returns at once.
func (s *Session) WaitForInvisible(loc string, opts ...CallOption) error {
	c := newCall(opts)
	timeout := c.timeoutOr(s.runtime)
	s.log.Action("wait for invisible", zap.String("locator", loc), zap.Duration("timeout", timeout))
	els, err := s.find(loc)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		s.log.Debug("element already absent", zap.String("locator", loc))
		return nil
	}
	return wait.True(s.poller(), "element "+loc+" to be invisible", func() (bool, error) {
		ok, err := s.visible(loc)
		return !ok, err
	}, timeout)
}

// visible reports whether the first element matching loc is displayed. A
// missing or detached element is not visible.
func (s *Session) visible(loc string) (bool, error) {
	el, err := s.first(loc)
	if browser.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ok, err := el.IsDisplayed()
	if browser.IsNotFound(err) {
		return false, nil
	}
	return ok, err
}

// WaitForTextPresent waits until the page body contains text.
func (s *Session) WaitForTextPresent(text string, opts ...CallOption) error {
	c := newCall(opts)
	timeout := c.timeoutOr(s.runtime)
	s.log.Action("wait for text", zap.String("text", text), zap.Duration("timeout", timeout))
	return wait.True(s.poller(), "text "+quote(text)+" to be present", func() (bool, error) {
		body, err := s.driver.PageText()
		if err != nil {
			return false, err
		}
		return strings.Contains(body, text), nil
	}, timeout)
}

// WaitForEnabled waits until loc is present and enabled.
func (s *Session) WaitForEnabled(loc string, opts ...CallOption) error {
	c := newCall(opts)
	timeout := c.timeoutOr(s.runtime)
	s.log.Action("wait for enabled", zap.String("locator", loc), zap.Duration("timeout", timeout))
	return s.waitEnabled(loc, timeout)
}

func (s *Session) waitEnabled(loc string, timeout time.Duration) error {
	return wait.True(s.poller(), "element "+loc+" to be enabled", func() (bool, error) {
		el, err := s.first(loc)
		if browser.IsNotFound(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		ok, err := el.IsEnabled()
		if browser.IsNotFound(err) {
			return false, nil
		}
		return ok, err
	}, timeout)
}

// AjaxWait waits until the configured AJAX-idle expression holds. It does
// nothing when no expression is configured.
func (s *Session) AjaxWait(opts ...CallOption) error {
	return s.ajaxWait(newCall(opts))
}

func (s *Session) ajaxWait(c *call) error {
	expr, err := c.ajaxExpr(s.runtime)
	if err != nil {
		return err
	}
	if expr == "" {
		return nil
	}
	script := ajax.Guard(expr)
	return wait.True(s.poller(), "AJAX requests to finish", func() (bool, error) {
		v, err := s.driver.ExecuteScript(script)
		if errors.Is(err, browser.ErrScript) {
			s.log.Debug("ajax idle check failed", zap.Error(err))
			return false, nil
		}
		if err != nil {
			return false, err
		}
		idle, _ := v.(bool)
		return idle, nil
	}, c.timeoutOr(s.runtime))
}

func quote(s string) string {
	return "'" + s + "'"
}
