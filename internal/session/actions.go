package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/browser"
)

// ErrState is returned when a checkbox or radio button does not reach the
// requested state.
var ErrState = errors.New("element did not reach the requested state")

// act runs the common action sequence on the first element matching loc.
// When settle is set the configured AJAX-idle wait follows the action.
func (s *Session) act(c *call, verb, loc string, settle bool, fields []zap.Field, do func(browser.Element) error) error {
	el, err := s.first(loc)
	if err != nil {
		return err
	}
	s.highlight(c, el)
	s.log.Action(verb, append([]zap.Field{zap.String("target", s.describe(c, loc, el))}, fields...)...)
	if err := do(el); err != nil {
		return fmt.Errorf("%s %s: %w", verb, loc, err)
	}
	if !settle {
		return nil
	}
	return s.ajaxWait(c)
}

// Click clicks the first element matching loc.
func (s *Session) Click(loc string, opts ...CallOption) error {
	return s.act(newCall(opts), "click", loc, true, nil, browser.Element.Click)
}

func (s *Session) DoubleClick(loc string, opts ...CallOption) error {
	return s.act(newCall(opts), "double click", loc, true, nil, browser.Element.DoubleClick)
}

// ClickAndWait clicks loc and waits for the next page to load.
func (s *Session) ClickAndWait(loc string, opts ...CallOption) error {
	c := newCall(opts)
	if err := s.act(c, "click", loc, false, nil, browser.Element.Click); err != nil {
		return err
	}
	return s.WaitForPageToLoad(opts...)
}

// WaitAndClick waits for loc to appear and clicks it.
func (s *Session) WaitAndClick(loc string, opts ...CallOption) error {
	c := newCall(opts)
	if err := s.waitPresent(loc, c.timeoutOr(s.runtime)); err != nil {
		return fmt.Errorf("element did not appear: %s: %w", loc, err)
	}
	return s.act(c, "click", loc, true, nil, browser.Element.Click)
}

// WaitAndClickAndWait waits for loc, clicks it and waits for the next page.
func (s *Session) WaitAndClickAndWait(loc string, opts ...CallOption) error {
	c := newCall(opts)
	timeout := c.timeoutOr(s.runtime)
	start := s.now()
	if err := s.waitPresent(loc, timeout); err != nil {
		return fmt.Errorf("element did not appear: %s: %w", loc, err)
	}
	remaining := timeout - s.now().Sub(start)
	if remaining < 0 {
		remaining = 0
	}
	rest := append(append([]CallOption(nil), opts...), Within(remaining))
	return s.ClickAndWait(loc, rest...)
}

// WaitForEnabledAndClick waits until loc is enabled and clicks it.
func (s *Session) WaitForEnabledAndClick(loc string, opts ...CallOption) error {
	c := newCall(opts)
	if err := s.waitEnabled(loc, c.timeoutOr(s.runtime)); err != nil {
		return fmt.Errorf("element never became enabled: %s: %w", loc, err)
	}
	return s.Click(loc, opts...)
}

// Hover moves the mouse over loc.
func (s *Session) Hover(loc string, opts ...CallOption) error {
	return s.act(newCall(opts), "hover", loc, true, nil, browser.Element.Hover)
}

// Type replaces the value of loc with text.
func (s *Session) Type(loc, text string, opts ...CallOption) error {
	return s.act(newCall(opts), "type", loc, true, []zap.Field{zap.String("text", text)}, func(el browser.Element) error {
		if err := el.Clear(); err != nil {
			return err
		}
		return el.SendKeys(text)
	})
}

// SetText is Type under the name some page objects use.
func (s *Session) SetText(loc, text string, opts ...CallOption) error {
	return s.Type(loc, text, opts...)
}

// TypeKeys sends text to loc key by key without clearing it first.
func (s *Session) TypeKeys(loc, text string, opts ...CallOption) error {
	return s.act(newCall(opts), "type keys", loc, true, []zap.Field{zap.String("text", text)}, func(el browser.Element) error {
		return el.SendKeys(text)
	})
}

// KeyPress presses and releases one key on loc. Names such as "enter",
// "tab" or "escape" are translated, "\\13" style sequences give a character
// code and a single character is sent as is.
func (s *Session) KeyPress(loc, key string, opts ...CallOption) error {
	k, err := parseKeySequence(key)
	if err != nil {
		return err
	}
	return s.act(newCall(opts), "press key", loc, true, []zap.Field{zap.String("key", key)}, func(el browser.Element) error {
		return el.SendKeys(k)
	})
}

func parseKeySequence(key string) (string, error) {
	if code, ok := strings.CutPrefix(key, "\\"); ok && code != "" {
		n, err := strconv.Atoi(code)
		if err != nil || n <= 0 {
			return "", fmt.Errorf("invalid key code %q", key)
		}
		switch n {
		case 13:
			return browser.KeyEnter, nil
		case 8:
			return browser.KeyBackspace, nil
		case 9:
			return browser.KeyTab, nil
		case 27:
			return browser.KeyEscape, nil
		}
		return string(rune(n)), nil
	}
	return browser.ParseKey(key)
}

// Check makes sure the checkbox or radio button at loc is selected.
func (s *Session) Check(loc string, opts ...CallOption) error {
	return s.CheckUncheck(loc, true, opts...)
}

// Uncheck makes sure the checkbox at loc is not selected.
func (s *Session) Uncheck(loc string, opts ...CallOption) error {
	return s.CheckUncheck(loc, false, opts...)
}

// CheckUncheck brings loc into the wanted state. Nothing is clicked when it
// is already there; otherwise it clicks once, and a second time if the first
// click did not take.
func (s *Session) CheckUncheck(loc string, want bool, opts ...CallOption) error {
	c := newCall(opts)
	verb := "check"
	if !want {
		verb = "uncheck"
	}
	el, err := s.first(loc)
	if err != nil {
		return err
	}
	s.highlight(c, el)
	s.log.Action(verb, zap.String("target", s.describe(c, loc, el)))
	got, err := el.IsSelected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", verb, loc, err)
	}
	if got == want {
		s.log.Debug("already in state", zap.String("locator", loc), zap.Bool("checked", want))
		return nil
	}
	for attempt := 0; attempt < 2 && got != want; attempt++ {
		if attempt > 0 {
			s.log.Debug("click did not change state, clicking again", zap.String("locator", loc))
		}
		if err := el.Click(); err != nil {
			return fmt.Errorf("%s %s: %w", verb, loc, err)
		}
		if got, err = el.IsSelected(); err != nil {
			return fmt.Errorf("%s %s: %w", verb, loc, err)
		}
	}
	if got != want {
		return fmt.Errorf("%s %s: %w", verb, loc, ErrState)
	}
	return s.ajaxWait(c)
}
