package session

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/browser"
)

// Open navigates to target and waits for the page to load. A relative
// target is resolved against the current URL.
func (s *Session) Open(target string, opts ...CallOption) error {
	dest, err := s.resolveURL(target)
	if err != nil {
		return err
	}
	s.log.Action("open", zap.String("url", dest))
	if err := s.driver.Navigate(dest); err != nil {
		return fmt.Errorf("open %s: %w", dest, err)
	}
	if cur, err := s.driver.CurrentURL(); err == nil {
		s.log.Info("current url", zap.String("url", cur))
	}
	return s.WaitForPageToLoad(opts...)
}

func (s *Session) resolveURL(target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", target, err)
	}
	if ref.IsAbs() {
		return target, nil
	}
	cur, err := s.driver.CurrentURL()
	if err != nil {
		return "", err
	}
	base, err := url.Parse(cur)
	if err != nil || !base.IsAbs() || base.Scheme == "about" {
		return "", fmt.Errorf("cannot resolve relative url %q against %q", target, cur)
	}
	return base.ResolveReference(ref).String(), nil
}

// GoBack presses the browser back button and waits for the page to load.
func (s *Session) GoBack(opts ...CallOption) error {
	s.log.Action("go back")
	if err := s.driver.Back(); err != nil {
		return fmt.Errorf("go back: %w", err)
	}
	return s.WaitForPageToLoad(opts...)
}

// Refresh reloads the page and waits for it to load.
func (s *Session) Refresh(opts ...CallOption) error {
	s.log.Action("refresh")
	if err := s.driver.Refresh(); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return s.WaitForPageToLoad(opts...)
}

// CurrentURL returns the address of the current page.
func (s *Session) CurrentURL() (string, error) {
	return s.driver.CurrentURL()
}

// Capture returns a PNG screenshot of the viewport.
func (s *Session) Capture() ([]byte, error) {
	s.log.Debug("capturing screenshot")
	return s.driver.Screenshot()
}

// PageSource returns the current document's HTML.
func (s *Session) PageSource() (string, error) {
	return s.driver.PageSource()
}

// Sleep pauses the session for d.
func (s *Session) Sleep(d time.Duration) {
	s.log.Info("sleep", zap.Duration("duration", d))
	s.poller().Clock.Sleep(d)
}

func (s *Session) dialogs() (browser.Dialogs, error) {
	d, ok := s.driver.(browser.Dialogs)
	if !ok {
		return nil, fmt.Errorf("dialogs: %w", browser.ErrUnsupported)
	}
	return d, nil
}

// Alert accepts the open alert dialog and returns its message.
func (s *Session) Alert() (string, error) {
	return s.acceptDialog("alert")
}

// Confirmation accepts the open confirmation dialog and returns its message.
func (s *Session) Confirmation() (string, error) {
	return s.acceptDialog("confirmation")
}

// Prompt accepts the open prompt dialog, answering with the text given to
// AnswerPrompt, and returns its message.
func (s *Session) Prompt() (string, error) {
	return s.acceptDialog("prompt")
}

func (s *Session) acceptDialog(kind string) (string, error) {
	d, err := s.dialogs()
	if err != nil {
		return "", err
	}
	s.log.Action("click OK on dialog", zap.String("dialog", kind))
	text, err := d.DialogText()
	if err != nil {
		return "", fmt.Errorf("%s dialog: %w", kind, err)
	}
	if err := d.AcceptDialog(); err != nil {
		return "", fmt.Errorf("%s dialog: %w", kind, err)
	}
	s.log.Info("dismissed dialog", zap.String("dialog", kind), zap.String("text", text))
	return text, nil
}

// DismissDialog cancels the open dialog and returns its message.
func (s *Session) DismissDialog() (string, error) {
	d, err := s.dialogs()
	if err != nil {
		return "", err
	}
	s.log.Action("click Cancel on dialog")
	text, err := d.DialogText()
	if err != nil {
		return "", fmt.Errorf("dialog: %w", err)
	}
	if err := d.DismissDialog(); err != nil {
		return "", fmt.Errorf("dialog: %w", err)
	}
	return text, nil
}

// AnswerPrompt sets the text the next prompt dialog is answered with.
func (s *Session) AnswerPrompt(answer string) error {
	d, err := s.dialogs()
	if err != nil {
		return err
	}
	s.log.Action("answer prompt", zap.String("answer", answer))
	return d.SetDialogText(answer)
}
