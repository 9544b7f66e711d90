package session

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/model"
	"github.com/mj1618/browser-cli/internal/wait"
)

// IsElementPresent reports whether loc matches at least one element.
func (s *Session) IsElementPresent(loc string) (bool, error) {
	els, err := s.find(loc)
	if err != nil {
		return false, err
	}
	if len(els) > 0 {
		s.log.Debug("found element", zap.String("locator", loc))
	} else {
		s.log.Debug("did not find element", zap.String("locator", loc))
	}
	return len(els) > 0, nil
}

// IsVisible reports whether loc is present and displayed.
func (s *Session) IsVisible(loc string) (bool, error) {
	return s.visible(loc)
}

func (s *Session) IsEnabled(loc string) (bool, error) {
	el, err := s.first(loc)
	if err != nil {
		return false, err
	}
	return el.IsEnabled()
}

// IsSelected reports whether the checkbox, radio button or option at loc
// is selected.
func (s *Session) IsSelected(loc string) (bool, error) {
	el, err := s.first(loc)
	if err != nil {
		return false, err
	}
	return el.IsSelected()
}

// IsTextPresent reports whether the page body contains text.
func (s *Session) IsTextPresent(text string) (bool, error) {
	body, err := s.driver.PageText()
	if err != nil {
		return false, err
	}
	found := strings.Contains(body, text)
	s.log.Debug("text lookup", zap.String("text", text), zap.Bool("found", found))
	return found, nil
}

// Text returns the visible text of loc.
func (s *Session) Text(loc string) (string, error) {
	el, err := s.first(loc)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// ElementType returns the human-readable category of loc, such as "link"
// or "checkbox". When the element cannot be inspected it returns loc.
func (s *Session) ElementType(loc string) string {
	el, err := s.first(loc)
	if err != nil {
		s.log.Debug("could not inspect element", zap.String("locator", loc), zap.Error(err))
		return loc
	}
	if category := s.category(el); category != "" {
		return category
	}
	return loc
}

// Description returns "<category>: <locator>" for loc, or loc itself when
// the element cannot be inspected.
func (s *Session) Description(loc string) string {
	el, err := s.first(loc)
	if err != nil {
		s.log.Debug("could not inspect element", zap.String("locator", loc), zap.Error(err))
		return loc
	}
	return model.Describe(s.category(el), loc)
}

// IsElementPresentWithRefreshing reloads the page every refreshInterval
// until loc appears or timeout elapses.
func (s *Session) IsElementPresentWithRefreshing(loc string, timeout, refreshInterval time.Duration) (bool, error) {
	if refreshInterval <= 0 {
		refreshInterval = wait.DefaultInterval
	}
	clock := s.poller().Clock
	start := clock.Now()
	for {
		ok, err := s.IsElementPresent(loc)
		if err != nil || ok {
			return ok, err
		}
		if clock.Now().Sub(start) >= timeout {
			return false, nil
		}
		clock.Sleep(refreshInterval)
		s.log.Debug("refreshing page", zap.String("waiting_for", loc))
		if err := s.driver.Refresh(); err != nil {
			return false, err
		}
	}
}

const attributesScript = `var el = arguments[0], out = {tagName: el.tagName};
for (var i = 0; i < el.attributes.length; i++) {
  out[el.attributes[i].name] = el.attributes[i].value;
}
return out;`

// Attributes returns every attribute of loc, plus its tag name under
// "tagName".
func (s *Session) Attributes(loc string) (map[string]string, error) {
	el, err := s.first(loc)
	if err != nil {
		return nil, err
	}
	v, err := s.driver.ExecuteScript(attributesScript, el)
	if err != nil {
		return nil, fmt.Errorf("attributes of %s: %w", loc, err)
	}
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, browser.Wrap("attributes of "+loc, fmt.Errorf("unexpected script result %T", v))
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		out[k] = fmt.Sprint(val)
	}
	return out, nil
}
