package selenium

import (
	"errors"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/tebeka/selenium"
)

// W3C WebDriver error codes that carry meaning for the session layer.
const (
	codeNoSuchElement = "no such element"
	codeStale         = "stale element reference"
	codeJavaScript    = "javascript error"
)

// classify maps a WebDriver error to the browser error taxonomy using the
// protocol's error code, never the human-readable message.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *selenium.Error
	if errors.As(err, &se) {
		switch se.Err {
		case codeNoSuchElement, codeStale:
			return browser.NotFound(err)
		case codeJavaScript:
			return browser.ScriptError(err)
		}
	}
	return browser.Wrap(op, err)
}
