// Package browser defines the capability surface the session layer needs
// from a browser-automation driver. Backends live in sub-packages and
// register themselves by name.
package browser

import "github.com/mj1618/browser-cli/internal/locator"

// Driver is a live browser session.
type Driver interface {
	// FindElements returns every element matching spec. No match is an
	// empty slice with a nil error, never ErrNotFound.
	FindElements(spec locator.Spec) ([]Element, error)

	// PageText returns the visible text of the document body.
	PageText() (string, error)

	// ExecuteScript evaluates a JavaScript function body (using `return`)
	// in the page and returns its JSON-decoded result. Exceptions thrown in
	// the page are reported as ErrScript.
	ExecuteScript(body string, args ...interface{}) (interface{}, error)

	// Screenshot captures the viewport as PNG bytes.
	Screenshot() ([]byte, error)

	PageSource() (string, error)
	Navigate(url string) error
	CurrentURL() (string, error)
	Back() error
	Refresh() error
	Close() error
}

// Element is a borrowed reference to a DOM node, valid for one operation.
// Methods return ErrNotFound once the node has left the document.
type Element interface {
	Click() error
	DoubleClick() error
	Hover() error
	SendKeys(keys string) error
	Clear() error

	Text() (string, error)
	TagName() (string, error)
	// Attribute returns "" with a nil error when the attribute is absent.
	// Boolean attributes such as multiple read as "true" when present.
	Attribute(name string) (string, error)

	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)

	// Options returns the <option> children of a select list.
	Options() ([]Element, error)

	// Highlight briefly flashes the element for someone watching the browser.
	Highlight() error
}

// Dialogs is implemented by drivers that can handle JavaScript
// alert/confirm/prompt dialogs.
type Dialogs interface {
	DialogText() (string, error)
	AcceptDialog() error
	DismissDialog() error
	SetDialogText(text string) error
}
