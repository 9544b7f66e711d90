// Package browsertest provides an in-memory browser.Driver for tests of the
// session layer and everything built on it.
package browsertest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/locator"
)

// Driver is a scriptable fake browser. Elements are registered by locator
// and found by strategy+value, so "foo" and "id=..." style aliases do not
// need to match textually.
type Driver struct {
	mu       sync.Mutex
	elements map[string][]*Element
	calls    []string

	Text      string
	URL       string
	History   []string
	Source    string
	PNG       []byte
	Closed    bool
	Refreshes int

	// Script answers ExecuteScript. A nil Script returns nil, nil.
	Script func(body string, args ...interface{}) (interface{}, error)

	// BeforeFind runs at the start of every FindElements call and may
	// mutate the page to simulate asynchronous changes.
	BeforeFind func(d *Driver, spec locator.Spec)

	// FindErr, when set, is returned by every FindElements call.
	FindErr error

	// CloseErr, when set, is returned by Close.
	CloseErr error
}

var _ browser.Driver = (*Driver)(nil)

// New returns an empty fake page.
func New() *Driver {
	return &Driver{elements: map[string][]*Element{}, URL: "about:blank"}
}

func key(spec locator.Spec) string {
	return spec.Strategy.String() + ":" + spec.Value
}

// Add registers els under the raw locator, replacing earlier registrations.
func (d *Driver) Add(raw string, els ...*Element) *Driver {
	spec := locator.MustParse(raw)
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, el := range els {
		el.driver = d
	}
	d.elements[key(spec)] = els
	return d
}

// Remove drops every element registered under raw.
func (d *Driver) Remove(raw string) {
	spec := locator.MustParse(raw)
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, key(spec))
}

// Calls returns every driver and element call recorded so far, in order,
// as "Method" or "Method locator" strings.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Count returns how often a call starting with prefix was recorded.
func (d *Driver) Count(prefix string) int {
	n := 0
	for _, c := range d.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Reset clears the call log.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

func (d *Driver) record(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *Driver) FindElements(spec locator.Spec) ([]browser.Element, error) {
	if d.BeforeFind != nil {
		d.BeforeFind(d, spec)
	}
	d.record("FindElements %s", spec.Raw)
	if d.FindErr != nil {
		return nil, d.FindErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []browser.Element
	for _, el := range d.elements[key(spec)] {
		if !el.Gone {
			out = append(out, el)
		}
	}
	return out, nil
}

func (d *Driver) PageText() (string, error) {
	d.record("PageText")
	return d.Text, nil
}

func (d *Driver) ExecuteScript(body string, args ...interface{}) (interface{}, error) {
	d.record("ExecuteScript")
	if d.Script == nil {
		return nil, nil
	}
	return d.Script(body, args...)
}

func (d *Driver) Screenshot() ([]byte, error) {
	d.record("Screenshot")
	return d.PNG, nil
}

func (d *Driver) PageSource() (string, error) {
	d.record("PageSource")
	return d.Source, nil
}

func (d *Driver) Navigate(url string) error {
	d.record("Navigate %s", url)
	d.History = append(d.History, d.URL)
	d.URL = url
	return nil
}

func (d *Driver) CurrentURL() (string, error) {
	d.record("CurrentURL")
	return d.URL, nil
}

func (d *Driver) Back() error {
	d.record("Back")
	if n := len(d.History); n > 0 {
		d.URL = d.History[n-1]
		d.History = d.History[:n-1]
	}
	return nil
}

func (d *Driver) Refresh() error {
	d.record("Refresh")
	d.Refreshes++
	return nil
}

func (d *Driver) Close() error {
	d.record("Close")
	d.Closed = true
	return d.CloseErr
}

// DialogDriver adds browser.Dialogs to Driver.
type DialogDriver struct {
	*Driver
	Dialog    string // text of the open dialog; empty means none is open
	Answer    string
	Accepted  int
	Dismissed int
}

var _ browser.Dialogs = (*DialogDriver)(nil)

// NewDialogs returns a fake page that supports JavaScript dialogs.
func NewDialogs() *DialogDriver {
	return &DialogDriver{Driver: New()}
}

func (d *DialogDriver) DialogText() (string, error) {
	d.record("DialogText")
	if d.Dialog == "" {
		return "", fmt.Errorf("no dialog open")
	}
	return d.Dialog, nil
}

func (d *DialogDriver) AcceptDialog() error {
	d.record("AcceptDialog")
	if d.Dialog == "" {
		return fmt.Errorf("no dialog open")
	}
	d.Dialog = ""
	d.Accepted++
	return nil
}

func (d *DialogDriver) DismissDialog() error {
	d.record("DismissDialog")
	if d.Dialog == "" {
		return fmt.Errorf("no dialog open")
	}
	d.Dialog = ""
	d.Dismissed++
	return nil
}

func (d *DialogDriver) SetDialogText(text string) error {
	d.record("SetDialogText")
	d.Answer = text
	return nil
}
