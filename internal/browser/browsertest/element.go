package browsertest

import (
	"strings"

	"github.com/mj1618/browser-cli/internal/browser"
)

// Element is a fake DOM node. Zero values describe a visible, enabled,
// unselected element with no tag.
type Element struct {
	Name     string // used in the call log
	Tag      string
	Attrs    map[string]string
	Value    string // visible text
	Hidden   bool
	Disabled bool
	Selected bool
	Gone     bool // detached: every call returns browser.ErrNotFound
	Children []*Element

	// Toggle makes Click flip Selected, like a checkbox.
	Toggle bool
	// Stuck makes Toggle ignore the next n clicks.
	Stuck int
	// OnClick runs after every click.
	OnClick func(el *Element)

	HighlightErr error
	Keys         []string

	parent *Element
	driver *Driver
}

var _ browser.Element = (*Element)(nil)

// Input returns an <input> element of the given type.
func Input(name, typ string) *Element {
	return &Element{Name: name, Tag: "input", Attrs: map[string]string{"type": typ}}
}

// Checkbox returns a checkbox whose clicks toggle its state.
func Checkbox(name string, checked bool) *Element {
	el := Input(name, "checkbox")
	el.Toggle = true
	el.Selected = checked
	return el
}

// Select returns a <select> with one <option> per label. Option values are
// the lowercase labels unless set afterwards.
func Select(name string, multiple bool, labels ...string) *Element {
	sel := &Element{Name: name, Tag: "select", Attrs: map[string]string{}}
	if multiple {
		sel.Attrs["multiple"] = "multiple"
	}
	for _, l := range labels {
		opt := &Element{Name: name + "/" + l, Tag: "option", Value: l, Attrs: map[string]string{"value": strings.ToLower(l)}, parent: sel}
		sel.Children = append(sel.Children, opt)
	}
	return sel
}

// SelectedLabels returns the labels of the selected options of a select list.
func (e *Element) SelectedLabels() []string {
	var out []string
	for _, o := range e.Children {
		if o.Selected {
			out = append(out, o.Value)
		}
	}
	return out
}

func (e *Element) root() *Driver {
	if e.driver != nil {
		return e.driver
	}
	if e.parent != nil {
		return e.parent.root()
	}
	return nil
}

func (e *Element) record(method string) error {
	if d := e.root(); d != nil {
		d.record("%s %s", method, e.Name)
	}
	if e.Gone || (e.parent != nil && e.parent.Gone) {
		return browser.ErrNotFound
	}
	return nil
}

func (e *Element) Click() error {
	if err := e.record("Click"); err != nil {
		return err
	}
	switch {
	case e.Tag == "option" && e.parent != nil:
		if _, multi := e.parent.Attrs["multiple"]; multi {
			e.Selected = !e.Selected
		} else {
			for _, o := range e.parent.Children {
				o.Selected = false
			}
			e.Selected = true
		}
	case e.Toggle:
		if e.Stuck > 0 {
			e.Stuck--
		} else {
			e.Selected = !e.Selected
		}
	}
	if e.OnClick != nil {
		e.OnClick(e)
	}
	return nil
}

func (e *Element) DoubleClick() error { return e.record("DoubleClick") }

func (e *Element) Hover() error { return e.record("Hover") }

func (e *Element) SendKeys(keys string) error {
	if err := e.record("SendKeys"); err != nil {
		return err
	}
	e.Keys = append(e.Keys, keys)
	return nil
}

func (e *Element) Clear() error {
	if err := e.record("Clear"); err != nil {
		return err
	}
	e.Keys = nil
	return nil
}

func (e *Element) Text() (string, error) {
	if err := e.record("Text"); err != nil {
		return "", err
	}
	return e.Value, nil
}

func (e *Element) TagName() (string, error) {
	if err := e.record("TagName"); err != nil {
		return "", err
	}
	return e.Tag, nil
}

func (e *Element) Attribute(name string) (string, error) {
	if err := e.record("Attribute"); err != nil {
		return "", err
	}
	return e.Attrs[name], nil
}

func (e *Element) IsDisplayed() (bool, error) {
	if err := e.record("IsDisplayed"); err != nil {
		return false, err
	}
	return !e.Hidden, nil
}

func (e *Element) IsEnabled() (bool, error) {
	if err := e.record("IsEnabled"); err != nil {
		return false, err
	}
	return !e.Disabled, nil
}

func (e *Element) IsSelected() (bool, error) {
	if err := e.record("IsSelected"); err != nil {
		return false, err
	}
	return e.Selected, nil
}

func (e *Element) Options() ([]browser.Element, error) {
	if err := e.record("Options"); err != nil {
		return nil, err
	}
	out := make([]browser.Element, 0, len(e.Children))
	for _, c := range e.Children {
		out = append(out, c)
	}
	return out, nil
}

func (e *Element) Highlight() error {
	if err := e.record("Highlight"); err != nil {
		return err
	}
	return e.HighlightErr
}
