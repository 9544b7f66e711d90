package playwright

import (
	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/playwright-community/playwright-go"
)

// element is the index-th match of parent. Playwright locators are lazy, so
// the match count is checked before every call to report a detached node as
// browser.ErrNotFound instead of waiting for it to come back.
type element struct {
	d      *Driver
	parent playwright.Locator
	index  int
}

func (e *element) locate() (playwright.Locator, error) {
	n, err := e.parent.Count()
	if err != nil {
		return nil, classify("locate", err)
	}
	if e.index >= n {
		return nil, browser.ErrNotFound
	}
	return e.parent.Nth(e.index), nil
}

func (e *element) do(op string, fn func(playwright.Locator) error) error {
	loc, err := e.locate()
	if err != nil {
		return err
	}
	return classify(op, fn(loc))
}

func (e *element) evalBool(op, js string) (bool, error) {
	loc, err := e.locate()
	if err != nil {
		return false, err
	}
	v, err := loc.Evaluate(js, nil)
	if err != nil {
		return false, classify(op, err)
	}
	b, _ := v.(bool)
	return b, nil
}

func (e *element) Click() error {
	return e.do("click", func(l playwright.Locator) error { return l.Click() })
}

func (e *element) DoubleClick() error {
	return e.do("double click", func(l playwright.Locator) error { return l.Dblclick() })
}

func (e *element) Hover() error {
	return e.do("hover", func(l playwright.Locator) error { return l.Hover() })
}

func (e *element) SendKeys(keys string) error {
	return e.do("send keys", func(l playwright.Locator) error {
		for _, c := range browser.SplitKeys(keys) {
			if c.Key == 0 {
				if err := l.PressSequentially(c.Text); err != nil {
					return err
				}
				continue
			}
			name := browser.KeyName(c.Key)
			if name == "" {
				continue
			}
			if err := l.Press(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *element) Clear() error {
	return e.do("clear", func(l playwright.Locator) error { return l.Clear() })
}

func (e *element) Text() (string, error) {
	var s string
	err := e.do("text", func(l playwright.Locator) (err error) {
		s, err = l.InnerText()
		return err
	})
	return s, err
}

func (e *element) TagName() (string, error) {
	loc, err := e.locate()
	if err != nil {
		return "", err
	}
	v, err := loc.Evaluate("el => el.tagName.toLowerCase()", nil)
	if err != nil {
		return "", classify("tag name", err)
	}
	s, _ := v.(string)
	return s, nil
}

func (e *element) Attribute(name string) (string, error) {
	if browser.IsBooleanAttribute(name) {
		loc, err := e.locate()
		if err != nil {
			return "", err
		}
		v, err := loc.Evaluate("(el, n) => el.hasAttribute(n)", name)
		if err != nil {
			return "", classify("attribute "+name, err)
		}
		if ok, _ := v.(bool); ok {
			return "true", nil
		}
		return "", nil
	}
	var s string
	err := e.do("attribute "+name, func(l playwright.Locator) (err error) {
		s, err = l.GetAttribute(name)
		return err
	})
	return s, err
}

func (e *element) IsDisplayed() (bool, error) {
	var ok bool
	err := e.do("is displayed", func(l playwright.Locator) (err error) {
		ok, err = l.IsVisible()
		return err
	})
	return ok, err
}

func (e *element) IsEnabled() (bool, error) {
	var ok bool
	err := e.do("is enabled", func(l playwright.Locator) (err error) {
		ok, err = l.IsEnabled()
		return err
	})
	return ok, err
}

func (e *element) IsSelected() (bool, error) {
	return e.evalBool("is selected", "el => !!(el.checked || el.selected)")
}

func (e *element) Options() ([]browser.Element, error) {
	loc, err := e.locate()
	if err != nil {
		return nil, err
	}
	opts := loc.Locator("option")
	n, err := opts.Count()
	if err != nil {
		return nil, classify("options", err)
	}
	out := make([]browser.Element, n)
	for i := range out {
		out[i] = &element{d: e.d, parent: opts, index: i}
	}
	return out, nil
}

func (e *element) Highlight() error {
	return e.do("highlight", func(l playwright.Locator) error { return l.Highlight() })
}
