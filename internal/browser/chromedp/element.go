package chromedp

import (
	"context"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/mj1618/browser-cli/internal/browser"
)

type element struct {
	d   *Driver
	ref ref
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// keyMap translates WebDriver key code points to chromedp key strings.
var keyMap = map[string]string{
	browser.KeyBackspace: kb.Backspace,
	browser.KeyTab:       kb.Tab,
	browser.KeyEnter:     kb.Enter,
	browser.KeyShift:     kb.Shift,
	browser.KeyControl:   kb.Control,
	browser.KeyAlt:       kb.Alt,
	browser.KeyEscape:    kb.Escape,
	browser.KeySpace:     " ",
	browser.KeyPageUp:    kb.PageUp,
	browser.KeyPageDown:  kb.PageDown,
	browser.KeyEnd:       kb.End,
	browser.KeyHome:      kb.Home,
	browser.KeyLeft:      kb.ArrowLeft,
	browser.KeyUp:        kb.ArrowUp,
	browser.KeyRight:     kb.ArrowRight,
	browser.KeyDown:      kb.ArrowDown,
	browser.KeyDelete:    kb.Delete,
}

func (e *element) eval(op, body string, out interface{}, args ...interface{}) error {
	return e.d.eval(op, nodeExpr(e.ref, body, args...), out)
}

func (e *element) center() (point, error) {
	var p point
	err := e.eval("locate", centerJS, &p)
	return p, err
}

func (e *element) Click() error {
	p, err := e.center()
	if err != nil {
		return err
	}
	return browser.Wrap("click", e.d.run(chromedp.MouseClickXY(p.X, p.Y)))
}

func (e *element) DoubleClick() error {
	p, err := e.center()
	if err != nil {
		return err
	}
	return browser.Wrap("double click", e.d.run(chromedp.MouseClickXY(p.X, p.Y, chromedp.ClickCount(2))))
}

func (e *element) Hover() error {
	p, err := e.center()
	if err != nil {
		return err
	}
	return browser.Wrap("hover", e.d.run(chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, p.X, p.Y).Do(ctx)
	})))
}

func (e *element) SendKeys(keys string) error {
	if err := e.eval("focus", focusJS, nil); err != nil {
		return err
	}
	var actions []chromedp.Action
	for _, c := range browser.SplitKeys(keys) {
		if c.Key == 0 {
			actions = append(actions, chromedp.KeyEvent(c.Text))
			continue
		}
		if k, ok := keyMap[string(c.Key)]; ok {
			actions = append(actions, chromedp.KeyEvent(k))
		}
	}
	if len(actions) == 0 {
		return nil
	}
	return browser.Wrap("send keys", e.d.run(actions...))
}

func (e *element) Clear() error {
	return e.eval("clear", clearJS, nil)
}

func (e *element) Text() (string, error) {
	var s string
	err := e.eval("text", textJS, &s)
	return s, err
}

func (e *element) TagName() (string, error) {
	var s string
	err := e.eval("tag name", tagJS, &s)
	return s, err
}

func (e *element) Attribute(name string) (string, error) {
	var v *string
	if err := e.eval("attribute "+name, attributeJS, &v, name); err != nil {
		return "", err
	}
	return browser.AttributeValue(name, v), nil
}

func (e *element) IsDisplayed() (bool, error) {
	var ok bool
	err := e.eval("is displayed", displayedJS, &ok)
	return ok, err
}

func (e *element) IsEnabled() (bool, error) {
	var ok bool
	err := e.eval("is enabled", enabledJS, &ok)
	return ok, err
}

func (e *element) IsSelected() (bool, error) {
	var ok bool
	err := e.eval("is selected", selectedJS, &ok)
	return ok, err
}

func (e *element) Options() ([]browser.Element, error) {
	var n int
	if err := e.eval("options", optionsJS, &n); err != nil {
		return nil, err
	}
	out := make([]browser.Element, n)
	for i := range out {
		r := e.ref
		r.Option = i
		out[i] = &element{d: e.d, ref: r}
	}
	return out, nil
}

func (e *element) Highlight() error {
	return e.eval("highlight", highlightJS, nil)
}
