package rod

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/mj1618/browser-cli/internal/browser"
)

type element struct {
	el *rod.Element
	d  *Driver
}

// keyMap translates WebDriver key code points to rod keys.
var keyMap = map[string]input.Key{
	browser.KeyBackspace: input.Backspace,
	browser.KeyTab:       input.Tab,
	browser.KeyEnter:     input.Enter,
	browser.KeyShift:     input.ShiftLeft,
	browser.KeyControl:   input.ControlLeft,
	browser.KeyAlt:       input.AltLeft,
	browser.KeyEscape:    input.Escape,
	browser.KeySpace:     input.Space,
	browser.KeyPageUp:    input.PageUp,
	browser.KeyPageDown:  input.PageDown,
	browser.KeyEnd:       input.End,
	browser.KeyHome:      input.Home,
	browser.KeyLeft:      input.ArrowLeft,
	browser.KeyUp:        input.ArrowUp,
	browser.KeyRight:     input.ArrowRight,
	browser.KeyDown:      input.ArrowDown,
	browser.KeyDelete:    input.Delete,
}

func (e *element) t() *rod.Element {
	return e.el.Timeout(e.d.timeout)
}

func (e *element) eval(op, js string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	res, err := e.t().Eval(js, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	return res, nil
}

func (e *element) Click() error {
	return classify("click", e.t().Click(proto.InputMouseButtonLeft, 1))
}

func (e *element) DoubleClick() error {
	return classify("double click", e.t().Click(proto.InputMouseButtonLeft, 2))
}

func (e *element) Hover() error {
	return classify("hover", e.t().Hover())
}

func (e *element) SendKeys(keys string) error {
	for _, c := range browser.SplitKeys(keys) {
		if c.Key == 0 {
			if err := e.t().Input(c.Text); err != nil {
				return classify("send keys", err)
			}
			continue
		}
		k, ok := keyMap[string(c.Key)]
		if !ok {
			continue
		}
		if err := e.t().Type(k); err != nil {
			return classify("send keys", err)
		}
	}
	return nil
}

func (e *element) Clear() error {
	_, err := e.eval("clear", `() => {
  this.focus();
  if ("value" in this) {
    this.value = "";
    this.dispatchEvent(new Event("input", {bubbles: true}));
    this.dispatchEvent(new Event("change", {bubbles: true}));
  }
}`)
	return err
}

func (e *element) Text() (string, error) {
	s, err := e.t().Text()
	return s, classify("text", err)
}

func (e *element) TagName() (string, error) {
	res, err := e.eval("tag name", `() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (e *element) Attribute(name string) (string, error) {
	v, err := e.t().Attribute(name)
	if err != nil {
		return "", classify("attribute "+name, err)
	}
	return browser.AttributeValue(name, v), nil
}

func (e *element) IsDisplayed() (bool, error) {
	ok, err := e.t().Visible()
	return ok, classify("is displayed", err)
}

func (e *element) IsEnabled() (bool, error) {
	res, err := e.eval("is enabled", `() => !this.disabled`)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (e *element) IsSelected() (bool, error) {
	res, err := e.eval("is selected", `() => !!(this.checked || this.selected)`)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (e *element) Options() ([]browser.Element, error) {
	found, err := e.t().Elements("option")
	if err != nil {
		return nil, classify("options", err)
	}
	return e.d.wrap(found), nil
}

func (e *element) Highlight() error {
	_, err := e.eval("highlight", `() => {
  const old = this.style.outline;
  this.style.outline = "3px solid #f5a623";
  setTimeout(() => { this.style.outline = old; }, 400);
}`)
	return err
}
