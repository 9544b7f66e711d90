package selenium

import (
	"fmt"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/tebeka/selenium"
)

type element struct {
	we selenium.WebElement
	d  *Driver
}

const (
	attributeScript = `var v = arguments[0].getAttribute(arguments[1]); return v === null ? null : String(v);`

	// Synthetic events for remotes that reject the legacy moveto endpoint.
	hoverScript = `var el = arguments[0];
["mouseover", "mouseenter", "mousemove"].forEach(function(t) {
  el.dispatchEvent(new MouseEvent(t, {bubbles: true, cancelable: true, view: window}));
});`
	doubleClickScript = `arguments[0].dispatchEvent(new MouseEvent("dblclick", {bubbles: true, cancelable: true, view: window}));`

	highlightScript = `var el = arguments[0], old = el.style.outline;
el.style.outline = "3px solid #f5a623";
setTimeout(function() { el.style.outline = old; }, 400);`
)

func (e *element) Click() error {
	return classify("click", e.we.Click())
}

func (e *element) DoubleClick() error {
	if err := e.we.MoveTo(0, 0); err == nil {
		if err := e.d.wd.DoubleClick(); err == nil {
			return nil
		}
	} else if err = classify("double click", err); browser.IsNotFound(err) {
		return err
	}
	_, err := e.d.script("double click", doubleClickScript, e)
	return err
}

func (e *element) Hover() error {
	err := e.we.MoveTo(0, 0)
	if err == nil {
		return nil
	}
	if err = classify("hover", err); browser.IsNotFound(err) {
		return err
	}
	_, err = e.d.script("hover", hoverScript, e)
	return err
}

func (e *element) SendKeys(keys string) error {
	return classify("send keys", e.we.SendKeys(keys))
}

func (e *element) Clear() error {
	return classify("clear", e.we.Clear())
}

func (e *element) Text() (string, error) {
	t, err := e.we.Text()
	return t, classify("text", err)
}

func (e *element) TagName() (string, error) {
	t, err := e.we.TagName()
	return t, classify("tag name", err)
}

// Attribute reads through a script: the remote "get attribute" command
// fails on absent attributes instead of returning null.
func (e *element) Attribute(name string) (string, error) {
	v, err := e.d.script("attribute "+name, attributeScript, e, name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	s := fmt.Sprint(v)
	return browser.AttributeValue(name, &s), nil
}

func (e *element) IsDisplayed() (bool, error) {
	ok, err := e.we.IsDisplayed()
	return ok, classify("is displayed", err)
}

func (e *element) IsEnabled() (bool, error) {
	ok, err := e.we.IsEnabled()
	return ok, classify("is enabled", err)
}

func (e *element) IsSelected() (bool, error) {
	ok, err := e.we.IsSelected()
	return ok, classify("is selected", err)
}

func (e *element) Options() ([]browser.Element, error) {
	found, err := e.we.FindElements(selenium.ByTagName, "option")
	if err != nil {
		if err = classify("options", err); browser.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return e.d.wrap(found), nil
}

func (e *element) Highlight() error {
	_, err := e.d.script("highlight", highlightScript, e)
	return err
}
