// Package selenium drives a browser through a W3C WebDriver endpoint such as
// a Selenium hub, chromedriver or geckodriver.
package selenium

import (
	"strings"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/locator"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

// DefaultURL is the WebDriver endpoint used when Options.RemoteURL is empty.
const DefaultURL = "http://localhost:4444/wd/hub"

// Driver adapts a selenium.WebDriver to browser.Driver and browser.Dialogs.
type Driver struct {
	wd selenium.WebDriver
}

var (
	_ browser.Driver  = (*Driver)(nil)
	_ browser.Dialogs = (*Driver)(nil)
)

// Open connects to the WebDriver endpoint in opts.
func Open(opts browser.Options) (browser.Driver, error) {
	url := opts.RemoteURL
	if url == "" {
		url = DefaultURL
	}
	wd, err := selenium.NewRemote(capabilities(opts), url)
	if err != nil {
		return nil, err
	}
	if opts.Timeout > 0 {
		if err := wd.SetPageLoadTimeout(opts.Timeout); err != nil {
			wd.Quit()
			return nil, err
		}
	}
	return New(wd), nil
}

// New wraps an existing WebDriver session.
func New(wd selenium.WebDriver) *Driver {
	return &Driver{wd: wd}
}

func capabilities(opts browser.Options) selenium.Capabilities {
	name := strings.ToLower(opts.Browser)
	if name == "" {
		name = "chrome"
	}
	caps := selenium.Capabilities{"browserName": name}
	switch name {
	case "chrome":
		c := chrome.Capabilities{}
		if opts.Headless {
			c.Args = append(c.Args, "--headless=new", "--disable-gpu")
		}
		caps.AddChrome(c)
	case "firefox":
		f := firefox.Capabilities{}
		if opts.Headless {
			f.Args = append(f.Args, "-headless")
		}
		caps.AddFirefox(f)
	}
	return caps
}

// by maps a locator strategy to a WebDriver lookup mechanism.
func by(spec locator.Spec) (string, string, error) {
	switch spec.Strategy {
	case locator.ID:
		return selenium.ByID, spec.Value, nil
	case locator.XPath:
		return selenium.ByXPATH, spec.Value, nil
	case locator.LinkText:
		return selenium.ByLinkText, spec.Value, nil
	case locator.CSS:
		return selenium.ByCSSSelector, spec.Value, nil
	default:
		return "", "", &locator.UnsupportedError{Raw: spec.Raw}
	}
}

func (d *Driver) FindElements(spec locator.Spec) ([]browser.Element, error) {
	mech, value, err := by(spec)
	if err != nil {
		return nil, err
	}
	found, err := d.wd.FindElements(mech, value)
	if err != nil {
		if err = classify("find "+spec.Raw, err); browser.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return d.wrap(found), nil
}

func (d *Driver) wrap(found []selenium.WebElement) []browser.Element {
	out := make([]browser.Element, len(found))
	for i, we := range found {
		out[i] = &element{we: we, d: d}
	}
	return out
}

func (d *Driver) PageText() (string, error) {
	body, err := d.wd.FindElement(selenium.ByTagName, "body")
	if err != nil {
		return "", classify("page text", err)
	}
	text, err := body.Text()
	if err != nil {
		return "", classify("page text", err)
	}
	return text, nil
}

func (d *Driver) ExecuteScript(body string, args ...interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	for i, a := range args {
		if el, ok := a.(*element); ok {
			args[i] = el.we
		}
	}
	v, err := d.wd.ExecuteScript(body, args)
	if err != nil {
		return nil, classify("execute script", err)
	}
	return v, nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	b, err := d.wd.Screenshot()
	return b, classify("screenshot", err)
}

func (d *Driver) PageSource() (string, error) {
	s, err := d.wd.PageSource()
	return s, classify("page source", err)
}

func (d *Driver) Navigate(url string) error {
	return classify("navigate", d.wd.Get(url))
}

func (d *Driver) CurrentURL() (string, error) {
	u, err := d.wd.CurrentURL()
	return u, classify("current url", err)
}

func (d *Driver) Back() error    { return classify("back", d.wd.Back()) }
func (d *Driver) Refresh() error { return classify("refresh", d.wd.Refresh()) }
func (d *Driver) Close() error   { return classify("quit", d.wd.Quit()) }

func (d *Driver) DialogText() (string, error) {
	t, err := d.wd.AlertText()
	return t, classify("alert text", err)
}

func (d *Driver) AcceptDialog() error  { return classify("accept alert", d.wd.AcceptAlert()) }
func (d *Driver) DismissDialog() error { return classify("dismiss alert", d.wd.DismissAlert()) }

func (d *Driver) SetDialogText(text string) error {
	return classify("set alert text", d.wd.SetAlertText(text))
}

// script runs body with el as arguments[0].
func (d *Driver) script(op string, body string, el *element, args ...interface{}) (interface{}, error) {
	all := append([]interface{}{el.we}, args...)
	v, err := d.wd.ExecuteScript(body, all)
	if err != nil {
		return nil, classify(op, err)
	}
	return v, nil
}
