// Package rod drives Chrome over the DevTools protocol using go-rod.
package rod

import (
	"errors"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/locator"
)

// DefaultTimeout bounds one rod call when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Driver is a browser.Driver backed by a single rod page.
type Driver struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	timeout  time.Duration
}

var _ browser.Driver = (*Driver)(nil)

// Open launches a local browser through the rod launcher, or connects to the
// DevTools URL in opts.RemoteURL.
func Open(opts browser.Options) (browser.Driver, error) {
	d := &Driver{timeout: opts.Timeout}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	controlURL := opts.RemoteURL
	if controlURL == "" {
		d.launcher = launcher.New().Headless(opts.Headless)
		u, err := d.launcher.Launch()
		if err != nil {
			return nil, err
		}
		controlURL = u
	}
	d.browser = rod.New().ControlURL(controlURL)
	if err := d.browser.Connect(); err != nil {
		d.cleanup()
		return nil, err
	}
	page, err := d.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		d.Close()
		return nil, err
	}
	d.page = page
	return d, nil
}

func (d *Driver) cleanup() {
	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher.Cleanup()
	}
}

// p returns the page bounded by the call timeout.
func (d *Driver) p() *rod.Page {
	return d.page.Timeout(d.timeout)
}

// classify maps rod's typed errors onto the browser error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		objectGone *rod.ObjectNotFoundError
		noElement  *rod.ElementNotFoundError
	)
	if errors.As(err, &objectGone) || errors.As(err, &noElement) {
		return browser.NotFound(err)
	}
	var evalErr *rod.EvalError
	if errors.As(err, &evalErr) {
		return browser.ScriptError(err)
	}
	return browser.Wrap(op, err)
}

func (d *Driver) FindElements(spec locator.Spec) ([]browser.Element, error) {
	var (
		found rod.Elements
		err   error
	)
	switch spec.Strategy {
	case locator.CSS:
		found, err = d.p().Elements(spec.Value)
	default:
		expr, ok := spec.XPath()
		if !ok {
			return nil, &locator.UnsupportedError{Raw: spec.Raw}
		}
		found, err = d.p().ElementsX(expr)
	}
	if err != nil {
		if err = classify("find "+spec.Raw, err); browser.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return d.wrap(found), nil
}

func (d *Driver) wrap(found rod.Elements) []browser.Element {
	out := make([]browser.Element, len(found))
	for i, el := range found {
		out[i] = &element{el: el, d: d}
	}
	return out
}

func (d *Driver) PageText() (string, error) {
	v, err := d.ExecuteScript(`return document.body ? document.body.innerText : "";`)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// ExecuteScript evaluates body as the body of a function; elements among
// args are passed as live node references.
func (d *Driver) ExecuteScript(body string, args ...interface{}) (interface{}, error) {
	for i, a := range args {
		if el, ok := a.(*element); ok {
			args[i] = el.el.Object
		}
	}
	res, err := d.p().Eval("function() { "+body+" }", args...)
	if err != nil {
		return nil, classify("execute script", err)
	}
	return res.Value.Val(), nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	b, err := d.p().Screenshot(false, nil)
	return b, classify("screenshot", err)
}

func (d *Driver) PageSource() (string, error) {
	html, err := d.p().HTML()
	return html, classify("page source", err)
}

func (d *Driver) Navigate(url string) error {
	if err := d.p().Navigate(url); err != nil {
		return classify("navigate", err)
	}
	return classify("navigate", d.p().WaitLoad())
}

func (d *Driver) CurrentURL() (string, error) {
	info, err := d.p().Info()
	if err != nil {
		return "", classify("current url", err)
	}
	return info.URL, nil
}

func (d *Driver) Back() error    { return classify("back", d.p().NavigateBack()) }
func (d *Driver) Refresh() error { return classify("refresh", d.p().Reload()) }

func (d *Driver) Close() error {
	err := d.browser.Close()
	d.cleanup()
	return classify("close", err)
}
