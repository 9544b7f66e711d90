// Package playwright drives Chromium, Firefox or WebKit through
// playwright-go.
package playwright

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/locator"
	"github.com/playwright-community/playwright-go"
)

// Driver is a browser.Driver and browser.Dialogs backed by one Playwright
// page.
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	mu     sync.Mutex
	dialog playwright.Dialog // open dialog, if any
	answer string
}

var (
	_ browser.Driver  = (*Driver)(nil)
	_ browser.Dialogs = (*Driver)(nil)
)

// Open starts the Playwright driver and launches opts.Browser (chromium by
// default). A non-empty RemoteURL connects to a running Playwright server.
func Open(opts browser.Options) (browser.Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	bt, err := browserType(pw, opts.Browser)
	if err != nil {
		pw.Stop()
		return nil, err
	}
	var b playwright.Browser
	if opts.RemoteURL != "" {
		b, err = bt.Connect(opts.RemoteURL)
	} else {
		b, err = bt.Launch(playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(opts.Headless)})
	}
	if err != nil {
		pw.Stop()
		return nil, err
	}
	page, err := b.NewPage()
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, err
	}
	if opts.Timeout > 0 {
		page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
	}
	d := &Driver{pw: pw, browser: b, page: page}
	page.OnDialog(d.onDialog)
	return d, nil
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch strings.ToLower(name) {
	case "", "chromium", "chrome":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit", "safari":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unknown playwright browser %q (use chromium, firefox or webkit)", name)
	}
}

func (d *Driver) onDialog(dlg playwright.Dialog) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialog = dlg
}

// classify wraps Playwright failures. Absent nodes are detected by
// counting matches before acting, and page exceptions by the evaluation
// envelope, so every error that reaches here is a driver failure.
func classify(op string, err error) error {
	return browser.Wrap(op, err)
}

func (d *Driver) FindElements(spec locator.Spec) ([]browser.Element, error) {
	if spec.Strategy == locator.Unsupported {
		return nil, &locator.UnsupportedError{Raw: spec.Raw}
	}
	sel := spec.Selector()
	n, err := d.page.Locator(sel).Count()
	if err != nil {
		return nil, classify("find "+spec.Raw, err)
	}
	out := make([]browser.Element, n)
	for i := range out {
		out[i] = &element{d: d, parent: d.page.Locator(sel), index: i}
	}
	return out, nil
}

func (d *Driver) PageText() (string, error) {
	v, err := d.ExecuteScript(`return document.body ? document.body.innerText : "";`)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// evalEnvelope runs body inside a try/catch so that exceptions thrown by
// page code are reported separately from protocol failures.
const evalEnvelope = `(args) => {
  try {
    const v = (function() { %s }).apply(null, args);
    return {v: v === undefined ? null : v};
  } catch (e) {
    return {e: String(e)};
  }
}`

func (d *Driver) ExecuteScript(body string, args ...interface{}) (interface{}, error) {
	pass := make([]interface{}, len(args))
	for i, a := range args {
		el, ok := a.(*element)
		if !ok {
			pass[i] = a
			continue
		}
		loc, err := el.locate()
		if err != nil {
			return nil, err
		}
		h, err := loc.ElementHandle()
		if err != nil {
			return nil, classify("execute script", err)
		}
		defer h.Dispose()
		pass[i] = h
	}
	res, err := d.page.Evaluate(fmt.Sprintf(evalEnvelope, body), pass)
	if err != nil {
		return nil, classify("execute script", err)
	}
	return unwrap(res)
}

func unwrap(res interface{}) (interface{}, error) {
	m, ok := res.(map[string]interface{})
	if !ok {
		return res, nil
	}
	if msg, failed := m["e"]; failed {
		return nil, browser.ScriptError(errors.New(fmt.Sprint(msg)))
	}
	return m["v"], nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	b, err := d.page.Screenshot()
	return b, classify("screenshot", err)
}

func (d *Driver) PageSource() (string, error) {
	s, err := d.page.Content()
	return s, classify("page source", err)
}

func (d *Driver) Navigate(url string) error {
	_, err := d.page.Goto(url)
	return classify("navigate", err)
}

func (d *Driver) CurrentURL() (string, error) {
	return d.page.URL(), nil
}

func (d *Driver) Back() error {
	_, err := d.page.GoBack()
	return classify("back", err)
}

func (d *Driver) Refresh() error {
	_, err := d.page.Reload()
	return classify("refresh", err)
}

func (d *Driver) Close() error {
	err := d.browser.Close()
	if stopErr := d.pw.Stop(); err == nil {
		err = stopErr
	}
	return classify("close", err)
}

func (d *Driver) pending() (playwright.Dialog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dialog == nil {
		return nil, browser.Wrap("dialog", errors.New("no dialog is open"))
	}
	return d.dialog, nil
}

func (d *Driver) DialogText() (string, error) {
	dlg, err := d.pending()
	if err != nil {
		return "", err
	}
	return dlg.Message(), nil
}

func (d *Driver) AcceptDialog() error {
	dlg, err := d.pending()
	if err != nil {
		return err
	}
	d.mu.Lock()
	answer := d.answer
	d.dialog, d.answer = nil, ""
	d.mu.Unlock()
	if answer != "" {
		return classify("accept dialog", dlg.Accept(answer))
	}
	return classify("accept dialog", dlg.Accept())
}

func (d *Driver) DismissDialog() error {
	dlg, err := d.pending()
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.dialog, d.answer = nil, ""
	d.mu.Unlock()
	return classify("dismiss dialog", dlg.Dismiss())
}

func (d *Driver) SetDialogText(text string) error {
	if _, err := d.pending(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.answer = text
	return nil
}
