// Package chromedp drives Chrome over the DevTools protocol using chromedp.
// Nodes are addressed by the lookup that found them and resolved in-page on
// every call.
package chromedp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/locator"
)

// DefaultTimeout bounds one DevTools round trip when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Driver is a browser.Driver backed by a chromedp context.
type Driver struct {
	ctx     context.Context
	cancel  []context.CancelFunc
	timeout time.Duration
}

var _ browser.Driver = (*Driver)(nil)

// Open launches a local Chrome, or attaches to the DevTools websocket in
// opts.RemoteURL.
func Open(opts browser.Options) (browser.Driver, error) {
	var (
		alloc       context.Context
		allocCancel context.CancelFunc
	)
	if opts.RemoteURL != "" {
		alloc, allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		flags := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("no-first-run", true),
			chromedp.Flag("no-default-browser-check", true),
		)
		alloc, allocCancel = chromedp.NewExecAllocator(context.Background(), flags...)
	}
	ctx, cancel := chromedp.NewContext(alloc)

	d := &Driver{ctx: ctx, cancel: []context.CancelFunc{cancel, allocCancel}, timeout: opts.Timeout}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	// The first Run starts the browser.
	if err := d.run(chromedp.Navigate("about:blank")); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Driver) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// eval runs an envelope-returning expression and decodes its value into out.
func (d *Driver) eval(op, expr string, out interface{}) error {
	var env envelope
	if err := d.run(chromedp.Evaluate(expr, &env)); err != nil {
		return browser.Wrap(op, err)
	}
	switch env.E {
	case "":
	case "notfound":
		return browser.ErrNotFound
	case "script":
		return browser.ScriptError(errors.New(env.M))
	default:
		return browser.Wrap(op, fmt.Errorf("unexpected evaluation result %q", env.E))
	}
	if out == nil || len(env.V) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.V, out); err != nil {
		return browser.Wrap(op, fmt.Errorf("decode result: %w", err))
	}
	return nil
}

// query converts a spec to a css or xpath lookup.
func query(spec locator.Spec) (kind, expr string, err error) {
	if spec.Strategy == locator.CSS {
		return "css", spec.Value, nil
	}
	expr, ok := spec.XPath()
	if !ok {
		return "", "", &locator.UnsupportedError{Raw: spec.Raw}
	}
	return "xpath", expr, nil
}

func (d *Driver) FindElements(spec locator.Spec) ([]browser.Element, error) {
	kind, expr, err := query(spec)
	if err != nil {
		return nil, err
	}
	var n int
	if err := d.eval("find "+spec.Raw, countExpr(kind, expr), &n); err != nil {
		return nil, err
	}
	out := make([]browser.Element, n)
	for i := range out {
		out[i] = &element{d: d, ref: ref{Kind: kind, Expr: expr, Index: i, Option: -1}}
	}
	return out, nil
}

func (d *Driver) PageText() (string, error) {
	var text string
	err := d.eval("page text", pageExpr(`return document.body ? document.body.innerText : "";`, nil), &text)
	return text, err
}

func (d *Driver) ExecuteScript(body string, args ...interface{}) (interface{}, error) {
	for i, a := range args {
		if el, ok := a.(*element); ok {
			args[i] = map[string]interface{}{"__ref": el.ref}
		}
	}
	var v interface{}
	if err := d.eval("execute script", pageExpr(body, args), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	var buf []byte
	if err := d.run(chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, browser.Wrap("screenshot", err)
	}
	return buf, nil
}

func (d *Driver) PageSource() (string, error) {
	var html string
	err := d.eval("page source", pageExpr(`return document.documentElement.outerHTML;`, nil), &html)
	return html, err
}

func (d *Driver) Navigate(url string) error {
	return browser.Wrap("navigate", d.run(chromedp.Navigate(url)))
}

func (d *Driver) CurrentURL() (string, error) {
	var u string
	if err := d.run(chromedp.Location(&u)); err != nil {
		return "", browser.Wrap("current url", err)
	}
	return u, nil
}

func (d *Driver) Back() error    { return browser.Wrap("back", d.run(chromedp.NavigateBack())) }
func (d *Driver) Refresh() error { return browser.Wrap("refresh", d.run(chromedp.Reload())) }

func (d *Driver) Close() error {
	err := chromedp.Cancel(d.ctx)
	for _, c := range d.cancel {
		c()
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return browser.Wrap("close", err)
}
