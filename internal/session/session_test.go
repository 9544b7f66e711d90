package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/browser/browsertest"
	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/locator"
	"github.com/mj1618/browser-cli/internal/logging"
	"github.com/mj1618/browser-cli/internal/model"
	"github.com/mj1618/browser-cli/internal/wait"
	"github.com/mj1618/browser-cli/internal/wait/waittest"
)

type harness struct {
	s     *Session
	clock *waittest.Clock
	logs  *observer.ObservedLogs
	rt    *config.Runtime
}

func newHarness(t *testing.T, d browser.Driver) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	clock := waittest.NewClock()
	rt := config.NewRuntime()
	if err := rt.SetTimeout("2000"); err != nil {
		t.Fatal(err)
	}
	s := New(d,
		WithRuntime(rt),
		WithClock(clock),
		WithLogger(logging.Wrap(zap.New(core))),
	)
	return &harness{s: s, clock: clock, logs: logs, rt: rt}
}

func (h *harness) actions() []observer.LoggedEntry {
	return h.logs.FilterField(zap.String("category", logging.CategoryAction)).All()
}

func link(name string) *browsertest.Element {
	return &browsertest.Element{Name: name, Tag: "a", Value: name}
}

func TestClick_Sequence(t *testing.T) {
	d := browsertest.New()
	d.Add("home", link("home"))
	h := newHarness(t, d)

	if err := h.s.Click("home"); err != nil {
		t.Fatalf("Click: %v", err)
	}
	want := []string{"FindElements home", "Highlight home", "TagName home", "Attribute home", "Click home"}
	if got := d.Calls(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %v, want %v", got, want)
	}
	entries := h.actions()
	if len(entries) != 1 {
		t.Fatalf("got %d action entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["target"]; got != "link: home" {
		t.Errorf("target = %v", got)
	}
}

func TestClick_Highlight(t *testing.T) {
	t.Run("option", func(t *testing.T) {
		d := browsertest.New()
		d.Add("home", link("home"))
		h := newHarness(t, d)
		if err := h.s.Click("home", NoHighlight()); err != nil {
			t.Fatal(err)
		}
		if d.Count("Highlight") != 0 {
			t.Error("NoHighlight must skip the highlight")
		}
	})
	t.Run("runtime", func(t *testing.T) {
		d := browsertest.New()
		d.Add("home", link("home"))
		h := newHarness(t, d)
		h.rt.SetHighlight(false)
		if err := h.s.Click("home"); err != nil {
			t.Fatal(err)
		}
		if d.Count("Highlight") != 0 {
			t.Error("runtime highlight=false must skip the highlight")
		}
	})
	t.Run("failure is swallowed", func(t *testing.T) {
		d := browsertest.New()
		el := link("home")
		el.HighlightErr = errors.New("outline not supported")
		d.Add("home", el)
		h := newHarness(t, d)
		if err := h.s.Click("home"); err != nil {
			t.Fatalf("highlight failure must not fail the click: %v", err)
		}
		if d.Count("Click") != 1 {
			t.Error("click not performed")
		}
		if h.logs.FilterMessage("highlight failed").Len() != 1 {
			t.Error("highlight failure should be logged at debug")
		}
	})
}

func TestClick_LocatorErrors(t *testing.T) {
	d := browsertest.New()
	h := newHarness(t, d)

	err := h.s.Click("dom=document.forms[0]")
	if !errors.Is(err, locator.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
	if len(d.Calls()) != 0 {
		t.Errorf("unsupported locator must fail before touching the driver, calls = %v", d.Calls())
	}

	err = h.s.Click("missing")
	if !errors.Is(err, browser.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClick_DriverErrorPropagates(t *testing.T) {
	d := browsertest.New()
	d.FindErr = &browser.DriverError{Op: "find", Err: errors.New("session deleted")}
	h := newHarness(t, d)

	err := h.s.Click("home")
	var de *browser.DriverError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DriverError", err)
	}
	if errors.Is(err, browser.ErrNotFound) || errors.Is(err, wait.ErrTimeout) {
		t.Error("a driver error must not read as not-found or timeout")
	}
}

func TestClick_Names(t *testing.T) {
	d := browsertest.New()
	d.Add("btn", &browsertest.Element{Name: "btn", Tag: "input", Attrs: map[string]string{"type": "submit"}})
	d.Add("caption", &browsertest.Element{Name: "caption", Tag: "span", Value: "Save changes"})
	h := newHarness(t, d)

	if err := h.s.Click("btn", Named("button in form")); err != nil {
		t.Fatal(err)
	}
	el := model.NewElement("btn").LabelledBy(model.NewElement("caption"))
	if err := h.s.Click(el.Locator, For(el)); err != nil {
		t.Fatal(err)
	}
	entries := h.actions()
	if len(entries) != 2 {
		t.Fatalf("got %d action entries", len(entries))
	}
	if got := entries[0].ContextMap()["target"]; got != "submit button: in form" {
		t.Errorf("named target = %v", got)
	}
	if got := entries[1].ContextMap()["target"]; got != "element: Save changes" {
		t.Errorf("labelled target = %v", got)
	}
}

func TestAjaxIdle_AfterActions(t *testing.T) {
	d := browsertest.New()
	d.Add("home", link("home"))
	polls := 0
	d.Script = func(body string, args ...interface{}) (interface{}, error) {
		polls++
		if !strings.Contains(body, "jQuery.active") {
			t.Errorf("unexpected script %q", body)
		}
		return polls >= 3, nil
	}
	h := newHarness(t, d)
	if err := h.rt.SetAjax("jquery"); err != nil {
		t.Fatal(err)
	}

	if err := h.s.Click("home"); err != nil {
		t.Fatal(err)
	}
	if polls != 3 {
		t.Errorf("ajax polls = %d, want 3", polls)
	}

	polls = 0
	if err := h.s.Click("home", AjaxIdle("none")); err != nil {
		t.Fatal(err)
	}
	if polls != 0 {
		t.Error("AjaxIdle(none) must skip the idle wait")
	}
}

func TestAjaxWait(t *testing.T) {
	t.Run("no expression is a no-op", func(t *testing.T) {
		d := browsertest.New()
		h := newHarness(t, d)
		if err := h.s.AjaxWait(); err != nil {
			t.Fatal(err)
		}
		if len(d.Calls()) != 0 {
			t.Errorf("calls = %v", d.Calls())
		}
	})
	t.Run("script errors mean not idle", func(t *testing.T) {
		d := browsertest.New()
		d.Script = func(string, ...interface{}) (interface{}, error) {
			return nil, browser.ScriptError(errors.New("jQuery is not defined"))
		}
		h := newHarness(t, d)
		err := h.s.AjaxWait(AjaxIdle("jquery"), Within(time.Second))
		if !errors.Is(err, wait.ErrTimeout) {
			t.Errorf("err = %v, want timeout", err)
		}
	})
	t.Run("driver errors abort", func(t *testing.T) {
		d := browsertest.New()
		boom := &browser.DriverError{Op: "execute script", Err: errors.New("disconnected")}
		d.Script = func(string, ...interface{}) (interface{}, error) { return nil, boom }
		h := newHarness(t, d)
		if err := h.s.AjaxWait(AjaxIdle("return true;")); !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
		if d.Count("ExecuteScript") != 1 {
			t.Error("driver errors must not be retried")
		}
	})
	t.Run("unknown preset", func(t *testing.T) {
		h := newHarness(t, browsertest.New())
		if err := h.s.AjaxWait(AjaxIdle("mootools")); err == nil {
			t.Error("expected unknown preset error")
		}
	})
}

func TestType(t *testing.T) {
	d := browsertest.New()
	field := browsertest.Input("user", "text")
	field.Keys = []string{"old"}
	d.Add("user", field)
	h := newHarness(t, d)

	if err := h.s.Type("user", "alice"); err != nil {
		t.Fatal(err)
	}
	if len(field.Keys) != 1 || field.Keys[0] != "alice" {
		t.Errorf("keys = %q", field.Keys)
	}
	if err := h.s.TypeKeys("user", "!"); err != nil {
		t.Fatal(err)
	}
	if strings.Join(field.Keys, "") != "alice!" {
		t.Errorf("TypeKeys must not clear, keys = %q", field.Keys)
	}
	if err := h.s.SetText("user", "bob"); err != nil {
		t.Fatal(err)
	}
	if strings.Join(field.Keys, "") != "bob" {
		t.Errorf("keys = %q", field.Keys)
	}
	entry := h.actions()[0]
	if entry.Message != "type" || entry.ContextMap()["text"] != "alice" || entry.ContextMap()["target"] != "textbox: user" {
		t.Errorf("entry = %v %v", entry.Message, entry.ContextMap())
	}
}

func TestKeyPress(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"enter", browser.KeyEnter},
		{"TAB", browser.KeyTab},
		{`\13`, browser.KeyEnter},
		{`\119`, "w"},
		{"a", "a"},
	}
	for _, tt := range tests {
		d := browsertest.New()
		field := browsertest.Input("q", "text")
		d.Add("q", field)
		h := newHarness(t, d)
		if err := h.s.KeyPress("q", tt.key); err != nil {
			t.Errorf("KeyPress(%q): %v", tt.key, err)
			continue
		}
		if len(field.Keys) != 1 || field.Keys[0] != tt.want {
			t.Errorf("KeyPress(%q) sent %q, want %q", tt.key, field.Keys, tt.want)
		}
	}

	d := browsertest.New()
	d.Add("q", browsertest.Input("q", "text"))
	h := newHarness(t, d)
	for _, bad := range []string{"hyperspace", `\x`} {
		if err := h.s.KeyPress("q", bad); err == nil {
			t.Errorf("KeyPress(%q) should fail", bad)
		}
	}
	if len(d.Calls()) != 0 {
		t.Error("a bad key must fail before touching the driver")
	}
}

func TestHoverAndDoubleClick(t *testing.T) {
	d := browsertest.New()
	d.Add("menu", &browsertest.Element{Name: "menu", Tag: "div"})
	h := newHarness(t, d)
	if err := h.s.Hover("menu"); err != nil {
		t.Fatal(err)
	}
	if err := h.s.DoubleClick("menu"); err != nil {
		t.Fatal(err)
	}
	if d.Count("Hover menu") != 1 || d.Count("DoubleClick menu") != 1 {
		t.Errorf("calls = %v", d.Calls())
	}
	msgs := []string{h.actions()[0].Message, h.actions()[1].Message}
	if msgs[0] != "hover" || msgs[1] != "double click" {
		t.Errorf("messages = %v", msgs)
	}
}

func TestCheckUncheck(t *testing.T) {
	t.Run("already in state", func(t *testing.T) {
		d := browsertest.New()
		d.Add("agree", browsertest.Checkbox("agree", true))
		h := newHarness(t, d)
		if err := h.s.Check("agree"); err != nil {
			t.Fatal(err)
		}
		if d.Count("Click") != 0 {
			t.Error("no click expected when already checked")
		}
		if d.Count("Highlight") != 1 {
			t.Error("the element should still be highlighted")
		}
		if got := h.actions(); len(got) != 1 || got[0].Message != "check" {
			t.Errorf("actions = %v", got)
		}
	})
	t.Run("repeated check converges", func(t *testing.T) {
		d := browsertest.New()
		box := browsertest.Checkbox("agree", false)
		d.Add("agree", box)
		h := newHarness(t, d)
		for i := 0; i < 2; i++ {
			if err := h.s.Check("agree"); err != nil {
				t.Fatalf("call %d: %v", i+1, err)
			}
		}
		if !box.Selected || d.Count("Click") != 1 {
			t.Errorf("selected=%v clicks=%d, want one click in total", box.Selected, d.Count("Click"))
		}
		if len(h.actions()) != 2 {
			t.Errorf("actions = %d, want one per call", len(h.actions()))
		}
	})
	t.Run("one click", func(t *testing.T) {
		d := browsertest.New()
		box := browsertest.Checkbox("agree", true)
		d.Add("agree", box)
		h := newHarness(t, d)
		if err := h.s.Uncheck("agree"); err != nil {
			t.Fatal(err)
		}
		if box.Selected || d.Count("Click") != 1 {
			t.Errorf("selected=%v clicks=%d", box.Selected, d.Count("Click"))
		}
		if got := h.actions(); len(got) != 1 || got[0].Message != "uncheck" {
			t.Errorf("actions = %v", got)
		}
	})
	t.Run("second click when the first did not take", func(t *testing.T) {
		d := browsertest.New()
		box := browsertest.Checkbox("agree", false)
		box.Stuck = 1
		d.Add("agree", box)
		h := newHarness(t, d)
		if err := h.s.Check("agree"); err != nil {
			t.Fatal(err)
		}
		if !box.Selected || d.Count("Click") != 2 {
			t.Errorf("selected=%v clicks=%d", box.Selected, d.Count("Click"))
		}
	})
	t.Run("state never changes", func(t *testing.T) {
		d := browsertest.New()
		box := browsertest.Checkbox("agree", false)
		box.Stuck = 5
		d.Add("agree", box)
		h := newHarness(t, d)
		if err := h.s.CheckUncheck("agree", true); !errors.Is(err, ErrState) {
			t.Errorf("err = %v, want ErrState", err)
		}
		if d.Count("Click") != 2 {
			t.Errorf("clicks = %d, want 2", d.Count("Click"))
		}
	})
}

func TestQueries(t *testing.T) {
	d := browsertest.New()
	d.Text = "Welcome back, alice"
	d.Add("agree", browsertest.Checkbox("agree", true))
	d.Add("save", &browsertest.Element{Name: "save", Tag: "input", Attrs: map[string]string{"type": "submit"}, Disabled: true})
	d.Add("css=.msg", &browsertest.Element{Name: "msg", Tag: "td", Value: "Saved", Hidden: true})
	h := newHarness(t, d)

	if ok, err := h.s.IsElementPresent("agree"); !ok || err != nil {
		t.Errorf("IsElementPresent = %v, %v", ok, err)
	}
	if ok, err := h.s.IsElementPresent("nope"); ok || err != nil {
		t.Errorf("IsElementPresent(nope) = %v, %v", ok, err)
	}
	if ok, _ := h.s.IsVisible("css=.msg"); ok {
		t.Error("hidden element reported visible")
	}
	if ok, err := h.s.IsVisible("nope"); ok || err != nil {
		t.Errorf("IsVisible(nope) = %v, %v", ok, err)
	}
	if ok, _ := h.s.IsEnabled("save"); ok {
		t.Error("disabled element reported enabled")
	}
	if ok, _ := h.s.IsSelected("agree"); !ok {
		t.Error("checked box reported unselected")
	}
	if ok, _ := h.s.IsTextPresent("alice"); !ok {
		t.Error("text not found")
	}
	if txt, _ := h.s.Text("css=.msg"); txt != "Saved" {
		t.Errorf("Text = %q", txt)
	}
	if got := h.s.ElementType("agree"); got != "checkbox" {
		t.Errorf("ElementType = %q", got)
	}
	if got := h.s.ElementType("nope"); got != "nope" {
		t.Errorf("ElementType of a missing element = %q, want the locator", got)
	}
	if got := h.s.Description("css=.msg"); got != "table cell: css=.msg" {
		t.Errorf("Description = %q", got)
	}
	if got := h.s.Description("nope"); got != "nope" {
		t.Errorf("Description of a missing element = %q", got)
	}
	if _, err := h.s.IsEnabled("nope"); !errors.Is(err, browser.ErrNotFound) {
		t.Errorf("IsEnabled(nope) err = %v", err)
	}
}

func TestAttributes(t *testing.T) {
	d := browsertest.New()
	el := browsertest.Input("user", "text")
	d.Add("user", el)
	d.Script = func(body string, args ...interface{}) (interface{}, error) {
		if len(args) != 1 || args[0] != el {
			t.Errorf("script args = %v", args)
		}
		return map[string]interface{}{"tagName": "INPUT", "type": "text", "maxlength": float64(20)}, nil
	}
	h := newHarness(t, d)
	attrs, err := h.s.Attributes("user")
	if err != nil {
		t.Fatal(err)
	}
	if attrs["tagName"] != "INPUT" || attrs["type"] != "text" || attrs["maxlength"] != "20" {
		t.Errorf("attrs = %v", attrs)
	}

	d.Script = func(string, ...interface{}) (interface{}, error) { return "nope", nil }
	if _, err := h.s.Attributes("user"); err == nil {
		t.Error("expected error for a non-object result")
	}
}

func TestIsElementPresentWithRefreshing(t *testing.T) {
	d := browsertest.New()
	d.BeforeFind = func(d *browsertest.Driver, spec locator.Spec) {
		if d.Refreshes == 2 {
			d.Add("report", &browsertest.Element{Name: "report", Tag: "div"})
		}
	}
	h := newHarness(t, d)
	ok, err := h.s.IsElementPresentWithRefreshing("report", 10*time.Second, time.Second)
	if !ok || err != nil {
		t.Fatalf("got %v, %v", ok, err)
	}
	if d.Refreshes != 2 {
		t.Errorf("refreshes = %d", d.Refreshes)
	}

	d2 := browsertest.New()
	h2 := newHarness(t, d2)
	ok, err = h2.s.IsElementPresentWithRefreshing("report", 3*time.Second, time.Second)
	if ok || err != nil {
		t.Fatalf("got %v, %v", ok, err)
	}
	if d2.Refreshes != 3 {
		t.Errorf("refreshes = %d, want 3", d2.Refreshes)
	}
}

func TestNavigation(t *testing.T) {
	d := browsertest.New()
	d.Add("dashboard", &browsertest.Element{Name: "dashboard", Tag: "div"})
	h := newHarness(t, d)

	if err := h.s.Open("http://app.test/ui/"); err != nil {
		t.Fatal(err)
	}
	if err := h.s.Open("login?next=home"); err != nil {
		t.Fatal(err)
	}
	if d.URL != "http://app.test/ui/login?next=home" {
		t.Errorf("url = %q", d.URL)
	}
	if err := h.s.GoBack(); err != nil {
		t.Fatal(err)
	}
	if d.URL != "http://app.test/ui/" {
		t.Errorf("after back url = %q", d.URL)
	}
	if err := h.s.Refresh(); err != nil || d.Refreshes != 1 {
		t.Errorf("refresh: %v, %d", err, d.Refreshes)
	}
	var msgs []string
	for _, e := range h.actions() {
		msgs = append(msgs, e.Message)
	}
	if strings.Join(msgs, ",") != "open,open,go back,refresh" {
		t.Errorf("actions = %v", msgs)
	}

	fresh := browsertest.New()
	if err := newHarness(t, fresh).s.Open("login"); err == nil {
		t.Error("relative url against about:blank should fail")
	}
}

func TestDialogs(t *testing.T) {
	h := newHarness(t, browsertest.New())
	if _, err := h.s.Alert(); !errors.Is(err, browser.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
	if err := h.s.AnswerPrompt("x"); !errors.Is(err, browser.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}

	dd := browsertest.NewDialogs()
	h = newHarness(t, dd)
	dd.Dialog = "Are you sure?"
	text, err := h.s.Confirmation()
	if err != nil || text != "Are you sure?" || dd.Accepted != 1 {
		t.Errorf("Confirmation = %q, %v (accepted %d)", text, err, dd.Accepted)
	}
	if _, err := h.s.Alert(); err == nil {
		t.Error("expected error when no dialog is open")
	}
	if err := h.s.AnswerPrompt("bob"); err != nil || dd.Answer != "bob" {
		t.Errorf("AnswerPrompt: %v, answer %q", err, dd.Answer)
	}
	dd.Dialog = "Name?"
	if text, err := h.s.Prompt(); err != nil || text != "Name?" {
		t.Errorf("Prompt = %q, %v", text, err)
	}
	dd.Dialog = "Leave page?"
	if text, err := h.s.DismissDialog(); err != nil || text != "Leave page?" || dd.Dismissed != 1 {
		t.Errorf("DismissDialog = %q, %v", text, err)
	}
}

func TestCaptureAndSleep(t *testing.T) {
	d := browsertest.New()
	d.PNG = []byte{0x89, 'P', 'N', 'G'}
	h := newHarness(t, d)
	png, err := h.s.Capture()
	if err != nil || string(png) != string(d.PNG) {
		t.Errorf("Capture = %v, %v", png, err)
	}
	h.s.Sleep(1500 * time.Millisecond)
	if got := h.clock.Sleeps(); len(got) != 1 || got[0] != 1500*time.Millisecond {
		t.Errorf("sleeps = %v", got)
	}
}

func TestRuntimeChangesApplyToLaterCalls(t *testing.T) {
	d := browsertest.New()
	h := newHarness(t, d)
	start := h.clock.Now()
	if err := h.s.WaitForElement("never"); !errors.Is(err, wait.ErrTimeout) {
		t.Fatal(err)
	}
	if got := h.clock.Now().Sub(start); got != 2*time.Second {
		t.Errorf("elapsed = %v, want 2s", got)
	}
	if err := h.rt.SetTimeout("500"); err != nil {
		t.Fatal(err)
	}
	start = h.clock.Now()
	h.s.WaitForElement("never")
	if got := h.clock.Now().Sub(start); got != 500*time.Millisecond {
		t.Errorf("elapsed after SetTimeout = %v, want 500ms", got)
	}
}
