package steps

import (
	"os"
	"strings"
	"testing"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/browser/browsertest"
	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/screenshot"
	"github.com/mj1618/browser-cli/internal/session"
	"github.com/mj1618/browser-cli/internal/wait/waittest"
)

func newRunner(t *testing.T, d browser.Driver) *Runner {
	t.Helper()
	rt := config.NewRuntime()
	if err := rt.SetTimeout("1000"); err != nil {
		t.Fatal(err)
	}
	s := session.New(d, session.WithRuntime(rt), session.WithClock(waittest.NewClock()))
	return NewRunner(s, screenshot.NewWriter(t.TempDir(), nil))
}

func parseSteps(t *testing.T, yamlData string) []Step {
	t.Helper()
	steps, err := Parse([]byte(yamlData))
	if err != nil {
		t.Fatalf("failed to parse YAML: %v", err)
	}
	return steps
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "   \n", "[]", "- click: [unclosed"} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestParseRegularStep(t *testing.T) {
	steps := parseSteps(t, `
- click: { loc: "save" }
- open: https://example.com
- sleep: 5
- refresh:
- click: { loc: a }
  type: { loc: b }
`)
	tests := []struct {
		action string
		key    string
		want   string
	}{
		{"click", "loc", "save"},
		{"open", "url", "https://example.com"},
		{"sleep", "ms", "5"},
		{"refresh", "", ""},
	}
	for i, tt := range tests {
		action, params, err := parseRegularStep(steps[i])
		if err != nil {
			t.Fatalf("step %d: %v", i+1, err)
		}
		if action != tt.action {
			t.Errorf("step %d: action = %q, want %q", i+1, action, tt.action)
		}
		if tt.key != "" && StringParam(params, tt.key, "") != tt.want {
			t.Errorf("step %d: %s = %q, want %q", i+1, tt.key, StringParam(params, tt.key, ""), tt.want)
		}
	}
	if _, _, err := parseRegularStep(steps[4]); err == nil {
		t.Error("two action keys should be rejected")
	}
}

func TestParams(t *testing.T) {
	p := map[string]interface{}{"s": "x", "n": 3, "f": 2.5, "q": "42", "b": true}
	if StringParam(p, "n", "") != "3" || StringParam(p, "missing", "d") != "d" {
		t.Error("StringParam")
	}
	if IntParam(p, "n", 0) != 3 || IntParam(p, "f", 0) != 2 || IntParam(p, "q", 0) != 42 || IntParam(p, "s", 7) != 7 {
		t.Error("IntParam")
	}
	if !BoolParam(p, "b", false) || BoolParam(p, "s", false) {
		t.Error("BoolParam")
	}
}

func TestRun_Form(t *testing.T) {
	d := browsertest.New()
	user := browsertest.Input("username", "text")
	remember := browsertest.Checkbox("remember", false)
	submit := &browsertest.Element{Name: "submit", Tag: "button"}
	submit.OnClick = func(*browsertest.Element) {
		d.Add("dashboard", &browsertest.Element{Name: "dashboard", Tag: "div", Value: "Welcome alice"})
	}
	d.Add("username", user)
	d.Add("remember", remember)
	d.Add("submit", submit)
	d.Add("country", browsertest.Select("country", false, "France", "Spain"))
	r := newRunner(t, d)

	res := r.Run(parseSteps(t, `
- type: { loc: username, text: alice }
- check: { loc: remember }
- select: { loc: country, option: Spain }
- click-and-wait: { loc: submit, name: "Sign in" }
- assert: { loc: dashboard, visible: true, text-contains: alice }
- read: { loc: country, what: selected }
`))
	if !res.OK || res.Completed != 6 || res.Steps != 6 || res.Error != "" {
		t.Fatalf("result = %+v", res)
	}
	if got := strings.Join(user.Keys, ""); got != "alice" || !remember.Selected {
		t.Errorf("form state: username=%q remember=%v", got, remember.Selected)
	}
	if got := res.Results[5].Values; len(got) != 1 || got[0] != "Spain" {
		t.Errorf("selected = %v", got)
	}
	for i, sr := range res.Results {
		if sr.Step != i+1 {
			t.Errorf("result %d has step %d", i, sr.Step)
		}
	}
}

func TestRun_StopOnError(t *testing.T) {
	steps := `
- sleep: { ms: 1 }
- bogus: {}
- sleep: { ms: 1 }
`
	r := newRunner(t, browsertest.New())
	res := r.Run(parseSteps(t, steps))
	if res.OK || len(res.Results) != 2 || res.Completed != 1 {
		t.Fatalf("result = %+v", res)
	}
	if !strings.HasPrefix(res.Error, "step 2: unknown step type") {
		t.Errorf("error = %q", res.Error)
	}

	r.StopOnError = false
	res = r.Run(parseSteps(t, steps))
	if res.OK || len(res.Results) != 3 || res.Completed != 2 {
		t.Fatalf("continue on error: result = %+v", res)
	}
}

func TestRun_Try(t *testing.T) {
	r := newRunner(t, browsertest.New())
	res := r.Run(parseSteps(t, `
- try:
    - sleep: { ms: -1 }
    - sleep: { ms: 1 }
- sleep: { ms: 1 }
`))
	if !res.OK || len(res.Results) != 2 {
		t.Fatalf("result = %+v", res)
	}
	try := res.Results[0]
	if try.Action != "try" || !try.OK {
		t.Fatalf("try = %+v", try)
	}
	if len(try.Substeps) != 1 || try.Substeps[0].OK {
		t.Errorf("try should stop at its first failing substep: %+v", try.Substeps)
	}
}

func TestRun_Conditionals(t *testing.T) {
	d := browsertest.New()
	banner := &browsertest.Element{Name: "cookie-banner", Tag: "div", Hidden: true}
	accept := &browsertest.Element{Name: "accept", Tag: "button"}
	d.Add("cookie-banner", banner)
	d.Add("accept", accept)
	r := newRunner(t, d)

	res := r.Run(parseSteps(t, `
- if-exists: { loc: cookie-banner }
  then:
    - sleep: { ms: 1 }
- if-visible: { loc: cookie-banner }
  then:
    - click: { loc: accept }
  else:
    - sleep: { ms: 1 }
    - sleep: { ms: 2 }
- if-exists: { loc: missing }
  then:
    - click: { loc: accept }
`))
	if !res.OK || len(res.Results) != 3 {
		t.Fatalf("result = %+v", res)
	}
	exists, visible, missing := res.Results[0], res.Results[1], res.Results[2]
	if exists.Matched == nil || !*exists.Matched || exists.Branch != "then" || len(exists.Substeps) != 1 {
		t.Errorf("if-exists = %+v", exists)
	}
	if visible.Matched == nil || *visible.Matched || visible.Branch != "else" || len(visible.Substeps) != 2 {
		t.Errorf("if-visible = %+v", visible)
	}
	if missing.Matched == nil || *missing.Matched || missing.Branch != "" || len(missing.Substeps) != 0 {
		t.Errorf("if-exists without else = %+v", missing)
	}
	if d.Count("Click") != 0 {
		t.Errorf("no branch should have clicked: %v", d.Calls())
	}
}

func TestRun_ConditionalBranchFailure(t *testing.T) {
	d := browsertest.New()
	d.Add("x", &browsertest.Element{Name: "x"})
	r := newRunner(t, d)
	res := r.Run(parseSteps(t, `
- if-exists: { loc: x }
  then:
    - sleep: { ms: 0 }
  otherwise:
    - sleep: { ms: 1 }
- if-exists: { loc: x }
  then:
    - sleep: { ms: 0 }
`))
	if res.OK || len(res.Results) != 1 || !strings.Contains(res.Results[0].Error, "unexpected key") {
		t.Fatalf("unknown keys must fail: %+v", res)
	}
	r.StopOnError = false
	res = r.Run(parseSteps(t, `
- if-exists: { loc: x }
  then:
    - sleep: { ms: 0 }
`))
	if res.OK || !strings.HasPrefix(res.Results[0].Error, "then step 1") {
		t.Errorf("branch failure = %+v", res.Results[0])
	}
}

func TestExecute_Wait(t *testing.T) {
	d := browsertest.New()
	d.Text = "Saved"
	d.Add("spinner", &browsertest.Element{Name: "spinner", Hidden: true})
	r := newRunner(t, d)

	res, err := r.Execute("wait", map[string]interface{}{"for": "invisible", "loc": "spinner"})
	if err != nil || res.Match != "invisible spinner" || res.Elapsed != "0.0s" {
		t.Errorf("wait invisible = %+v, %v", res, err)
	}
	if _, err := r.Execute("wait", map[string]interface{}{"for": "text", "text": "Saved"}); err != nil {
		t.Error(err)
	}
	res, err = r.Execute("wait", map[string]interface{}{"for": "visible", "loc": "spinner", "timeout": 1500})
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("wait visible = %+v, %v", res, err)
	}
	if _, err := r.Execute("wait", map[string]interface{}{"for": "element"}); err == nil {
		t.Error("missing loc should fail")
	}
	if _, err := r.Execute("wait", map[string]interface{}{"for": "moon"}); err == nil {
		t.Error("unknown condition should fail")
	}
}

func TestExecute_Assert(t *testing.T) {
	d := browsertest.New()
	d.Text = "Order placed"
	d.Add("status", &browsertest.Element{Name: "status", Value: "Done"})
	d.Add("agree", browsertest.Checkbox("agree", true))
	r := newRunner(t, d)

	pass := []map[string]interface{}{
		{"loc": "status", "text": "Done"},
		{"loc": "status", "visible": true, "enabled": true},
		{"loc": "agree", "checked": true},
		{"loc": "banner", "gone": true},
		{"text-present": "placed"},
	}
	for _, p := range pass {
		if _, err := r.Execute("assert", p); err != nil {
			t.Errorf("assert %v: %v", p, err)
		}
	}
	fail := []map[string]interface{}{
		{"loc": "status", "text": "Pending"},
		{"loc": "status", "hidden": true},
		{"loc": "agree", "unchecked": true},
		{"loc": "status", "gone": true},
		{"loc": "banner"},
		{"text-present": "cancelled"},
		{},
	}
	for _, p := range fail {
		if _, err := r.Execute("assert", p); err == nil {
			t.Errorf("assert %v: expected failure", p)
		}
	}
}

func TestExecute_ReadAndSet(t *testing.T) {
	d := browsertest.New()
	d.URL = "http://app.test/home"
	d.Source = "<html></html>"
	d.Add("home", &browsertest.Element{Name: "home", Tag: "a", Value: "Home", Attrs: map[string]string{"href": "/"}})
	r := newRunner(t, d)

	if res, _ := r.Execute("read", map[string]interface{}{"loc": "home"}); res.Text != "Home" {
		t.Errorf("text = %q", res.Text)
	}
	if res, _ := r.Execute("read", map[string]interface{}{"loc": "home", "what": "type"}); res.Text != "link" {
		t.Errorf("type = %q", res.Text)
	}
	if res, _ := r.Execute("read", map[string]interface{}{"what": "url"}); res.URL != "http://app.test/home" {
		t.Errorf("url = %q", res.URL)
	}
	if res, _ := r.Execute("read", map[string]interface{}{"what": "source"}); res.Text != "<html></html>" {
		t.Errorf("source = %q", res.Text)
	}
	if _, err := r.Execute("read", map[string]interface{}{"what": "text"}); err == nil {
		t.Error("read text without loc should fail")
	}

	res, err := r.Execute("set", map[string]interface{}{"timeout": 5000, "marker": "css=#app", "ajax": "jquery"})
	if err != nil {
		t.Fatal(err)
	}
	rt := r.Session.Runtime()
	if rt.TimeoutMillis() != "5000" || rt.Marker() != "css=#app" || !strings.Contains(rt.Ajax(), "jQuery.active") {
		t.Errorf("runtime = %s %s %s", rt.TimeoutMillis(), rt.Marker(), rt.Ajax())
	}
	if !strings.HasPrefix(res.Match, "timeout=5000, marker=css=#app") {
		t.Errorf("match = %q", res.Match)
	}
	if _, err := r.Execute("set", map[string]interface{}{}); err == nil {
		t.Error("empty set should fail")
	}
	if _, err := r.Execute("set", map[string]interface{}{"timeout": "soon"}); err == nil {
		t.Error("bad timeout should fail")
	}
}

func TestExecute_NavigationAndScreenshot(t *testing.T) {
	d := browsertest.New()
	d.PNG = []byte("png")
	d.Add("dashboard", &browsertest.Element{Name: "dashboard"})
	r := newRunner(t, d)

	res, err := r.Execute("open", map[string]interface{}{"url": "http://app.test/"})
	if err != nil || res.URL != "http://app.test/" {
		t.Fatalf("open = %+v, %v", res, err)
	}
	if _, err := r.Execute("open", map[string]interface{}{}); err == nil {
		t.Error("open without url should fail")
	}
	res, err = r.Execute("screenshot", map[string]interface{}{"class": "Login", "method": "test"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(res.Path, "-Login.test.png") {
		t.Errorf("path = %q", res.Path)
	}
	if data, err := os.ReadFile(res.Path); err != nil || string(data) != "png" {
		t.Errorf("screenshot = %q, %v", data, err)
	}
}

func TestExecute_Dialog(t *testing.T) {
	d := browsertest.NewDialogs()
	r := newRunner(t, d)

	d.Dialog = "Name?"
	res, err := r.Execute("dialog", map[string]interface{}{"kind": "prompt", "answer": "Bob"})
	if err != nil || res.Text != "Name?" || d.Answer != "Bob" || d.Accepted != 1 {
		t.Errorf("prompt = %+v, %v", res, err)
	}
	d.Dialog = "Delete?"
	if _, err := r.Execute("dialog", map[string]interface{}{"accept": false}); err != nil || d.Dismissed != 1 {
		t.Errorf("dismiss: %v", err)
	}
	if _, err := newRunner(t, browsertest.New()).Execute("dialog", nil); err == nil {
		t.Error("drivers without dialog support should fail")
	}
}

func TestExecute_KeysAndHover(t *testing.T) {
	d := browsertest.New()
	field := browsertest.Input("q", "text")
	d.Add("q", field)
	d.Add("menu", &browsertest.Element{Name: "menu"})
	r := newRunner(t, d)

	if _, err := r.Execute("key", map[string]interface{}{"loc": "q", "key": `\13`}); err != nil {
		t.Fatal(err)
	}
	if len(field.Keys) != 1 || field.Keys[0] != browser.KeyEnter {
		t.Errorf("keys = %q", field.Keys)
	}
	if _, err := r.Execute("hover", map[string]interface{}{"loc": "menu", "highlight": false}); err != nil {
		t.Fatal(err)
	}
	if d.Count("Hover menu") != 1 || d.Count("Highlight") != 0 {
		t.Errorf("calls = %v", d.Calls())
	}
	if _, err := r.Execute("click", map[string]interface{}{}); err == nil {
		t.Error("click without loc should fail")
	}
}
