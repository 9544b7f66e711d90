package steps

import (
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/browser-cli/internal/screenshot"
)

// Actions lists every step action Execute understands.
var Actions = []string{
	"open", "back", "refresh",
	"click", "double-click", "click-and-wait", "wait-and-click", "hover",
	"type", "keys", "key", "select", "check", "uncheck",
	"wait", "assert", "read", "screenshot", "sleep", "set", "dialog",
}

// Execute runs one action. The returned result carries whatever the action
// reports (target, text, elapsed); OK and Step are left to the caller.
func (r *Runner) Execute(action string, params map[string]interface{}) (StepResult, error) {
	s := r.Session
	res := StepResult{Action: action, Target: StringParam(params, "loc", "")}
	opts := callOptions(params)

	var err error
	switch action {
	case "open":
		var url string
		if url, err = requireString(params, action, "url"); err != nil {
			return res, err
		}
		err = s.Open(url, opts...)
		res.URL, _ = s.CurrentURL()
	case "back":
		err = s.GoBack(opts...)
		res.URL, _ = s.CurrentURL()
	case "refresh":
		err = s.Refresh(opts...)
	case "click", "double-click", "click-and-wait", "wait-and-click", "hover", "check", "uncheck":
		if res.Target == "" {
			return res, fmt.Errorf("%s requires loc", action)
		}
		switch action {
		case "click":
			err = s.Click(res.Target, opts...)
		case "double-click":
			err = s.DoubleClick(res.Target, opts...)
		case "click-and-wait":
			err = s.ClickAndWait(res.Target, opts...)
		case "wait-and-click":
			if BoolParam(params, "and-wait", false) {
				err = s.WaitAndClickAndWait(res.Target, opts...)
			} else {
				err = s.WaitAndClick(res.Target, opts...)
			}
		case "hover":
			err = s.Hover(res.Target, opts...)
		case "check":
			err = s.Check(res.Target, opts...)
		case "uncheck":
			err = s.Uncheck(res.Target, opts...)
		}
	case "type", "keys":
		if res.Target == "" {
			return res, fmt.Errorf("%s requires loc", action)
		}
		res.Text = StringParam(params, "text", "")
		if action == "keys" {
			err = s.TypeKeys(res.Target, res.Text, opts...)
		} else {
			err = s.Type(res.Target, res.Text, opts...)
		}
	case "key":
		if res.Target == "" {
			return res, fmt.Errorf("key requires loc")
		}
		if res.Key, err = requireString(params, action, "key"); err != nil {
			return res, err
		}
		err = s.KeyPress(res.Target, res.Key, opts...)
	case "select":
		if res.Target == "" {
			return res, fmt.Errorf("select requires loc")
		}
		res.Value = StringParam(params, "option", "")
		if BoolParam(params, "and-wait", false) {
			err = s.SelectAndWait(res.Target, res.Value, opts...)
		} else {
			err = s.Select(res.Target, res.Value, opts...)
		}
	case "wait":
		return r.wait(res, params)
	case "assert":
		return r.assert(res, params)
	case "read":
		return r.read(res, params)
	case "screenshot":
		res.Path, err = r.Screenshots.Save(s, screenshot.Options{
			Class:   StringParam(params, "class", ""),
			Method:  StringParam(params, "method", ""),
			HTML:    BoolParam(params, "html", false),
			Caption: StringParam(params, "caption", ""),
			Width:   IntParam(params, "width", 0),
		})
	case "sleep":
		ms := IntParam(params, "ms", 0)
		if ms <= 0 {
			return res, fmt.Errorf("ms must be > 0")
		}
		s.Sleep(time.Duration(ms) * time.Millisecond)
		res.Elapsed = fmt.Sprintf("%dms", ms)
	case "set":
		return r.set(res, params)
	case "dialog":
		return r.dialog(res, params)
	default:
		return res, fmt.Errorf("unknown step type %q: supported: %s", action, strings.Join(Actions, ", "))
	}
	return res, err
}

func (r *Runner) wait(res StepResult, params map[string]interface{}) (StepResult, error) {
	s := r.Session
	opts := callOptions(params)
	kind := StringParam(params, "for", "element")
	start := s.Now()

	needLoc := func() error {
		if res.Target == "" {
			return fmt.Errorf("wait for %s requires loc", kind)
		}
		return nil
	}
	var err error
	switch kind {
	case "element", "visible", "invisible", "enabled":
		if err = needLoc(); err != nil {
			return res, err
		}
		res.Match = kind + " " + res.Target
		switch kind {
		case "element":
			err = s.WaitForElement(res.Target, opts...)
		case "visible":
			err = s.WaitForVisible(res.Target, opts...)
		case "invisible":
			err = s.WaitForInvisible(res.Target, opts...)
		case "enabled":
			err = s.WaitForEnabled(res.Target, opts...)
		}
	case "text":
		if res.Text, err = requireString(params, "wait for text", "text"); err != nil {
			return res, err
		}
		res.Match = fmt.Sprintf("text %q", res.Text)
		err = s.WaitForTextPresent(res.Text, opts...)
	case "page":
		res.Match = "page " + s.Runtime().Marker()
		err = s.WaitForPageToLoad(opts...)
	case "ajax":
		res.Match = "ajax idle"
		err = s.AjaxWait(opts...)
	default:
		return res, fmt.Errorf("unknown wait condition %q: supported: element, visible, invisible, enabled, text, page, ajax", kind)
	}
	if err != nil {
		return res, err
	}
	res.Elapsed = fmt.Sprintf("%.1fs", s.Now().Sub(start).Seconds())
	return res, nil
}

// assert checks one or more conditions once. The element conditions are
// gone, visible, hidden, enabled, disabled, checked, unchecked, text and
// text-contains; text-present checks the page body.
func (r *Runner) assert(res StepResult, params map[string]interface{}) (StepResult, error) {
	s := r.Session
	var checks []string

	if text := StringParam(params, "text-present", ""); text != "" {
		ok, err := s.IsTextPresent(text)
		if err != nil {
			return res, err
		}
		desc := fmt.Sprintf("text %q present", text)
		if !ok {
			return res, fmt.Errorf("assertion failed: %s", desc)
		}
		checks = append(checks, desc)
	}

	if res.Target == "" {
		if len(checks) == 0 {
			return res, fmt.Errorf("assert requires loc or text-present")
		}
		res.Match = strings.Join(checks, ", ")
		return res, nil
	}

	present, err := s.IsElementPresent(res.Target)
	if err != nil {
		return res, err
	}
	if BoolParam(params, "gone", false) {
		if present {
			return res, fmt.Errorf("assertion failed: %s is present", res.Target)
		}
		res.Match = res.Target + " gone"
		return res, nil
	}
	if !present {
		return res, fmt.Errorf("assertion failed: %s not found", res.Target)
	}
	checks = append(checks, res.Target+" present")

	type state struct {
		key   string
		want  bool
		check func(string) (bool, error)
	}
	for _, st := range []state{
		{"visible", true, s.IsVisible},
		{"hidden", false, s.IsVisible},
		{"enabled", true, s.IsEnabled},
		{"disabled", false, s.IsEnabled},
		{"checked", true, s.IsSelected},
		{"unchecked", false, s.IsSelected},
	} {
		if !BoolParam(params, st.key, false) {
			continue
		}
		got, err := st.check(res.Target)
		if err != nil {
			return res, err
		}
		if got != st.want {
			return res, fmt.Errorf("assertion failed: %s is not %s", res.Target, st.key)
		}
		checks = append(checks, st.key)
	}

	wantText, hasText := params["text"]
	contains := StringParam(params, "text-contains", "")
	if hasText || contains != "" {
		text, err := s.Text(res.Target)
		if err != nil {
			return res, err
		}
		res.Text = text
		if hasText {
			want := fmt.Sprintf("%v", wantText)
			if strings.TrimSpace(text) != want {
				return res, fmt.Errorf("assertion failed: text of %s is %q, want %q", res.Target, text, want)
			}
			checks = append(checks, fmt.Sprintf("text %q", want))
		}
		if contains != "" {
			if !strings.Contains(text, contains) {
				return res, fmt.Errorf("assertion failed: text of %s %q does not contain %q", res.Target, text, contains)
			}
			checks = append(checks, fmt.Sprintf("text contains %q", contains))
		}
	}
	res.Match = strings.Join(checks, ", ")
	return res, nil
}

func (r *Runner) read(res StepResult, params map[string]interface{}) (StepResult, error) {
	s := r.Session
	what := StringParam(params, "what", "text")
	var err error
	switch what {
	case "url":
		res.URL, err = s.CurrentURL()
		return res, err
	case "source":
		res.Text, err = s.PageSource()
		return res, err
	}
	if res.Target == "" {
		return res, fmt.Errorf("read %s requires loc", what)
	}
	switch what {
	case "text":
		res.Text, err = s.Text(res.Target)
	case "attributes":
		res.Attributes, err = s.Attributes(res.Target)
	case "type":
		res.Text = s.ElementType(res.Target)
	case "description":
		res.Text = s.Description(res.Target)
	case "selected":
		res.Values, err = s.SelectedLabels(res.Target)
	case "options":
		res.Values, err = s.SelectOptions(res.Target)
	default:
		return res, fmt.Errorf("unknown read target %q: supported: text, attributes, type, description, selected, options, url, source", what)
	}
	return res, err
}

func (r *Runner) set(res StepResult, params map[string]interface{}) (StepResult, error) {
	rt := r.Session.Runtime()
	var changed []string
	if _, ok := params["timeout"]; ok {
		if err := rt.SetTimeout(StringParam(params, "timeout", "")); err != nil {
			return res, err
		}
		changed = append(changed, "timeout="+rt.TimeoutMillis())
	}
	if marker, ok := params["marker"]; ok {
		if err := rt.SetMarker(fmt.Sprintf("%v", marker)); err != nil {
			return res, err
		}
		changed = append(changed, "marker="+rt.Marker())
	}
	if _, ok := params["ajax"]; ok {
		if err := rt.SetAjax(StringParam(params, "ajax", "")); err != nil {
			return res, err
		}
		changed = append(changed, "ajax="+rt.Ajax())
	}
	if _, ok := params["highlight"]; ok {
		on := BoolParam(params, "highlight", true)
		rt.SetHighlight(on)
		changed = append(changed, fmt.Sprintf("highlight=%t", on))
	}
	if _, ok := params["interval"]; ok {
		ms := IntParam(params, "interval", 0)
		if ms <= 0 {
			return res, fmt.Errorf("interval must be > 0")
		}
		rt.SetInterval(time.Duration(ms) * time.Millisecond)
		changed = append(changed, fmt.Sprintf("interval=%dms", ms))
	}
	if len(changed) == 0 {
		return res, fmt.Errorf("set requires one of timeout, marker, ajax, highlight, interval")
	}
	res.Match = strings.Join(changed, ", ")
	return res, nil
}

// dialog handles the open alert, confirmation or prompt. accept defaults
// to true; answer is typed into a prompt before it is accepted.
func (r *Runner) dialog(res StepResult, params map[string]interface{}) (StepResult, error) {
	s := r.Session
	var err error
	if answer, ok := params["answer"]; ok {
		if err = s.AnswerPrompt(fmt.Sprintf("%v", answer)); err != nil {
			return res, err
		}
	}
	if !BoolParam(params, "accept", true) {
		res.Text, err = s.DismissDialog()
		return res, err
	}
	switch kind := StringParam(params, "kind", "alert"); kind {
	case "alert":
		res.Text, err = s.Alert()
	case "confirm", "confirmation":
		res.Text, err = s.Confirmation()
	case "prompt":
		res.Text, err = s.Prompt()
	default:
		return res, fmt.Errorf("unknown dialog kind %q: supported: alert, confirm, prompt", kind)
	}
	return res, err
}
