// Package steps runs a YAML list of browser actions against one session.
//
// Each step is a single-key map naming the action, with its parameters as
// the value:
//
//	- open: { url: "https://app.example.com/login" }
//	- type: { loc: "username", text: "alice" }
//	- click-and-wait: { loc: "css=button[type=submit]" }
//	- assert: { visible: "dashboard" }
//
// Conditional steps (if-exists, if-visible) pick a then or else branch, and
// try runs its substeps without letting their failures stop the batch.
package steps

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/browser-cli/internal/screenshot"
	"github.com/mj1618/browser-cli/internal/session"
)

// maxDepth bounds nesting of try and conditional blocks.
const maxDepth = 8

// Step is one raw entry of a step list.
type Step = map[string]interface{}

// Result is the output of a batch run.
type Result struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Action    string       `yaml:"action"          json:"action"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []StepResult `yaml:"results"         json:"results"`
}

// StepResult is the output for a single step within a batch.
type StepResult struct {
	Step       int               `yaml:"step,omitempty"       json:"step,omitempty"`
	OK         bool              `yaml:"ok"                   json:"ok"`
	Action     string            `yaml:"action"               json:"action"`
	Error      string            `yaml:"error,omitempty"      json:"error,omitempty"`
	Target     string            `yaml:"target,omitempty"     json:"target,omitempty"`
	Text       string            `yaml:"text,omitempty"       json:"text,omitempty"`
	Key        string            `yaml:"key,omitempty"        json:"key,omitempty"`
	Value      string            `yaml:"value,omitempty"      json:"value,omitempty"`
	Values     []string          `yaml:"values,omitempty"     json:"values,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	URL        string            `yaml:"url,omitempty"        json:"url,omitempty"`
	Path       string            `yaml:"path,omitempty"       json:"path,omitempty"`
	Elapsed    string            `yaml:"elapsed,omitempty"    json:"elapsed,omitempty"`
	Match      string            `yaml:"match,omitempty"      json:"match,omitempty"`
	Matched    *bool             `yaml:"matched,omitempty"    json:"matched,omitempty"`
	Branch     string            `yaml:"branch,omitempty"     json:"branch,omitempty"`
	Substeps   []StepResult      `yaml:"substeps,omitempty"   json:"substeps,omitempty"`
}

// Parse decodes a YAML step list.
func Parse(data []byte) ([]Step, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("no steps provided: expected a YAML list of actions")
	}
	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, errors.New("no steps provided: expected a YAML list of actions")
	}
	return steps, nil
}

// Runner executes steps on a session.
type Runner struct {
	Session     *session.Session
	Screenshots *screenshot.Writer
	StopOnError bool
}

// NewRunner returns a Runner that stops on the first failing step.
func NewRunner(s *session.Session, shots *screenshot.Writer) *Runner {
	if shots == nil {
		shots = screenshot.NewWriter("screenshots", s.Logger())
	}
	return &Runner{Session: s, Screenshots: shots, StopOnError: true}
}

// Run executes steps in order and summarizes them. Completed counts the
// steps that succeeded.
func (r *Runner) Run(steps []Step) Result {
	results, failed, lastErr := r.execute(steps, 0, r.StopOnError)
	completed := 0
	for _, res := range results {
		if res.OK {
			completed++
		}
	}
	return Result{
		OK:        !failed,
		Action:    "do",
		Steps:     len(steps),
		Completed: completed,
		Error:     lastErr,
		Results:   results,
	}
}

func (r *Runner) execute(steps []Step, depth int, stopOnError bool) (results []StepResult, failed bool, lastErr string) {
	results = make([]StepResult, 0, len(steps))
	for i, step := range steps {
		res := r.runStep(step, depth)
		res.Step = i + 1
		results = append(results, res)
		if res.OK {
			continue
		}
		failed = true
		lastErr = fmt.Sprintf("step %d: %s", res.Step, res.Error)
		if stopOnError {
			break
		}
	}
	return results, failed, lastErr
}

func (r *Runner) runStep(step Step, depth int) StepResult {
	if depth > maxDepth {
		return StepResult{Error: fmt.Sprintf("steps nested deeper than %d levels", maxDepth)}
	}
	if raw, ok := step["try"]; ok {
		return r.runTry(raw, depth)
	}
	if cond, ok := conditionKey(step); ok {
		return r.runConditional(step, cond, depth)
	}

	action, params, err := parseRegularStep(step)
	if err != nil {
		return StepResult{Action: action, Error: err.Error()}
	}
	res, err := r.Execute(action, params)
	res.Action = action
	if err != nil {
		res.OK = false
		res.Error = err.Error()
		return res
	}
	res.OK = true
	return res
}

// runTry executes substeps until one fails. The try step itself always
// succeeds.
func (r *Runner) runTry(raw interface{}, depth int) StepResult {
	res := StepResult{Action: "try"}
	subs, err := parseSubsteps(raw)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Substeps, _, _ = r.execute(subs, depth+1, true)
	res.OK = true
	return res
}

func (r *Runner) runConditional(step Step, cond string, depth int) StepResult {
	res := StepResult{Action: cond}
	for k := range step {
		if k != cond && k != "then" && k != "else" {
			res.Error = fmt.Sprintf("unexpected key %q in %s step", k, cond)
			return res
		}
	}
	params, err := paramsOf(cond, step[cond])
	if err != nil {
		res.Error = err.Error()
		return res
	}
	loc := StringParam(params, "loc", "")
	if loc == "" {
		res.Error = fmt.Sprintf("%s requires loc", cond)
		return res
	}
	res.Target = loc

	var matched bool
	switch cond {
	case "if-exists":
		matched, err = r.Session.IsElementPresent(loc)
	case "if-visible":
		matched, err = r.Session.IsVisible(loc)
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Matched = &matched

	branch := "else"
	if matched {
		branch = "then"
	}
	raw, ok := step[branch]
	if !ok {
		res.OK = true
		return res
	}
	res.Branch = branch
	subs, err := parseSubsteps(raw)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	var failed bool
	var lastErr string
	res.Substeps, failed, lastErr = r.execute(subs, depth+1, true)
	if failed {
		res.Error = branch + " " + lastErr
		return res
	}
	res.OK = true
	return res
}

func conditionKey(step Step) (string, bool) {
	for _, k := range []string{"if-exists", "if-visible"} {
		if _, ok := step[k]; ok {
			return k, true
		}
	}
	return "", false
}

// parseRegularStep splits a single-key step into its action and params.
func parseRegularStep(step Step) (string, map[string]interface{}, error) {
	if len(step) != 1 {
		return "", nil, fmt.Errorf("expected exactly one action key, got %d", len(step))
	}
	for action, raw := range step {
		params, err := paramsOf(action, raw)
		return action, params, err
	}
	return "", nil, nil
}

// paramsOf accepts a parameter map, nothing, or a scalar shorthand for the
// action's main parameter (e.g. "- open: https://example.com").
func paramsOf(action string, raw interface{}) (map[string]interface{}, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return v, nil
	case string, int, float64, bool:
		return map[string]interface{}{shorthandKey(action): v}, nil
	default:
		return nil, fmt.Errorf("%s: parameters must be a map, got %T", action, raw)
	}
}

func shorthandKey(action string) string {
	switch action {
	case "open":
		return "url"
	case "sleep":
		return "ms"
	case "key":
		return "key"
	default:
		return "loc"
	}
}

func parseSubsteps(raw interface{}) ([]Step, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list of steps, got %T", raw)
	}
	steps := make([]Step, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("substep %d: expected a map, got %T", i+1, item)
		}
		steps = append(steps, m)
	}
	return steps, nil
}
