package steps

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mj1618/browser-cli/internal/model"
	"github.com/mj1618/browser-cli/internal/session"
)

// Parameter extraction helpers for step maps

// StringParam returns params[key] as a string. Numbers YAML decoded as int
// or float are formatted back.
func StringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

// IntParam returns params[key] as an int, accepting numeric strings.
func IntParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		case string:
			if i, err := strconv.Atoi(n); err == nil {
				return i
			}
		}
	}
	return defaultVal
}

func BoolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

func requireString(params map[string]interface{}, action, key string) (string, error) {
	s := StringParam(params, key, "")
	if s == "" {
		return "", fmt.Errorf("%s requires %s", action, key)
	}
	return s, nil
}

// callOptions maps the shared step parameters onto session call options:
// name and label for the action log, highlight, timeout in milliseconds
// and an ajax preset or expression.
func callOptions(params map[string]interface{}) []session.CallOption {
	var opts []session.CallOption
	name := StringParam(params, "name", "")
	if label := StringParam(params, "label", ""); label != "" {
		el := model.NewElement(StringParam(params, "loc", "")).Named(name).LabelledBy(model.NewElement(label))
		opts = append(opts, session.For(el))
	} else if name != "" {
		opts = append(opts, session.Named(name))
	}
	if !BoolParam(params, "highlight", true) {
		opts = append(opts, session.NoHighlight())
	}
	if _, ok := params["timeout"]; ok {
		opts = append(opts, session.Within(time.Duration(IntParam(params, "timeout", 0))*time.Millisecond))
	}
	if ajax := StringParam(params, "ajax", ""); ajax != "" {
		opts = append(opts, session.AjaxIdle(ajax))
	}
	return opts
}
