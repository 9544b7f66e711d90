// Package ajax holds the in-page expressions used to decide whether a page
// has finished its background requests.
//
// An expression is a JavaScript function body that returns a boolean, in the
// form passed to WebDriver's executeScript. Which expression applies depends
// on the page's JavaScript stack, so presets are looked up by name and custom
// expressions are accepted verbatim.
package ajax

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

const (
	JQuery    = "return jQuery.active == 0"
	Prototype = "return Ajax.activeRequestCount == 0"
	Dojo      = "return dojo.io.XMLHTTPTransport.inFlight.length == 0"
)

var (
	mu      sync.RWMutex
	presets = map[string]string{
		"jquery":    JQuery,
		"prototype": Prototype,
		"dojo":      Dojo,
	}
)

// Register adds or replaces a named preset.
func Register(name, expression string) {
	mu.Lock()
	defer mu.Unlock()
	presets[strings.ToLower(name)] = expression
}

// Preset returns the expression registered under name.
func Preset(name string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	expr, ok := presets[strings.ToLower(name)]
	return expr, ok
}

// Names lists the registered presets in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a preset name or custom expression into an expression.
// "" and "none" disable the idle check. A value containing whitespace or a
// "return" statement is treated as a custom expression; any other
// unrecognised word is an error, since it is most likely a misspelt preset.
func Resolve(nameOrExpr string) (string, error) {
	v := strings.TrimSpace(nameOrExpr)
	if v == "" || strings.EqualFold(v, "none") {
		return "", nil
	}
	if expr, ok := Preset(v); ok {
		return expr, nil
	}
	if strings.ContainsAny(v, " \t\n;()=") {
		return v, nil
	}
	return "", fmt.Errorf("unknown ajax preset %q (known: %s)", v, strings.Join(Names(), ", "))
}

// Guard wraps an expression so that a script error inside the page (for
// example the AJAX library not being loaded) evaluates to false instead of
// failing the evaluation.
func Guard(expression string) string {
	return "try { return (function() { " + expression + " })() === true; } catch (e) { return false; }"
}
