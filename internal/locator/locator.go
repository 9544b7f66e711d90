// Package locator normalizes the locator syntaxes accepted by the CLI and the
// session API into a single Spec that every browser backend understands.
package locator

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy is the lookup mechanism a Spec resolves with.
type Strategy int

const (
	ID Strategy = iota
	XPath
	LinkText
	CSS
	Unsupported
)

func (s Strategy) String() string {
	switch s {
	case ID:
		return "id"
	case XPath:
		return "xpath"
	case LinkText:
		return "link"
	case CSS:
		return "css"
	default:
		return "unsupported"
	}
}

// ErrUnsupported is returned for locator syntaxes the driver model cannot express.
var ErrUnsupported = errors.New("unsupported locator")

// UnsupportedError carries the raw locator that failed to resolve.
type UnsupportedError struct {
	Raw string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported locator %q: DOM expression locators are not supported, use id, xpath=, link= or css=", e.Raw)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// Spec is a resolved locator. It is a value type and never mutated.
type Spec struct {
	Raw      string
	Strategy Strategy
	Value    string
}

func (s Spec) String() string {
	return s.Raw
}

// Parse resolves a raw locator. Rules are checked in order and the first
// match wins:
//
//	""                   id with an empty value
//	//... or xpath=...   xpath
//	link=...             link text
//	css=...              css selector
//	document. or dom=    ErrUnsupported
//	anything else        id, using the raw string verbatim
func Parse(raw string) (Spec, error) {
	switch {
	case raw == "":
		return Spec{Raw: raw, Strategy: ID}, nil
	case strings.HasPrefix(raw, "//"):
		return Spec{Raw: raw, Strategy: XPath, Value: raw}, nil
	case strings.HasPrefix(raw, "xpath="):
		return Spec{Raw: raw, Strategy: XPath, Value: strings.TrimPrefix(raw, "xpath=")}, nil
	case strings.HasPrefix(raw, "link="):
		return Spec{Raw: raw, Strategy: LinkText, Value: strings.TrimPrefix(raw, "link=")}, nil
	case strings.HasPrefix(raw, "css="):
		return Spec{Raw: raw, Strategy: CSS, Value: strings.TrimPrefix(raw, "css=")}, nil
	case strings.HasPrefix(raw, "document.") || strings.HasPrefix(raw, "dom="):
		return Spec{Raw: raw, Strategy: Unsupported}, &UnsupportedError{Raw: raw}
	default:
		return Spec{Raw: raw, Strategy: ID, Value: raw}, nil
	}
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(raw string) Spec {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// XPath renders an id, link or xpath spec as an XPath expression. CSS specs
// have no XPath form and return ok=false.
func (s Spec) XPath() (expr string, ok bool) {
	switch s.Strategy {
	case ID:
		return "//*[@id=" + Literal(s.Value) + "]", true
	case LinkText:
		return "//a[normalize-space(.)=" + Literal(s.Value) + "]", true
	case XPath:
		return s.Value, true
	default:
		return "", false
	}
}

// Selector renders the spec as an engine-prefixed selector of the form
// "css=..." or "xpath=...", as understood by selector-engine drivers.
func (s Spec) Selector() string {
	if s.Strategy == CSS {
		return "css=" + s.Value
	}
	expr, _ := s.XPath()
	return "xpath=" + expr
}

// Literal quotes s as an XPath string literal. XPath 1.0 has no escape
// sequences, so strings containing both quote kinds are built with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}
