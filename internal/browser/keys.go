package browser

import (
	"fmt"
	"strings"
)

// WebDriver key code points. These are the canonical special keys passed to
// Element.SendKeys; backends that type differently translate them.
const (
	KeyBackspace = "\ue003"
	KeyTab       = "\ue004"
	KeyEnter     = "\ue007"
	KeyShift     = "\ue008"
	KeyControl   = "\ue009"
	KeyAlt       = "\ue00a"
	KeyEscape    = "\ue00c"
	KeySpace     = "\ue00d"
	KeyPageUp    = "\ue00e"
	KeyPageDown  = "\ue00f"
	KeyEnd       = "\ue010"
	KeyHome      = "\ue011"
	KeyLeft      = "\ue012"
	KeyUp        = "\ue013"
	KeyRight     = "\ue014"
	KeyDown      = "\ue015"
	KeyDelete    = "\ue017"
)

// KeyNames maps the names accepted on the command line to key code points.
var KeyNames = map[string]string{
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"shift":     KeyShift,
	"ctrl":      KeyControl,
	"control":   KeyControl,
	"alt":       KeyAlt,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"space":     KeySpace,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"end":       KeyEnd,
	"home":      KeyHome,
	"left":      KeyLeft,
	"up":        KeyUp,
	"right":     KeyRight,
	"down":      KeyDown,
	"delete":    KeyDelete,
}

// ParseKey converts a key name such as "enter" or "tab" to its code point.
// A single character is returned unchanged.
func ParseKey(name string) (string, error) {
	if k, ok := KeyNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	if len([]rune(name)) == 1 {
		return name, nil
	}
	return "", fmt.Errorf("unknown key %q", name)
}

// IsSpecialKey reports whether r is a WebDriver special key code point.
func IsSpecialKey(r rune) bool {
	return r >= 0xe000 && r <= 0xf8ff
}

// KeyChunk is either a run of plain text or a single special key.
type KeyChunk struct {
	Text string
	Key  rune // non-zero for special keys
}

// SplitKeys splits a SendKeys sequence into plain text runs and special
// keys, for backends that insert text and press keys with different calls.
func SplitKeys(keys string) []KeyChunk {
	var chunks []KeyChunk
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			chunks = append(chunks, KeyChunk{Text: text.String()})
			text.Reset()
		}
	}
	for _, r := range keys {
		if IsSpecialKey(r) {
			flush()
			chunks = append(chunks, KeyChunk{Key: r})
			continue
		}
		text.WriteRune(r)
	}
	flush()
	return chunks
}

// KeyName returns the canonical name of a special key, e.g. "Enter", as used by
// Playwright's keyboard API.
func KeyName(r rune) string {
	switch string(r) {
	case KeyBackspace:
		return "Backspace"
	case KeyTab:
		return "Tab"
	case KeyEnter:
		return "Enter"
	case KeyShift:
		return "Shift"
	case KeyControl:
		return "Control"
	case KeyAlt:
		return "Alt"
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyEnd:
		return "End"
	case KeyHome:
		return "Home"
	case KeyLeft:
		return "ArrowLeft"
	case KeyUp:
		return "ArrowUp"
	case KeyRight:
		return "ArrowRight"
	case KeyDown:
		return "ArrowDown"
	case KeyDelete:
		return "Delete"
	default:
		return ""
	}
}
