package locator

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionBy identifies how an <option> inside a select list is matched.
type OptionBy int

const (
	OptionLabel OptionBy = iota
	OptionValue
	OptionID
	OptionIndex
)

func (o OptionBy) String() string {
	switch o {
	case OptionValue:
		return "value"
	case OptionID:
		return "id"
	case OptionIndex:
		return "index"
	default:
		return "label"
	}
}

// Option is a parsed option locator such as "label=Red" or "value=r".
type Option struct {
	Raw   string
	By    OptionBy
	Value string
	Index int
}

// ParseOption parses a select option locator. A string without a recognised
// prefix is a label. The empty string yields ok=false: leave the selection
// unchanged.
func ParseOption(raw string) (opt Option, ok bool, err error) {
	if raw == "" {
		return Option{}, false, nil
	}
	prefix, rest, found := strings.Cut(raw, "=")
	if !found {
		return Option{Raw: raw, By: OptionLabel, Value: raw}, true, nil
	}
	switch prefix {
	case "label":
		return Option{Raw: raw, By: OptionLabel, Value: rest}, true, nil
	case "value":
		return Option{Raw: raw, By: OptionValue, Value: rest}, true, nil
	case "id":
		return Option{Raw: raw, By: OptionID, Value: rest}, true, nil
	case "index":
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return Option{}, false, fmt.Errorf("invalid option index %q", raw)
		}
		return Option{Raw: raw, By: OptionIndex, Index: n}, true, nil
	default:
		return Option{Raw: raw, By: OptionLabel, Value: raw}, true, nil
	}
}

func (o Option) String() string {
	return o.Raw
}
