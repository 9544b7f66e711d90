package model

// Element is a structured locator descriptor, used by page definitions that
// want readable action logs instead of raw locators.
type Element struct {
	Locator string   `yaml:"locator"          json:"locator"`
	Name    string   `yaml:"name,omitempty"   json:"name,omitempty"`    // Human-readable name, e.g. "Save button"
	Label   *Element `yaml:"label,omitempty"  json:"label,omitempty"`   // Element whose visible text names this one
}

// NewElement returns an Element for the given raw locator.
func NewElement(locator string) Element {
	return Element{Locator: locator}
}

// Named returns a copy of e with a human-readable name.
func (e Element) Named(name string) Element {
	e.Name = name
	return e
}

// LabelledBy returns a copy of e whose log text is read from label.
func (e Element) LabelledBy(label Element) Element {
	e.Label = &label
	return e
}

// String returns the name when set, otherwise the raw locator.
func (e Element) String() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Locator
}
