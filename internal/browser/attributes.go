package browser

import "strings"

var booleanAttributes = map[string]bool{
	"autofocus": true,
	"checked":   true,
	"disabled":  true,
	"hidden":    true,
	"multiple":  true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
}

// IsBooleanAttribute reports whether name is an HTML boolean attribute,
// whose presence rather than value carries its meaning.
func IsBooleanAttribute(name string) bool {
	return booleanAttributes[strings.ToLower(name)]
}

// AttributeValue normalizes a raw attribute read. Absent attributes are "",
// present boolean attributes are "true" whatever their literal value.
func AttributeValue(name string, value *string) string {
	if value == nil {
		return ""
	}
	if IsBooleanAttribute(name) {
		return "true"
	}
	return *value
}
