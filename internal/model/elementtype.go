package model

import (
	"regexp"
	"strings"
)

// InputTypeMap maps <input type="..."> values to human-readable categories.
var InputTypeMap = map[string]string{
	"text":     "textbox",
	"button":   "button",
	"checkbox": "checkbox",
	"image":    "input image",
	"password": "password textbox",
	"radio":    "radio button",
	"submit":   "submit button",
}

// TagMap maps non-input tag names to human-readable categories. Clickable
// containers (div, span) read as links in action logs because that is how
// they behave on the pages under test.
var TagMap = map[string]string{
	"a":      "link",
	"select": "selectlist",
	"div":    "link",
	"img":    "image",
	"td":     "table cell",
	"span":   "link",
}

// Classify converts a tag name and optional input type into the category
// used in action logs, e.g. ("input", "checkbox") -> "checkbox". It never
// fails: unknown tags fall back to the lowercase tag name.
func Classify(tagName, inputType string) string {
	tag := strings.ToLower(strings.TrimSpace(tagName))
	if tag == "input" {
		typ := strings.ToLower(strings.TrimSpace(inputType))
		if typ == "" {
			return "textbox"
		}
		if category, ok := InputTypeMap[typ]; ok {
			return category
		}
		return tag + " " + typ
	}
	if category, ok := TagMap[tag]; ok {
		return category
	}
	return tag
}

// Describe joins a category and a subject as "<category>: <subject>".
// A subject repeating the category as its first word is trimmed so logs read
// "link: in table" instead of "link: link in table". For multi-word
// categories the last word is trimmed as well ("submit button: button in
// form" -> "submit button: in form").
func Describe(category, subject string) string {
	if category == "" {
		return subject
	}
	subject = trimLeadingWord(subject, category)
	if i := strings.LastIndex(category, " "); i >= 0 {
		subject = trimLeadingWord(subject, strings.TrimSpace(category[i:]))
	}
	return category + ": " + subject
}

func trimLeadingWord(s, word string) string {
	re := regexp.MustCompile("^" + regexp.QuoteMeta(word) + " ")
	return re.ReplaceAllString(s, "")
}
