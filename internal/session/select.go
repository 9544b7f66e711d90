package session

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/locator"
)

// Select chooses an option of the select list at selectLoc. The option
// locator is "label=", "value=", "id=", "index=" or a bare label. An empty
// option locator leaves the selection untouched without touching the page.
// Multi-select lists are cleared first.
func (s *Session) Select(selectLoc, optionLoc string, opts ...CallOption) error {
	return s.selectOption(newCall(opts), selectLoc, optionLoc, true)
}

// SelectAndWait selects an option and waits for the next page to load.
func (s *Session) SelectAndWait(selectLoc, optionLoc string, opts ...CallOption) error {
	if err := s.selectOption(newCall(opts), selectLoc, optionLoc, false); err != nil {
		return err
	}
	return s.WaitForPageToLoad(opts...)
}

// SelectByValue selects the option with the given value in whichever list
// contains it.
func (s *Session) SelectByValue(value string, opts ...CallOption) error {
	list := "//select[option[@value=" + locator.Literal(value) + "]]"
	return s.Select(list, "value="+value, opts...)
}

func (s *Session) selectOption(c *call, selectLoc, optionLoc string, settle bool) error {
	opt, ok, err := locator.ParseOption(optionLoc)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("empty option locator, leaving selection unchanged", zap.String("list", selectLoc))
		return nil
	}
	el, err := s.first(selectLoc)
	if err != nil {
		return err
	}
	s.highlight(c, el)

	options, err := el.Options()
	if err != nil {
		return fmt.Errorf("select %s: %w", selectLoc, err)
	}
	target, err := matchOption(options, opt)
	if err != nil {
		return fmt.Errorf("select %s in %s: %w", optionLoc, selectLoc, err)
	}

	subject := "list " + quote(selectLoc)
	if c.label != nil || c.name != "" {
		subject = s.describe(c, selectLoc, el)
	}
	s.log.Action("select", zap.String("option", optionLoc), zap.String("target", subject))

	multiple, err := el.Attribute("multiple")
	if err != nil {
		return fmt.Errorf("select %s: %w", selectLoc, err)
	}
	if multiple != "" {
		if err := deselectAll(options); err != nil {
			return fmt.Errorf("select %s: %w", selectLoc, err)
		}
	}
	if err := target.Click(); err != nil {
		return fmt.Errorf("select %s in %s: %w", optionLoc, selectLoc, err)
	}
	if !settle {
		return nil
	}
	return s.ajaxWait(c)
}

func deselectAll(options []browser.Element) error {
	for _, o := range options {
		sel, err := o.IsSelected()
		if err != nil {
			return err
		}
		if sel {
			if err := o.Click(); err != nil {
				return err
			}
		}
	}
	return nil
}

func matchOption(options []browser.Element, opt locator.Option) (browser.Element, error) {
	if opt.By == locator.OptionIndex {
		if opt.Index >= len(options) {
			return nil, fmt.Errorf("option index %d out of range (%d options): %w", opt.Index, len(options), browser.ErrNotFound)
		}
		return options[opt.Index], nil
	}
	for _, o := range options {
		var got string
		var err error
		switch opt.By {
		case locator.OptionValue:
			got, err = o.Attribute("value")
		case locator.OptionID:
			got, err = o.Attribute("id")
		default:
			got, err = o.Text()
			got = normalizeSpace(got)
		}
		if err != nil {
			return nil, err
		}
		want := opt.Value
		if opt.By == locator.OptionLabel {
			want = normalizeSpace(want)
		}
		if got == want {
			return o, nil
		}
	}
	return nil, fmt.Errorf("no option %s: %w", opt, browser.ErrNotFound)
}

// SelectedLabel returns the label of the first selected option of loc, or
// "" if nothing is selected.
func (s *Session) SelectedLabel(loc string) (string, error) {
	labels, err := s.selected(loc)
	if err != nil || len(labels) == 0 {
		return "", err
	}
	return labels[0], nil
}

// SelectedLabels returns the labels of every selected option of loc.
func (s *Session) SelectedLabels(loc string) ([]string, error) {
	return s.selected(loc)
}

func (s *Session) selected(loc string) ([]string, error) {
	el, err := s.first(loc)
	if err != nil {
		return nil, err
	}
	options, err := el.Options()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, o := range options {
		sel, err := o.IsSelected()
		if err != nil {
			return nil, err
		}
		if !sel {
			continue
		}
		t, err := o.Text()
		if err != nil {
			return nil, err
		}
		out = append(out, normalizeSpace(t))
	}
	return out, nil
}

// SelectOptions returns the labels of every option of loc, in order.
func (s *Session) SelectOptions(loc string) ([]string, error) {
	el, err := s.first(loc)
	if err != nil {
		return nil, err
	}
	options, err := el.Options()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(options))
	for _, o := range options {
		t, err := o.Text()
		if err != nil {
			return nil, err
		}
		out = append(out, normalizeSpace(t))
	}
	return out, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
