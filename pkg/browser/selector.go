package browser

import (
	"fmt"
	"regexp"
	"strings"
)

// tagPattern matches a bare element name such as "button".
var tagPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// Selector identifies a UI element independently of the driver. CSS is always
// set; Text narrows the match to elements whose visible text contains it, in
// which case CSS must be a bare element name.
type Selector struct {
	CSS  string
	Text string
}

// ByCSS selects elements with a CSS query.
func ByCSS(css string) Selector {
	return Selector{CSS: css}
}

// ByPlaceholder selects an input by its exact placeholder attribute.
func ByPlaceholder(placeholder string) Selector {
	return Selector{CSS: fmt.Sprintf(`input[placeholder=%s]`, cssString(placeholder))}
}

// ByText selects elements of the given tag whose visible text contains text.
func ByText(tag, text string) Selector {
	return Selector{CSS: tag, Text: text}
}

// String renders the selector for logs.
func (s Selector) String() string {
	return s.Playwright()
}

// Playwright renders the selector in Playwright's selector syntax.
func (s Selector) Playwright() string {
	if s.Text == "" {
		return s.CSS
	}

	return fmt.Sprintf(`%s:has-text(%s)`, s.CSS, cssString(s.Text))
}

// XPath renders a text selector as an XPath expression. It returns false for
// selectors without text or whose CSS part is not a bare element name.
func (s Selector) XPath() (string, bool) {
	if s.Text == "" {
		return "", false
	}

	tag := s.CSS
	if tag == "" {
		tag = "*"
	} else if !tagPattern.MatchString(tag) {
		return "", false
	}

	return fmt.Sprintf(`//%s[contains(normalize-space(.), %s)]`, tag, xpathLiteral(s.Text)), true
}

// cssString quotes s as a CSS string literal.
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)

	return `"` + r.Replace(s) + `"`
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so strings holding both quote kinds are built with concat().
func xpathLiteral(s string) string {
	switch {
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	case !strings.Contains(s, `'`):
		return `'` + s + `'`
	}

	parts := strings.Split(s, `"`)
	args := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}

	return "concat(" + strings.Join(args, ", ") + ")"
}
