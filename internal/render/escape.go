package render

import (
	"html/template"
	"strings"
)

// htmlReplacer maps the five HTML-significant characters to entities.
// strings.Replacer makes a single pass, so entities it emits are never
// escaped again.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces &, <, >, " and ' in s with their HTML entities.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// Text is untrusted text that has been escaped for HTML. The only way to
// build one is Escape, so every page field typed as Text is escaped exactly once.
type Text struct {
	html template.HTML
}

// Escape escapes s with EscapeHTML and wraps the result as Text.
func Escape(s string) Text {
	return Text{html: template.HTML(EscapeHTML(s))}
}

// HTML returns the escaped markup.
func (t Text) HTML() template.HTML {
	return t.html
}

// String returns the escaped markup as a plain string.
func (t Text) String() string {
	return string(t.html)
}
