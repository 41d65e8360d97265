package page

import (
	"fmt"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape makes s safe to embed in HTML text or a quoted attribute.
// It is not idempotent: escaping "&amp;" yields "&amp;amp;", so callers
// escape exactly once, where untrusted text enters the markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// EscapeAny escapes the text form of v. A nil value escapes to "".
func EscapeAny(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return Escape(val)
	default:
		return Escape(fmt.Sprint(val))
	}
}
