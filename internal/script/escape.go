// File: internal/script/escape.go
package script

import "strings"

// quoteEscaper rewrites a value so it can sit inside a single-quoted
// JavaScript string literal without breaking the surrounding script.
// Replacer works in a single pass, so escapes it introduces are never
// re-escaped.
var quoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	" ", `\u2028`,
	" ", `\u2029`,
)

// EscapeLiteral makes v safe for interpolation into a single-quoted JS
// string literal.
func EscapeLiteral(v string) string {
	return quoteEscaper.Replace(v)
}

// EncodeNavigationTarget prepares a URL for interpolation into a location
// assignment. Single quotes are percent-encoded rather than escaped so the
// navigation target stays literal; backslashes and line breaks are still
// escaped to keep the script parseable.
func EncodeNavigationTarget(v string) string {
	v = strings.ReplaceAll(v, "'", "%27")
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "\n", "")
	v = strings.ReplaceAll(v, "\r", "")
	return v
}
