package cosense

import (
	"net/url"
	"strings"
)

var uriComponentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way JavaScript's encodeURIComponent does: only
// A-Z a-z 0-9 - _ . ! ~ * ' ( ) are left as is.
func EncodeURIComponent(s string) string {
	return uriComponentUnescapes.Replace(url.QueryEscape(s))
}
