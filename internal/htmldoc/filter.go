package htmldoc

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

var ErrForbiddenNetworkCall = errors.New("document references a network primitive")

// networkPrimitives matches the browser APIs that can reach outside the page.
var networkPrimitives = regexp.MustCompile(
	`(?i)\bfetch\s*\(|\bXMLHttpRequest\b|\bWebSocket\b|\bEventSource\b|\bnavigator\s*\.\s*sendBeacon\b`,
)

// CheckSafety rejects documents whose script could open outbound connections.
func CheckSafety(html string) error {
	if match := networkPrimitives.FindString(html); match != "" {
		return fmt.Errorf("%w: %q", ErrForbiddenNetworkCall, match)
	}
	return nil
}

const zeroWidthSpace = "\u200b"

// Defang breaks every network primitive in s by inserting a zero-width space
// after its first character, so that text copied into a page can never trip
// CheckSafety.
func Defang(s string) string {
	for networkPrimitives.MatchString(s) {
		s = networkPrimitives.ReplaceAllStringFunc(s, func(m string) string {
			_, size := utf8.DecodeRuneInString(m)
			return m[:size] + zeroWidthSpace + m[size:]
		})
	}
	return s
}
