package htmldoc

import "strings"

// LooksLikeHTML is the single heuristic for "this text carries markup": an
// opening angle bracket followed somewhere later by a closing one.
func LooksLikeHTML(text string) bool {
	open := strings.IndexByte(text, '<')
	if open == -1 {
		return false
	}
	return strings.IndexByte(text[open+1:], '>') != -1
}
