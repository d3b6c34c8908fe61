// Package htmldoc turns raw model output into a standalone HTML document and
// applies the safety filter that every generated page must pass.
package htmldoc

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/user/hallucination-cache/internal/entity"
)

// Doctype is the canonical declaration every normalized document starts with.
const Doctype = "<!doctype html>"

// minWrapLength is how long stripped output must be before it is wrapped
// verbatim as a last resort.
const minWrapLength = 100

var ErrUnparseableOutput = errors.New("model returned no parseable standalone HTML document")

var (
	thinkingTags  = regexp.MustCompile(`(?is)<think>.*?</think>`)
	codeFence     = regexp.MustCompile("(?is)```(?:html|json)?\\s*(.*?)```")
	doctypePrefix = regexp.MustCompile(`(?i)^<!doctype html>`)
)

const (
	doctypeMarker = "<!doctype html"
	rootMarker    = "<html"
	closeMarker   = "</html>"
)

// Document is the normalized result of an extraction.
type Document struct {
	HTML        string
	Mode        entity.Mode
	Title       string
	Description string
}

// Extract runs the extraction steps in order and returns the first success.
func Extract(raw string) (Document, error) {
	return extract(raw, true)
}

func extract(raw string, allowJSON bool) (Document, error) {
	text := strings.TrimSpace(thinkingTags.ReplaceAllString(raw, ""))

	if inner, ok := unfence(text); ok {
		if doc, ok := extractText(inner, allowJSON); ok {
			return doc, nil
		}
	}
	if doc, ok := extractText(text, allowJSON); ok {
		return doc, nil
	}
	return Document{}, ErrUnparseableOutput
}

func extractText(text string, allowJSON bool) (Document, bool) {
	if isStandalone(text) {
		return Document{HTML: ensureDoctype(text), Mode: entity.ModeDirect}, true
	}

	if html, ok := sliceDocument(text); ok {
		return Document{HTML: ensureDoctype(html), Mode: entity.ModeExtracted}, true
	}

	if allowJSON {
		if doc, ok := fromJSON(text); ok {
			return doc, true
		}
	}

	if len(text) > minWrapLength && LooksLikeHTML(text) {
		return Document{
			HTML: Doctype + "\n<html><body>\n" + text + "\n</body></html>",
			Mode: entity.ModeWrapped,
		}, true
	}
	return Document{}, false
}

// unfence returns the body of a markdown fence that either wraps the whole
// text or carries the document markers. Fenced snippets in commentary around
// a document are left alone.
func unfence(text string) (string, bool) {
	for _, m := range codeFence.FindAllStringSubmatch(text, -1) {
		inner := strings.TrimSpace(m[1])
		if m[0] == text || hasDocumentMarker(inner) {
			return inner, true
		}
	}
	return "", false
}

func hasDocumentMarker(text string) bool {
	lower := asciiLower(text)
	return strings.Contains(lower, doctypeMarker) || strings.Contains(lower, rootMarker)
}

func isStandalone(text string) bool {
	lower := asciiLower(text)
	opens := strings.HasPrefix(lower, doctypeMarker) || strings.HasPrefix(lower, rootMarker)
	return opens && strings.HasSuffix(lower, closeMarker)
}

// sliceDocument cuts from the first opening marker to the last closing marker,
// dropping commentary on either side.
func sliceDocument(text string) (string, bool) {
	lower := asciiLower(text)
	start := strings.Index(lower, doctypeMarker)
	if start == -1 {
		start = strings.Index(lower, rootMarker)
	}
	end := strings.LastIndex(lower, closeMarker)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return strings.TrimSpace(text[start : end+len(closeMarker)]), true
}

func fromJSON(text string) (Document, bool) {
	candidate := text
	if !strings.HasPrefix(candidate, "{") || !strings.HasSuffix(candidate, "}") {
		first := strings.Index(text, "{")
		last := strings.LastIndex(text, "}")
		if first == -1 || last <= first {
			return Document{}, false
		}
		candidate = text[first : last+1]
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return Document{}, false
	}
	html, _ := payload["html"].(string)
	if strings.TrimSpace(html) == "" {
		return Document{}, false
	}

	doc, err := extract(html, false)
	if err != nil {
		return Document{}, false
	}
	if doc.Mode != entity.ModeWrapped {
		doc.Mode = entity.ModeExtracted
	}
	doc.Title, _ = payload["title"].(string)
	doc.Description, _ = payload["description"].(string)
	doc.Title = strings.TrimSpace(doc.Title)
	doc.Description = strings.TrimSpace(doc.Description)
	return doc, true
}

func ensureDoctype(html string) string {
	if doctypePrefix.MatchString(html) {
		return html
	}
	return Doctype + "\n" + html
}

// asciiLower lowercases ASCII letters only so byte offsets stay aligned with
// the original text.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
