package htmldoc

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const maxMetadataRunes = 120

var textPolicy = bluemonday.StrictPolicy()

// Metadata holds the human-facing labels found in a document.
type Metadata struct {
	Title       string
	Description string
}

// ReadMetadata pulls the title (falling back to the first h1) and the meta
// description out of a document. Values are stripped of markup and trimmed.
func ReadMetadata(page string) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return Metadata{}, err
	}

	title := doc.Find("title").First().Text()
	if strings.TrimSpace(title) == "" {
		title = doc.Find("h1").First().Text()
	}
	description, _ := doc.Find(`meta[name="description"]`).First().Attr("content")

	return Metadata{
		Title:       CleanText(title),
		Description: CleanText(description),
	}, nil
}

// CleanText removes markup, collapses whitespace and caps the length. The
// result is plain text: the entities the sanitizer emits are decoded again.
func CleanText(s string) string {
	s = strings.Join(strings.Fields(html.UnescapeString(textPolicy.Sanitize(s))), " ")
	if utf8.RuneCountInString(s) <= maxMetadataRunes {
		return s
	}
	return string([]rune(s)[:maxMetadataRunes])
}
