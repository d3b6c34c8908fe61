package chromedp_oracle

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/user/hallucination-cache/internal/entity"
)

const (
	DefaultMinVisibleChars = 20

	ReasonBlank       = "blank"
	ReasonScriptError = "script_error"
)

// DefaultFatalPatterns are the uncaught-exception substrings that reject a page.
var DefaultFatalPatterns = []string{"SyntaxError", "is not defined", "Cannot read"}

// Criteria decide whether a rendered page is acceptable.
type Criteria struct {
	// The visible body text must be strictly longer than this, in runes.
	MinVisibleChars int
	FatalPatterns   []string
}

// DefaultCriteria returns the thresholds used when nothing is configured.
func DefaultCriteria() Criteria {
	return Criteria{
		MinVisibleChars: DefaultMinVisibleChars,
		FatalPatterns:   append([]string(nil), DefaultFatalPatterns...),
	}
}

// Evaluate turns what the browser observed into a verdict. text is the
// trimmed innerText of the body, errs the uncaught exception messages in the
// order they were raised.
func Evaluate(text string, errs []string, c Criteria) *entity.RenderResult {
	n := utf8.RuneCountInString(text)
	res := &entity.RenderResult{TextLength: n, Errors: errs}

	if n <= c.MinVisibleChars {
		res.Reason = fmt.Sprintf("no visible content (body text: %d chars)", n)
		return res
	}
	for _, e := range errs {
		for _, p := range c.FatalPatterns {
			if p != "" && strings.Contains(e, p) {
				res.Reason = "script error: " + e
				return res
			}
		}
	}
	res.OK = true
	return res
}

func rejectionLabel(r *entity.RenderResult) string {
	if strings.HasPrefix(r.Reason, "no visible content") {
		return ReasonBlank
	}
	return ReasonScriptError
}
