package prompt

import (
	"strings"

	"github.com/user/hallucination-cache/internal/entity"
)

var systemInstruction = strings.Join([]string{
	"You create wildly imaginative fake product websites.",
	"Return ONLY a complete standalone HTML document.",
	"No markdown. No code fences. No JSON. No explanation text.",
	"Rules:",
	"1) Start with <!doctype html> and include <html>, <head>, <body>.",
	"2) Include inline <style> and inline <script>.",
	"3) No external assets, no CDN, no network calls (no fetch/XHR/WebSocket/EventSource).",
	"4) All functionality is fake client-side only.",
	"5) Include at least 3 interactive controls with event handlers.",
	"6) Visual style should be bold and non-generic.",
	"7) Keep output under 120 KB.",
}, "\n")

const catDirective = "SPECIAL DIRECTIVE: The entire site must be cat-themed. All icons are cats, " +
	"all metaphors involve cats, the UI has subtle paw prints, and at least one section " +
	"is written from a cat's perspective."

// BuildMessages returns the system and user messages for one generation
// request.
func BuildMessages(req entity.GenerationRequest) []entity.Message {
	e := req.Entropy
	lines := []string{
		"Seed concept: " + req.Seed,
		"Entropy fingerprint: " + e.Fingerprint,
		"Style axis: " + e.Style,
		"Color palette direction: " + e.ColorDirection,
		"Layout approach: " + e.LayoutType,
		"Do not use these words: " + strings.Join(e.Taboo, ", "),
		"Include these UI artifacts: " + strings.Join(e.Artifacts, ", "),
		"Site law constraints: " + strings.Join(e.Laws, " | "),
		"Glitch token stream: " + e.SymbolFlux,
	}
	if e.CatMode {
		lines = append(lines, catDirective)
	}
	lines = append(lines,
		"Generate a bizarre but coherent single-page experience that looks like a fake startup/public-service portal from an alternate timeline.",
		"It should feel alive: auto-updating widgets, nonsense dashboards, fake transactions, and performative legal notices.",
		"Final output requirement: respond with HTML document text only, starting at <!doctype html> and ending at </html>, with no additional commentary.",
	)

	return []entity.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: strings.Join(lines, "\n")},
	}
}
