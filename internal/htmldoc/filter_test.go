package htmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSafety_RejectsNetworkPrimitives(t *testing.T) {
	cases := []string{
		`<script>fetch("/api")</script>`,
		`<script>window.fetch ('x')</script>`,
		"<script>FETCH\t(\n'x')</script>",
		`<script>new XMLHttpRequest()</script>`,
		`<script>new xmlhttprequest()</script>`,
		`<script>const s = new WebSocket("wss://x")</script>`,
		`<script>new   websocket(u)</script>`,
		`<script>new EventSource('/stream')</script>`,
		`<script>navigator.sendBeacon('/b', d)</script>`,
		`<script>navigator . SENDBEACON('/b')</script>`,
	}
	for _, html := range cases {
		err := CheckSafety(html)
		assert.ErrorIs(t, err, ErrForbiddenNetworkCall, "expected rejection for %q", html)
	}
}

func TestCheckSafety_AllowsOfflinePages(t *testing.T) {
	cases := []string{
		sampleDoc,
		`<link rel="prefetch" href="#top"><p>refetching feelings</p>`,
		`<script>document.getElementById('x').addEventListener('click', () => {})</script>`,
		`<p>We fetch compliments by hand.</p>`,
	}
	for _, html := range cases {
		assert.NoError(t, CheckSafety(html), "unexpected rejection for %q", html)
	}
}

func TestDefang(t *testing.T) {
	in := `seed: fetch("x") via WebSocket and navigator.sendBeacon`
	out := Defang(in)
	assert.NoError(t, CheckSafety(out))
	assert.Equal(t, in, strings.ReplaceAll(out, "\u200b", ""))

	assert.Equal(t, "a goose bank", Defang("a goose bank"))
}
