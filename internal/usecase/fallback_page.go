package usecase

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"html/template"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/htmldoc"
)

const (
	fallbackDescription = "Generated with local fallback HTML"
	fallbackMaxCards    = 4
)

type palette struct {
	BG, FG, Accent, Card template.CSS
}

var fallbackPalettes = []palette{
	{BG: "#0a0014", FG: "#f2f1ff", Accent: "#ff6a00", Card: "#22063d"},
	{BG: "#00151f", FG: "#dcfff8", Accent: "#f97316", Card: "#012a36"},
	{BG: "#140b00", FG: "#ffe9c9", Accent: "#53f59f", Card: "#2d1c03"},
	{BG: "#18101f", FG: "#fbe9ff", Accent: "#00e1ff", Card: "#2f1d3a"},
}

type fallbackData struct {
	Seed        string
	Fingerprint string
	Palette     palette
	Artifacts   []string
	Laws        []string
}

var fallbackTemplate = template.Must(template.New("fallback").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Fallback Hallucination Terminal</title>
  <style>
    :root {
      --bg: {{.Palette.BG}};
      --fg: {{.Palette.FG}};
      --accent: {{.Palette.Accent}};
      --card: {{.Palette.Card}};
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      min-height: 100vh;
      color: var(--fg);
      background: linear-gradient(150deg, var(--bg), #020202);
      font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace;
      display: grid;
      place-items: center;
      padding: 24px;
    }
    .frame {
      width: min(1100px, 100%);
      border: 1px solid var(--accent);
      border-radius: 16px;
      background: var(--bg);
      padding: 20px;
    }
    h1 { margin: 0 0 8px; font-size: clamp(1.5rem, 4vw, 2.4rem); }
    .muted { opacity: 0.84; }
    .row { display: flex; gap: 12px; flex-wrap: wrap; margin: 16px 0; }
    .artifact {
      border: 1px solid var(--accent);
      background: var(--card);
      color: var(--fg);
      border-radius: 999px;
      padding: 10px 14px;
      cursor: pointer;
    }
    .panel { background: var(--card); border-radius: 12px; padding: 12px; margin-top: 12px; }
    .log { min-height: 160px; white-space: pre-wrap; line-height: 1.45; }
  </style>
</head>
<body>
  <main class="frame">
    <h1>Fallback Hallucination Interface</h1>
    <div class="muted">Seed: {{.Seed}}</div>
    <div class="muted">Entropy fingerprint: {{.Fingerprint}}</div>
    <div class="row">
      {{- range $i, $a := .Artifacts}}
      <button class="artifact" data-artifact="{{$a}}">Artifact {{inc $i}}: {{$a}}</button>
      {{- end}}
    </div>
    <section class="panel">
      <strong>Site laws</strong>
      <ul>{{range .Laws}}<li>{{.}}</li>{{end}}</ul>
    </section>
    <section class="panel">
      <button id="mutate" class="artifact">Mutate Narrative</button>
      <button id="compliance" class="artifact">Fake Compliance Check</button>
      <button id="forecast" class="artifact">Invent Forecast</button>
      <pre class="log" id="log"></pre>
    </section>
  </main>
  <script>
    var seed = {{.Seed}};
    var fingerprint = {{.Fingerprint}};
    var laws = {{.Laws}};
    var lines = [
      'Rendering impossible navbar variants...',
      'Converting legal text to ritual poetry...',
      'A testimonial from a sentient escalator was approved.',
      'Cataloging user intent as migratory weather.',
      'Repricing premium plan in moonlight credits.',
      'Graph axis changed from revenue to myth density.'
    ];
    var log = document.getElementById('log');
    function pick(arr) { return arr.length ? arr[Math.floor(Math.random() * arr.length)] : ''; }
    function writeLine(prefix) {
      log.textContent += '[' + new Date().toLocaleTimeString() + '] ' + prefix + ' ' + pick(lines) + ' | law=' + pick(laws) + '\n';
      if (log.textContent.length > 5000) log.textContent = log.textContent.slice(-3000);
    }
    document.querySelectorAll('.artifact').forEach(function (btn) {
      btn.addEventListener('click', function () { writeLine('artifact-trigger:'); });
    });
    document.getElementById('mutate').addEventListener('click', function () {
      writeLine('mutation:');
      document.title = 'Mutated ' + Math.floor(Math.random() * 999) + ' :: ' + fingerprint;
    });
    document.getElementById('compliance').addEventListener('click', function () {
      writeLine(Math.random() > 0.32 ? 'compliance: pass (fictional)' : 'compliance: fail (the moon objected)');
    });
    document.getElementById('forecast').addEventListener('click', function () {
      writeLine('forecast for ' + seed.slice(0, 24) + '... ' + pick(['fog of invoices', 'hail made of microcopy']));
    });
    var ticks = 0;
    setInterval(function () { ticks += 1; if (ticks % 3 === 0) writeLine('ambient:'); }, 1200);
  </script>
</body>
</html>
`))

// RenderFallbackPage builds the local page used when no model output was
// accepted. The output depends only on seed and entropy, and every string
// taken from them is defanged so the page always passes the safety filter.
func RenderFallbackPage(seed string, e entity.EntropyCapsule) (string, error) {
	h := fnv.New32a()
	h.Write([]byte(e.Fingerprint + "|" + seed))

	artifacts := e.Artifacts
	if len(artifacts) > fallbackMaxCards {
		artifacts = artifacts[:fallbackMaxCards]
	}

	data := fallbackData{
		Seed:        htmldoc.Defang(seed),
		Fingerprint: htmldoc.Defang(e.Fingerprint),
		Palette:     fallbackPalettes[h.Sum32()%uint32(len(fallbackPalettes))],
		Artifacts:   defangAll(artifacts),
		Laws:        defangAll(e.Laws),
	}

	var buf bytes.Buffer
	if err := fallbackTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render fallback page: %w", err)
	}
	return buf.String(), nil
}

func defangAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = htmldoc.Defang(s)
	}
	return out
}
