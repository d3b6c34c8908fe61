package prompt

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/pkg/utils"
)

const (
	symbolAlphabet = "!@#$%^&*+=?/|~<>[]{}"
	catModeChance  = 0.1
)

// NewEntropyCapsule draws the style and constraint parameters for one attempt.
// The fingerprint mixes wall clock, process and random state so that two
// capsules built in the same instant still differ.
func NewEntropyCapsule(chaos float64, r Rand) entity.EntropyCapsule {
	if r == nil {
		r = DefaultRand
	}
	chaos = utils.Clamp01(chaos)
	now := time.Now().UTC()

	nonce := make([]byte, 10)
	_, _ = rand.Read(nonce)
	tick := strconv.FormatInt(now.UnixNano(), 10)
	tick = tick[max(0, len(tick)-8):]

	host, _ := os.Hostname()
	cwd, _ := os.Getwd()
	pid := os.Getpid()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	capsule := entity.EntropyCapsule{
		Chaos:          chaos,
		Nonce:          hex.EncodeToString(nonce),
		HRTick:         tick,
		PIDSalt:        utils.HashShort(fmt.Sprintf("%d:%s:%s", pid, host, cwd), 10),
		JitterMS:       7 + r.IntN(991),
		Style:          pick(r, styleAxes),
		ColorDirection: pick(r, colorDirections),
		LayoutType:     pick(r, layoutTypes),
		Laws:           takeRandom(r, siteLaws, 1+int(math.Round(chaos*2))),
		Artifacts:      takeRandom(r, artifacts, 2+int(math.Round(chaos*2.5))),
		Taboo:          takeRandom(r, tabooWords, 1+int(math.Round(chaos*2))),
		SymbolFlux:     symbolFlux(r),
		CatMode:        r.Float64() < catModeChance,
		Timestamp:      now,
	}

	capsule.Fingerprint = utils.HashShort(strings.Join([]string{
		now.Format(time.RFC3339Nano),
		capsule.Nonce,
		capsule.HRTick,
		strconv.Itoa(pid),
		strconv.FormatUint(mem.Sys, 10),
		strconv.FormatUint(mem.HeapAlloc, 10),
		strconv.Itoa(capsule.JitterMS),
		capsule.SymbolFlux,
		capsule.Style,
	}, "|"), 18)

	return capsule
}

func symbolFlux(r Rand) string {
	n := 9 + r.IntN(10)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(symbolAlphabet[r.IntN(len(symbolAlphabet))])
	}
	return b.String()
}
