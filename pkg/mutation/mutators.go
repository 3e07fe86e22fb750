package mutation

import (
	"math/rand"
	"net/url"
	"strings"

	"github.com/webscan/webscan/internal/hexutil"
)

// CaseMutator produces the full-upper, full-lower, and alternating-case
// forms of a payload. Deterministic.
type CaseMutator struct{}

func (m *CaseMutator) Name() string { return "case" }

func (m *CaseMutator) Mutate(payload string) []string {
	return []string{
		strings.ToUpper(payload),
		strings.ToLower(payload),
		alternateCase(payload),
	}
}

// EncodingMutator produces encoded forms that survive lax server-side
// decoding: double URL encoding, per-character hex percent encoding, and
// per-character unicode escapes. Deterministic.
type EncodingMutator struct{}

func (m *EncodingMutator) Name() string { return "encoding" }

func (m *EncodingMutator) Mutate(payload string) []string {
	return []string{
		url.QueryEscape(url.QueryEscape(payload)),
		hexEncode(payload),
		unicodeEscape(payload),
	}
}

// hexEncode renders every byte as a %XX escape, including bytes that need
// no escaping. Naive filters decode once and miss the pattern.
func hexEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		b.WriteString(hexutil.PercentEscape(s[i]))
	}
	return b.String()
}

// unicodeEscape renders every rune as a \uXXXX escape.
func unicodeEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 6)
	for _, r := range s {
		b.WriteString(hexutil.UnicodeEscapeRune(r))
	}
	return b.String()
}

// WrapMutator embeds the payload in HTML comment, script, and style
// containers. Deterministic.
type WrapMutator struct{}

func (m *WrapMutator) Name() string { return "wrap" }

func (m *WrapMutator) Mutate(payload string) []string {
	return []string{
		"<!--" + payload + "-->",
		"<script>" + payload + "</script>",
		"<style>" + payload + "</style>",
	}
}

// NoiseMutator interleaves random alphanumeric characters into the
// payload, inserting after each original character with ~30% probability.
// Randomized on purpose; repeat calls produce different variants.
type NoiseMutator struct {
	// Probability overrides the per-character injection chance when in
	// (0, 1]; zero means the 0.3 default.
	Probability float64
}

func (m *NoiseMutator) Name() string { return "noise" }

const noiseAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (m *NoiseMutator) Mutate(payload string) []string {
	p := m.Probability
	if p <= 0 || p > 1 {
		p = 0.3
	}

	var b strings.Builder
	b.Grow(len(payload) * 2)
	for _, r := range payload {
		b.WriteRune(r)
		if rand.Float64() < p { //nolint:gosec // evasion noise, not crypto
			b.WriteByte(noiseAlphabet[rand.Intn(len(noiseAlphabet))])
		}
	}
	return []string{b.String()}
}
