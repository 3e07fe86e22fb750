// Package mutation generates filter-evading variants of attack payloads.
// Each transform is a plugin implementing Mutator; the engine applies them
// as siblings (never composed) and returns the deduplicated union. The
// transforms are best-effort evasion, not semantics-preserving rewrites:
// a variant that breaks the exploit simply fails its oracle downstream.
package mutation

import "strings"

// Mutator is one payload transform.
type Mutator interface {
	// Name returns the transform's identifier.
	Name() string

	// Mutate returns zero or more variants of payload. Implementations
	// never fail; a transform with nothing to contribute returns nil.
	Mutate(payload string) []string
}

// Engine applies an ordered list of mutators to payloads.
type Engine struct {
	mutators []Mutator
}

// NewEngine returns an engine with the default transform set: case
// permutations, encodings, structural wrappers, and noise injection.
func NewEngine() *Engine {
	return &Engine{mutators: []Mutator{
		&CaseMutator{},
		&EncodingMutator{},
		&WrapMutator{},
		&NoiseMutator{},
	}}
}

// NewEngineWith returns an engine with a caller-chosen mutator list.
// An empty list still yields the identity variant.
func NewEngineWith(mutators ...Mutator) *Engine {
	return &Engine{mutators: mutators}
}

// Mutators returns the engine's transform list in application order.
func (e *Engine) Mutators() []Mutator {
	out := make([]Mutator, len(e.mutators))
	copy(out, e.mutators)
	return out
}

// Variants returns the deduplicated variant set for payload. The original
// payload is always first; transform outputs follow in registration
// order. The result is never empty, even for the empty payload.
func (e *Engine) Variants(payload string) []string {
	seen := map[string]bool{payload: true}
	variants := []string{payload}

	for _, m := range e.mutators {
		for _, v := range m.Mutate(payload) {
			if !seen[v] {
				seen[v] = true
				variants = append(variants, v)
			}
		}
	}
	return variants
}

// alternateCase upper-cases even rune positions and lower-cases odd ones.
func alternateCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range []rune(s) {
		if i%2 == 0 {
			b.WriteString(strings.ToUpper(string(r)))
		} else {
			b.WriteString(strings.ToLower(string(r)))
		}
	}
	return b.String()
}
