// Package match provides a simple, deterministic, concurrency-safe keyword
// matcher compiled from a rule's trigger keyword list. It is intentionally
// small and dependency-free, but engineered with production-grade ergonomics:
//
//   - No logging in the library (callers decide how/what to log)
//   - Clear, documented types and functional options (Option pattern)
//   - Unicode-aware case folding via strings.ToLower
//   - Immutable, read-only matcher after construction (safe for concurrent use)
//   - Deterministic first-match reporting (keywords keep their input order)
//   - Sensible defaults (blank/duplicate keyword pruning, keyword length cap)
//
// Matching is the case-insensitive any-substring test the auto-reply rules
// are defined with: a text matches when at least one keyword is a substring
// of the lowercased text. Texts that are empty after trimming never match.
package match

import "strings"

// ----------------------------------------------------------------------------
// Options

// Option customizes matcher construction.
type Option func(*config)

type config struct {
	maxKeywordRunes int
	maxKeywords     int
}

func defaultConfig() config {
	return config{
		maxKeywordRunes: 200,
		maxKeywords:     0, // unlimited
	}
}

// WithMaxKeywordRunes caps the accepted keyword length in runes; longer
// keywords are dropped at build time. Values < 0 disable the cap.
func WithMaxKeywordRunes(n int) Option {
	return func(c *config) { c.maxKeywordRunes = n }
}

// WithMaxKeywords caps how many keywords are compiled; extras are dropped in
// input order. Values <= 0 mean unlimited.
func WithMaxKeywords(n int) Option {
	return func(c *config) { c.maxKeywords = n }
}

// ----------------------------------------------------------------------------
// Matcher

// Matcher tests texts against a fixed, lowercased keyword list. The zero
// value matches nothing; use New.
type Matcher struct {
	keywords []string
}

// New compiles keywords into a Matcher. Keywords are trimmed, lowercased,
// and deduplicated; blank entries are dropped. The input slice is not
// retained or mutated.
func New(keywords []string, opts ...Option) *Matcher {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if cfg.maxKeywordRunes >= 0 && len([]rune(k)) > cfg.maxKeywordRunes {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
		if cfg.maxKeywords > 0 && len(out) >= cfg.maxKeywords {
			break
		}
	}
	return &Matcher{keywords: out}
}

// Len returns the number of compiled keywords.
func (m *Matcher) Len() int { return len(m.keywords) }

// Keywords returns a copy of the compiled (normalized) keyword list.
func (m *Matcher) Keywords() []string {
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}

// Match reports whether any keyword is a substring of text, ignoring case.
// Empty or whitespace-only texts never match.
func (m *Matcher) Match(text string) bool {
	_, ok := m.Matched(text)
	return ok
}

// Matched returns the first keyword (in compiled order) found in text and
// true, or "" and false when nothing matches. The returned keyword is the
// normalized form, suitable for logs.
func (m *Matcher) Matched(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lowered := strings.ToLower(text)
	for _, kw := range m.keywords {
		if strings.Contains(lowered, kw) {
			return kw, true
		}
	}
	return "", false
}
