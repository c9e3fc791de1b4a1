package extract

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Strategy is one (locate, validate) rule in a field's cascade. Locate
// yields candidate strings in document order; Validate accepts or
// rejects a single candidate.
type Strategy struct {
	Name     string
	Locate   func(d *Document) []string
	Validate func(s string) bool
}

// first tries strategies in priority order and returns the first
// candidate that validates, with the name of the winning strategy.
func first(d *Document, field string, cascade []Strategy) (string, bool) {
	for _, st := range cascade {
		for _, cand := range st.Locate(d) {
			if st.Validate(cand) {
				zap.L().Debug("extract: field located",
					zap.String("field", field),
					zap.String("strategy", st.Name),
				)
				return cand, true
			}
		}
	}
	return "", false
}

// collect accumulates up to max deduplicated validating candidates
// across the whole cascade, preserving strategy then document order.
func collect(d *Document, field string, cascade []Strategy, max int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, st := range cascade {
		for _, cand := range st.Locate(d) {
			if len(out) >= max {
				return out
			}
			if _, dup := seen[cand]; dup || !st.Validate(cand) {
				continue
			}
			seen[cand] = struct{}{}
			out = append(out, cand)
		}
	}
	if len(out) > 0 {
		zap.L().Debug("extract: field collected",
			zap.String("field", field),
			zap.Int("count", len(out)),
		)
	}
	return out
}

// stoplist disqualifies site branding, error pages and legal boilerplate.
var stoplist = []string{"vendd", "página", "error", "404", "cookie", "política", "termos"}

func passesStoplist(s string) bool {
	lower := strings.ToLower(s)
	for _, stop := range stoplist {
		if strings.Contains(lower, stop) {
			return false
		}
	}
	return true
}

// Length thresholds count runes; the vocabularies are Portuguese and
// byte counts would skew every limit on accented text.
func minRunes(n int) func(string) bool {
	return func(s string) bool { return utf8.RuneCountInString(s) > n }
}

func runesBetween(lo, hi int) func(string) bool {
	return func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= lo && n <= hi
	}
}

func all(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

func containsAny(s string, markers []string) bool {
	lower := strings.ToLower(s)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// truncateRunes caps s at n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Locate helpers shared by the field cascades.

func texts(selector string) func(d *Document) []string {
	return func(d *Document) []string { return d.Texts(selector) }
}

func metas(selectors ...string) func(d *Document) []string {
	return func(d *Document) []string {
		var out []string
		for _, sel := range selectors {
			if v := d.Meta(sel); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
}

func textsContaining(selector string, markers []string) func(d *Document) []string {
	return func(d *Document) []string {
		var out []string
		for _, t := range d.Texts(selector) {
			if containsAny(t, markers) {
				out = append(out, t)
			}
		}
		return out
	}
}

// firstParagraphs returns the first paragraph inside each container, in
// container priority order.
func firstParagraphs(containers ...string) func(d *Document) []string {
	return func(d *Document) []string {
		var out []string
		for _, c := range containers {
			if t := d.FirstText(c + " p"); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
}
