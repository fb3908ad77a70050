// Package location maps free-form city and country text to the 3-letter
// airport codes the search collaborators require.
//
// Resolution is a pure function over fixed tables: code passthrough first,
// then exact city, country, and alias lookups, then fuzzy recovery for
// near-miss spellings. The tables are read-only after package initialization,
// so concurrent resolution needs no locking.
package location

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Resolution is the outcome of resolving one piece of location text.
// Computed fresh per call and never persisted.
type Resolution struct {
	Original      string   `json:"original"`
	Normalized    string   `json:"normalized"`
	CanonicalName string   `json:"canonical_name"`
	Code          string   `json:"code,omitempty"` // "" when the text could not be resolved
	IsAlreadyCode bool     `json:"is_already_code"`
	Alternatives  []string `json:"alternatives,omitempty"`
}

// Resolved reports whether the text mapped to a usable airport code.
func (r Resolution) Resolved() bool {
	return r.Code != ""
}

// fuzzyCutoff is the minimum sequence-similarity ratio for typo recovery.
const fuzzyCutoff = 0.8

var (
	stripPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\-']`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the text, expands the fixed abbreviations "st." and
// "mt.", strips everything but letters, digits, spaces, hyphens, and
// apostrophes, and collapses repeated whitespace.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.ReplaceAll(normalized, "st.", "saint")
	normalized = strings.ReplaceAll(normalized, "mt.", "mount")
	normalized = stripPattern.ReplaceAllString(normalized, "")
	normalized = spacePattern.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// Resolve maps arbitrary location text to an airport code. It never panics;
// empty input yields the zero Resolution. First match wins, in order: code
// passthrough, city table, country table, alias table, fuzzy recovery.
func Resolve(text string) Resolution {
	original := strings.TrimSpace(text)
	if original == "" {
		return Resolution{}
	}

	if isCode(original) {
		code := strings.ToUpper(original)
		return Resolution{
			Original:      original,
			Normalized:    code,
			CanonicalName: code,
			Code:          code,
			IsAlreadyCode: true,
		}
	}

	normalized := Normalize(original)
	canonical := normalized
	if target, ok := cityAliases[normalized]; ok {
		canonical = target
	}

	res := Resolution{
		Original:      original,
		Normalized:    normalized,
		CanonicalName: canonical,
		Code:          lookupCode(normalized),
	}
	if res.Code != "" {
		res.Alternatives = Alternatives(original)
	}
	return res
}

// Alternatives returns the additional valid codes for cities known to have
// multiple airports, keyed by canonical city name after alias folding.
// Unknown cities yield nil.
func Alternatives(text string) []string {
	normalized := Normalize(text)
	canonical := normalized
	if target, ok := cityAliases[normalized]; ok {
		canonical = target
	}
	codes, ok := alternativeAirports[canonical]
	if !ok {
		return nil
	}
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// isCode reports whether the trimmed text already has the shape of a
// 3-letter airport code, case-insensitively.
func isCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// lookupCode runs the table chain for already-normalized text: city, country,
// alias, then fuzzy recovery resolved through the same chain.
func lookupCode(normalized string) string {
	if normalized == "" {
		return ""
	}
	if code, ok := cityToAirport[normalized]; ok {
		return code
	}
	if code, ok := countryToAirport[normalized]; ok {
		return code
	}
	if alias, ok := cityAliases[normalized]; ok {
		if code, ok := cityToAirport[alias]; ok {
			return code
		}
	}

	match, ok := closestKey(normalized)
	if !ok {
		return ""
	}
	if code, ok := cityToAirport[match]; ok {
		return code
	}
	if code, ok := countryToAirport[match]; ok {
		return code
	}
	if alias, ok := cityAliases[match]; ok {
		if code, ok := cityToAirport[alias]; ok {
			return code
		}
	}
	return ""
}

// closestKey finds the best fuzzy match for the text across every table key.
// The cheap ratio bounds are checked first so most candidates are rejected
// without a full diff. Ties go to the lexicographically larger key.
func closestKey(word string) (string, bool) {
	matcher := difflib.NewMatcher(nil, splitChars(word))
	best := ""
	bestRatio := 0.0
	for _, key := range fuzzyKeys {
		matcher.SetSeq1(splitChars(key))
		if matcher.RealQuickRatio() < fuzzyCutoff || matcher.QuickRatio() < fuzzyCutoff {
			continue
		}
		if r := matcher.Ratio(); r >= fuzzyCutoff && r >= bestRatio {
			best, bestRatio = key, r
		}
	}
	return best, best != ""
}

func splitChars(s string) []string {
	return strings.Split(s, "")
}
