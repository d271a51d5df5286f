package core

// headers.go maps arbitrary file headers onto canonical schema field names.
//
// Mapping runs in two passes:
//  1. Exact: the trimmed, lower-cased header equals a field name or alias.
//  2. Fuzzy: remaining headers are scored against the search terms of fields
//     not claimed in pass 1. Pairs are assigned best-score-first and accepted
//     only at or above FuzzyThreshold.
//
// Pass 1 completes before pass 2 starts, so a weak fuzzy match can never take
// a field that an exact header claims. Each field is assigned at most once.

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// FuzzyThreshold is the minimum similarity (0-1) for a fuzzy header match.
const FuzzyThreshold = 0.6

// HeaderMapping maps a file header (as trimmed) to a canonical field name.
type HeaderMapping map[string]string

// MapHeaders maps file headers to canonical names for the given schema.
// Unmapped headers are absent from the result. The result is deterministic
// for identical input.
func MapHeaders(fileHeaders []string, fields []FieldSpec) HeaderMapping {
	mapping := make(HeaderMapping)
	claimed := make(map[string]bool)

	exact := make(map[string]string)
	for _, f := range fields {
		for _, term := range f.SearchTerms() {
			key := strings.ToLower(strings.TrimSpace(term))
			if _, seen := exact[key]; !seen {
				exact[key] = f.Name
			}
		}
	}

	var pending []int
	for i, h := range fileHeaders {
		header := strings.TrimSpace(h)
		if header == "" {
			continue
		}
		if _, done := mapping[header]; done {
			continue
		}
		if name, ok := exact[strings.ToLower(header)]; ok && !claimed[name] {
			mapping[header] = name
			claimed[name] = true
			continue
		}
		pending = append(pending, i)
	}

	type candidate struct {
		header string
		hIdx   int
		field  string
		fIdx   int
		score  float64
	}

	var candidates []candidate
	for _, hi := range pending {
		header := strings.TrimSpace(fileHeaders[hi])
		if _, done := mapping[header]; done {
			continue
		}
		normHeader := normalizeHeader(header)
		if normHeader == "" {
			continue
		}
		for fi, f := range fields {
			if claimed[f.Name] {
				continue
			}
			best := 0.0
			for _, term := range f.SearchTerms() {
				if s := similarity(normHeader, normalizeHeader(term)); s > best {
					best = s
				}
			}
			if best >= FuzzyThreshold {
				candidates = append(candidates, candidate{header, hi, f.Name, fi, best})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.hIdx != b.hIdx {
			return a.hIdx < b.hIdx
		}
		return a.fIdx < b.fIdx
	})

	for _, c := range candidates {
		if claimed[c.field] {
			continue
		}
		if _, done := mapping[c.header]; done {
			continue
		}
		mapping[c.header] = c.field
		claimed[c.field] = true
	}

	return mapping
}

// columnFields returns the canonical field for each column index, or "" for
// unmapped columns. When several columns share a header only the first is
// used.
func columnFields(fileHeaders []string, fields []FieldSpec) ([]string, HeaderMapping) {
	mapping := MapHeaders(fileHeaders, fields)
	cols := make([]string, len(fileHeaders))
	used := make(map[string]bool)
	for i, h := range fileHeaders {
		name, ok := mapping[strings.TrimSpace(h)]
		if !ok || used[name] {
			continue
		}
		cols[i] = name
		used[name] = true
	}
	return cols, mapping
}

// normalizeHeader lower-cases and reduces punctuation to single spaces.
func normalizeHeader(s string) string {
	var b strings.Builder
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// similarity scores two normalized strings in [0, 1] as the better of
// normalized edit similarity and token overlap (Dice coefficient).
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	edit := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)

	return max(edit, tokenDice(a, b))
}

func tokenDice(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]int, len(ta))
	for _, t := range ta {
		set[t]++
	}
	shared := 0
	for _, t := range tb {
		if set[t] > 0 {
			set[t]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ta)+len(tb))
}
