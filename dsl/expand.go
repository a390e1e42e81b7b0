package dsl

import (
	"strconv"
	"strings"
)

// Expand applies the numeric shorthand rules to a single raw keyword token
// (spec §3):
//
//	"N-M"   -> every integer from N to M inclusive, as strings.
//	"N-M;K" -> stepped: start N, step K, bound M inclusive.
//	anything else is returned unexpanded, as a one-element list.
//
// An empty range (N>M, or N>M in the stepped form) yields an empty list,
// never an error — this is a shorthand for "no keywords", not a mistake.
func Expand(raw string) []string {
	if n, m, ok := parseSpan(raw); ok {
		return intRange(n, m, 1)
	}
	if n, m, k, ok := parseSteppedSpan(raw); ok {
		return intRange(n, m, k)
	}
	return []string{raw}
}

// parseSpan recognizes "N-M" (optional surrounding spaces around '-').
func parseSpan(raw string) (n, m int, ok bool) {
	i := strings.IndexByte(raw, '-')
	if i <= 0 || i == len(raw)-1 {
		return 0, 0, false
	}
	left := strings.TrimSpace(raw[:i])
	right := strings.TrimSpace(raw[i+1:])
	if strings.ContainsAny(right, "-;") {
		return 0, 0, false // let parseSteppedSpan or literal handling take it
	}
	n64, err1 := strconv.Atoi(left)
	m64, err2 := strconv.Atoi(right)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return n64, m64, true
}

// parseSteppedSpan recognizes "N-M;K".
func parseSteppedSpan(raw string) (n, m, k int, ok bool) {
	semi := strings.IndexByte(raw, ';')
	if semi < 0 {
		return 0, 0, 0, false
	}
	head := strings.TrimSpace(raw[:semi])
	step := strings.TrimSpace(raw[semi+1:])
	kk, err := strconv.Atoi(step)
	if err != nil {
		return 0, 0, 0, false
	}
	dash := strings.IndexByte(head, '-')
	if dash <= 0 || dash == len(head)-1 {
		return 0, 0, 0, false
	}
	nn, err1 := strconv.Atoi(strings.TrimSpace(head[:dash]))
	mm, err2 := strconv.Atoi(strings.TrimSpace(head[dash+1:]))
	if err1 != nil || err2 != nil {
		return 0, 0, 0, false
	}
	return nn, mm, kk, true
}

// intRange returns strconv-formatted integers from n to m inclusive, by
// step (step must be >= 1). Empty range (n>m) yields nil.
func intRange(n, m, step int) []string {
	if step < 1 {
		step = 1
	}
	if n > m {
		return nil
	}
	out := make([]string, 0, (m-n)/step+1)
	for v := n; v <= m; v += step {
		out = append(out, strconv.Itoa(v))
	}
	return out
}

// Dedup removes duplicate keywords from a list, preserving first-occurrence
// order.
func Dedup(ks []string) []string {
	seen := make(map[string]struct{}, len(ks))
	out := make([]string, 0, len(ks))
	for _, k := range ks {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
