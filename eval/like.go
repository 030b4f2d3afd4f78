package eval

import (
	"strings"

	"github.com/rowstore/xeval/datum"
	"github.com/rowstore/xeval/expr"
)

// evalLike implements the restricted-pattern LIKE match of spec §4.D. The
// producer guarantees the pattern matches ^%?[^\\_%]*%?$: at most one
// leading %, at most one trailing %, no wildcard/escape metacharacters in
// between.
func (e *Evaluator) evalLike(node *expr.Node) (datum.Datum, error) {
	target, pattern, err := e.evalTwoChildren(node)
	if err != nil {
		return datum.Null, err
	}
	if target.IsNull() || pattern.IsNull() {
		return datum.Null, nil
	}

	targetStr, err := datum.IntoString(target)
	if err != nil {
		return datum.Null, err
	}
	patternStr, err := datum.IntoString(pattern)
	if err != nil {
		return datum.Null, err
	}

	// Casefold is triggered by the pattern containing an ASCII letter, not
	// by the target's contents. An all-digit pattern against a mixed-case
	// target therefore stays byte-exact; this asymmetry is deliberate.
	if containsASCIIAlpha(patternStr) {
		targetStr = asciiLower(targetStr)
		patternStr = asciiLower(patternStr)
	}

	return likeMatch(targetStr, patternStr), nil
}

func likeMatch(target, pattern string) datum.Datum {
	n := len(pattern)
	if strings.HasPrefix(pattern, "%") {
		rest := pattern[1:]
		if strings.HasSuffix(rest, "%") {
			inner := pattern[1 : n-1]
			return datum.FromBool(strings.Contains(target, inner)).Datum()
		}
		return datum.FromBool(strings.HasSuffix(target, rest)).Datum()
	}
	if strings.HasSuffix(pattern, "%") {
		return datum.FromBool(strings.HasPrefix(target, pattern[:n-1])).Datum()
	}
	return datum.FromBool(target == pattern).Datum()
}

func containsASCIIAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if isASCIIAlpha(s[i]) {
			return true
		}
	}
	return false
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// asciiLower lowercases only ASCII letters, leaving every other byte
// (including non-ASCII UTF-8 sequences) untouched, matching the original
// source's to_ascii_lowercase semantics.
func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
