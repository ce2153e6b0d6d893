package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// maxPatternLen is the longest pattern scored in one pass; longer patterns
// are split into chunks of this many runes.
const maxPatternLen = 32

// normalise case folds s and collapses whitespace runs into single spaces.
func normalise(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// distance is the smallest edit distance between pattern and any substring
// of text (Sellers' algorithm). An empty text costs len(pattern).
func distance(pattern, text []rune) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for i := range prev {
		prev[i] = i
	}
	best := m
	for _, c := range text {
		cur[0] = 0
		for i := 1; i <= m; i++ {
			sub := prev[i-1]
			if pattern[i-1] != c {
				sub++
			}
			cur[i] = min(sub, prev[i]+1, cur[i-1]+1)
		}
		if cur[m] < best {
			best = cur[m]
			if best == 0 {
				return 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}

// cost returns the edit distance of pattern against text, scoring patterns
// longer than maxPatternLen chunk by chunk, together with the number of
// pattern runes it covers.
func cost(pattern, text string) (dist, length int) {
	if strings.Contains(text, pattern) {
		return 0, len([]rune(pattern))
	}
	p := []rune(pattern)
	t := []rune(text)
	for start := 0; start < len(p); start += maxPatternLen {
		end := min(start+maxPatternLen, len(p))
		dist += distance(p[start:end], t)
	}
	return dist, len(p)
}

// fieldScore scores a normalised query against a normalised field. tokens
// are the query's words; with more than one the word-by-word score is also
// considered so word order does not matter.
func fieldScore(query string, tokens []string, text string) float64 {
	dist, length := cost(query, text)
	if length == 0 {
		return 0
	}
	best := float64(dist) / float64(length)
	if best == 0 || len(tokens) < 2 {
		return best
	}
	var sumDist, sumLen int
	for _, tok := range tokens {
		d, l := cost(tok, text)
		sumDist += d
		sumLen += l
	}
	if sumLen > 0 {
		// scattered words never tie an exact match of the whole query
		tokenScore := max(float64(sumDist)/float64(sumLen), 1/float64(2*length))
		best = min(best, tokenScore)
	}
	return best
}
