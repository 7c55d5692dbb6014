// Package wordcloud turns free text into weighted word frequencies for a
// cloud layout.
package wordcloud

import (
	"maps"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMax is the number of words kept when Frequencies is given max <= 0.
const DefaultMax = 200

// collocationThreshold is the likelihood-ratio score above which two adjacent
// words are counted as one phrase.
const collocationThreshold = 30

// Word is one entry of the cloud.
type Word struct {
	Text   string  `json:"text"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"` // count relative to the most frequent word, in (0, 1]
}

// tokenRe matches words in any script; RE2's \w is ASCII only.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{M}\p{N}_']+`)

// Frequencies counts the words of text and returns the max most frequent,
// ordered by count descending then text ascending.
//
// Tokens are runs of two or more letters, digits or underscores (apostrophes
// allowed after the first character). A trailing "'s" is dropped. Stop words
// and purely numeric tokens are removed. Case variants of one word are
// counted together under their most frequent spelling, and a plural is
// folded into its singular when both occur. Adjacent words that occur
// together far more often than chance, such as a brand name, become a single
// two-word entry and no longer count towards their parts.
func Frequencies(text string, max int) []Word {
	if max <= 0 {
		max = DefaultMax
	}

	var tokens []string
	for _, tok := range tokenRe.FindAllString(text, -1) {
		if strings.HasSuffix(strings.ToLower(tok), "'s") {
			tok = tok[:len(tok)-2]
		}
		if utf8.RuneCountInString(tok) < 2 || numeric(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}

	counts := collocate(tokens)
	words := make([]Word, 0, len(counts))
	for w, n := range counts {
		if n > 0 {
			words = append(words, Word{Text: w, Count: n})
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Text < words[j].Text
	})
	if len(words) > max {
		words = words[:max]
	}
	if len(words) > 0 {
		top := float64(words[0].Count)
		for i := range words {
			words[i].Weight = float64(words[i].Count) / top
		}
	}
	return words
}

// collocate counts the non-stop words of tokens and promotes adjacent pairs
// scoring above collocationThreshold to entries of their own. A pair never
// spans a stop word.
func collocate(tokens []string) map[string]int {
	var unigrams, pairs []string
	for i, tok := range tokens {
		if stopword(tok) {
			continue
		}
		unigrams = append(unigrams, tok)
		if i > 0 && !stopword(tokens[i-1]) {
			pairs = append(pairs, tokens[i-1]+" "+tok)
		}
	}

	counts, spelling := tally(unigrams)
	pairCounts, _ := tally(pairs)
	orig := maps.Clone(counts)
	n := len(unigrams)

	for pair, c := range pairCounts {
		first, second, _ := strings.Cut(pair, " ")
		w1, w2 := spelling[strings.ToLower(first)], spelling[strings.ToLower(second)]
		if w1 == "" || w2 == "" {
			continue
		}
		if score(c, orig[w1], orig[w2], n) > collocationThreshold {
			counts[w1] -= c
			counts[w2] -= c
			counts[pair] = c
		}
	}
	return counts
}

// tally groups tokens by lower case. Each group is counted under its most
// frequent spelling (ties go to the lexically smaller one), and a plural
// group joins its singular when both occur. The second result maps every
// lower-cased token, plurals included, to the spelling it is counted under.
func tally(tokens []string) (map[string]int, map[string]string) {
	groups := make(map[string]map[string]int)
	for _, tok := range tokens {
		key := strings.ToLower(tok)
		if groups[key] == nil {
			groups[key] = make(map[string]int)
		}
		groups[key][tok]++
	}

	// a singular never ends in "s" here, so merge targets are never merged
	plurals := make(map[string]string)
	for key, spellings := range groups {
		if !strings.HasSuffix(key, "s") || strings.HasSuffix(key, "ss") {
			continue
		}
		single, ok := groups[key[:len(key)-1]]
		if !ok {
			continue
		}
		for tok, n := range spellings {
			single[tok[:len(tok)-1]] += n
		}
		plurals[key] = key[:len(key)-1]
		delete(groups, key)
	}

	counts := make(map[string]int, len(groups))
	spelling := make(map[string]string, len(groups)+len(plurals))
	for key, spellings := range groups {
		best, total := "", 0
		for tok, n := range spellings {
			total += n
			if best == "" || n > spellings[best] || (n == spellings[best] && tok < best) {
				best = tok
			}
		}
		counts[best] = total
		spelling[key] = best
	}
	for plural, single := range plurals {
		spelling[plural] = spelling[single]
	}
	return counts, spelling
}

// score is Dunning's log-likelihood ratio for a pair seen c12 times whose
// words are seen c1 and c2 times among n words.
func score(c12, c1, c2, n int) float64 {
	k12, k1, k2, total := float64(c12), float64(c1), float64(c2), float64(n)
	p := k2 / total
	p1 := k12 / k1
	p2 := (k2 - k12) / (total - k1)
	return -2 * (logL(k12, k1, p) + logL(k2-k12, total-k1, p) -
		logL(k12, k1, p1) - logL(k2-k12, total-k1, p2))
}

func logL(k, n, x float64) float64 {
	return math.Log(math.Max(x, 1e-10))*k + math.Log(math.Max(1-x, 1e-10))*(n-k)
}

func stopword(tok string) bool {
	return stopwords[strings.ToLower(tok)]
}

func numeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
