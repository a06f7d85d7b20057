package dawg

import (
	"math/rand"
	"slices"
	"strings"
)

var morphemes = struct {
	prefixes, roots, suffixes []string
}{
	prefixes: []string{"", "re", "un", "pre", "con", "inter", "pro", "de"},
	roots:    []string{"act", "form", "nat", "pos", "tend", "lat", "mit", "port", "ang", "it"},
	suffixes: []string{"", "s", "ed", "ing", "ion", "ions", "er", "ers", "ive", "or"},
}

var fixedWords = []string{
	"do", "doggy", "cats", "bro", "Czechoslovakians",
	"caution", "nation", "abated", "rated", "watching", "matching",
	"hello", "jello", "jellow", "café", "naïve", "über", "iterate", "ton", "tonic",
}

// testWords returns a sorted, duplicate free word list with plenty of shared
// prefixes and suffixes.
func testWords() []string {
	var words []string
	for _, p := range morphemes.prefixes {
		for _, r := range morphemes.roots {
			for _, s := range morphemes.suffixes {
				words = append(words, p+r+s)
			}
		}
	}

	words = append(words, fixedWords...)
	words = append(words, randomWords(rand.New(rand.NewSource(1)), 400)...)

	slices.Sort(words)
	return slices.Compact(words)
}

func randomWords(rnd *rand.Rand, n int) []string {
	const letters = "abcdeilnorst"
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var b strings.Builder
		length := 1 + rnd.Intn(9)
		for j := 0; j < length; j++ {
			b.WriteByte(letters[rnd.Intn(len(letters))])
		}
		words = append(words, b.String())
	}
	return words
}

func shuffled(words []string, seed int64) []string {
	result := slices.Clone(words)
	rand.New(rand.NewSource(seed)).Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

func without(words []string, from, to int) []string {
	result := make([]string, 0, len(words)-(to-from))
	result = append(result, words[:from]...)
	return append(result, words[to:]...)
}

func filter(words []string, keep func(string) bool) []string {
	var result []string
	for _, word := range words {
		if keep(word) {
			result = append(result, word)
		}
	}
	return result
}
