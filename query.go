package dawg

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// FindResult is a stored word found by a lookup, with its index in sorted
// order.
type FindResult struct {
	Word  string
	Index int
}

// EnumFn is called by Enumerate for every prefix of the stored words, with
// the index of the first word that has the prefix and whether the prefix is
// itself a word.
type EnumFn = func(index int, word []rune, final bool) EnumerationResult

// EnumerationResult is returned by an EnumFn to say whether enumeration
// should go below the current prefix, skip it, or stop.
type EnumerationResult = int

const (
	// Continue enumerating all words with this prefix
	Continue EnumerationResult = iota

	// Skip will skip all words with this prefix
	Skip

	// Stop will immediately stop enumerating words
	Stop
)

// Finder is the read-only query interface shared by Graph and Compact.
type Finder interface {
	Contains(word string) bool
	LongestAcceptedPrefix(input string) string
	FindAllPrefixesOf(input string) []FindResult
	IndexOf(input string) int
	Enumerate(fn EnumFn)
	AllStrings() iter.Seq[string]
	StringsWithPrefix(prefix string) []string
	StringsWithSuffix(suffix string) []string
	StringsContaining(substr string) []string
	NumAdded() int
	NumNodes() int
	NumEdges() int
	NumClasses() int
	Stats() Stats
}

var (
	_ Finder = (*Graph)(nil)
	_ Finder = (*Compact)(nil)
)

// walker is what the queries need from a graph: a root, accept flags,
// sorted edges and the number of words below a node.
type walker interface {
	root() int
	isFinal(node int) bool
	edgesOf(node int) []edge
	child(node int, ch rune) (int, bool)
	reachable(node int) int
}

// nextRune decodes the first rune of s. Invalid UTF-8 is never stored, so a
// byte that does not decode reports ok == false rather than RuneError.
func nextRune(s string) (ch rune, size int, ok bool) {
	ch, size = utf8.DecodeRuneInString(s)
	return ch, size, ch != utf8.RuneError || size > 1
}

func walk(w walker, node int, s string) (int, bool) {
	for len(s) > 0 {
		ch, size, ok := nextRune(s)
		if !ok {
			return 0, false
		}
		next, ok := w.child(node, ch)
		if !ok {
			return 0, false
		}
		node, s = next, s[size:]
	}
	return node, true
}

func contains(w walker, word string) bool {
	node, ok := walk(w, w.root(), word)
	return ok && w.isFinal(node)
}

func longestAcceptedPrefix(w walker, input string) string {
	node := w.root()
	end := 0
	for pos := 0; pos < len(input); {
		ch, size, ok := nextRune(input[pos:])
		if !ok {
			break
		}
		next, ok := w.child(node, ch)
		if !ok {
			break
		}
		node = next
		pos += size
		if w.isFinal(node) {
			end = pos
		}
	}
	return input[:end]
}

// skipped returns how many words sort before the ones reached through the
// edge for ch: the node itself if final, plus everything below the edges
// before it.
func skipped(w walker, node int, ch rune) (int, int, bool) {
	count := 0
	if w.isFinal(node) {
		count++
	}
	for _, e := range w.edgesOf(node) {
		if e.ch == ch {
			return e.node, count, true
		}
		if e.ch > ch {
			break
		}
		count += w.reachable(e.node)
	}
	return 0, 0, false
}

func findAllPrefixesOf(w walker, input string) []FindResult {
	var results []FindResult
	skip := 0
	node := w.root()

	// for each character of the input
	for pos := 0; pos < len(input); {
		// if the node is final, add a result
		if w.isFinal(node) {
			results = append(results, FindResult{
				Word:  input[:pos],
				Index: skip,
			})
		}

		// check if there is an outgoing edge for the letter
		letter, size, ok := nextRune(input[pos:])
		if !ok {
			return results
		}
		next, count, ok := skipped(w, node, letter)
		if !ok {
			return results
		}
		node = next
		skip += count
		pos += size
	}

	if w.isFinal(node) {
		results = append(results, FindResult{
			Word:  input,
			Index: skip,
		})
	}

	return results
}

func indexOf(w walker, input string) int {
	skip := 0
	node := w.root()
	for len(input) > 0 {
		letter, size, ok := nextRune(input)
		if !ok {
			return -1
		}
		next, count, ok := skipped(w, node, letter)
		if !ok {
			return -1
		}
		node = next
		skip += count
		input = input[size:]
	}

	if w.isFinal(node) {
		return skip
	}
	return -1
}

func enumerate(w walker, index int, node int, runes []rune, fn EnumFn) EnumerationResult {
	final := w.isFinal(node)

	// call the enum function on the runes
	result := fn(index, runes, final)

	// if the function didn't say to continue, then return.
	if result != Continue {
		return result
	}

	if final {
		index++
	}

	l := len(runes)
	runes = append(runes, 0)

	for _, e := range w.edgesOf(node) {
		runes[l] = e.ch
		result = enumerate(w, index, e.node, runes, fn)
		if result == Stop {
			break
		}
		index += w.reachable(e.node)
	}

	return result
}

// wordsBelow yields every word reachable from node, with prefix prepended,
// in increasing order.
func wordsBelow(w walker, node int, prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var walkNode func(node int, runes []rune) bool
		walkNode = func(node int, runes []rune) bool {
			if w.isFinal(node) && !yield(prefix+string(runes)) {
				return false
			}
			l := len(runes)
			runes = append(runes, 0)
			for _, e := range w.edgesOf(node) {
				runes[l] = e.ch
				if !walkNode(e.node, runes) {
					return false
				}
			}
			return true
		}
		walkNode(node, nil)
	}
}

func stringsWithPrefix(w walker, prefix string) []string {
	node, ok := walk(w, w.root(), prefix)
	if !ok {
		return nil
	}
	return collect(wordsBelow(w, node, prefix), nil)
}

func collect(words iter.Seq[string], keep func(string) bool) []string {
	var result []string
	for word := range words {
		if keep == nil || keep(word) {
			result = append(result, word)
		}
	}
	return result
}

func stringsWithSuffix(w walker, suffix string) []string {
	if !utf8.ValidString(suffix) {
		return nil
	}
	return collect(wordsBelow(w, w.root(), ""), func(word string) bool {
		return strings.HasSuffix(word, suffix)
	})
}

func stringsContaining(w walker, substr string) []string {
	if !utf8.ValidString(substr) {
		return nil
	}
	return collect(wordsBelow(w, w.root(), ""), func(word string) bool {
		return strings.Contains(word, substr)
	})
}

// Graph as a walker

func (g *Graph) root() int {
	return rootNode
}

func (g *Graph) isFinal(node int) bool {
	return g.nodes[node].final
}

func (g *Graph) edgesOf(node int) []edge {
	return g.nodes[node].edges
}

func (g *Graph) child(node int, ch rune) (int, bool) {
	return g.getChild(node, ch)
}

// reachable counts the words below node, caching the counts until the
// graph changes.
func (g *Graph) reachable(node int) int {
	if g.reach == nil {
		g.reach = make(map[int]int)
	}
	if count, ok := g.reach[node]; ok {
		return count
	}

	count := 0
	if g.nodes[node].final {
		count++
	}
	for _, e := range g.nodes[node].edges {
		count += g.reachable(e.node)
	}
	g.reach[node] = count
	return count
}

// Contains reports whether word is stored.
func (g *Graph) Contains(word string) bool {
	return contains(g, word)
}

// LongestAcceptedPrefix returns the longest prefix of input that is a stored
// word, or the empty string if there is none.
func (g *Graph) LongestAcceptedPrefix(input string) string {
	return longestAcceptedPrefix(g, input)
}

// FindAllPrefixesOf returns all stored words that are a prefix of the input
// string, with their indexes.
func (g *Graph) FindAllPrefixesOf(input string) []FindResult {
	return findAllPrefixesOf(g, input)
}

// IndexOf returns the position of input among the stored words in sorted
// order, or -1 if it is not stored.
func (g *Graph) IndexOf(input string) int {
	return indexOf(g, input)
}

// Enumerate calls fn for every prefix of the stored words, in increasing
// order. fn returns Continue to go deeper, Skip to leave out the words below
// the prefix, or Stop to end the enumeration.
func (g *Graph) Enumerate(fn EnumFn) {
	enumerate(g, 0, rootNode, nil, fn)
}

// AllStrings returns every stored word in increasing order. The sequence can
// be iterated more than once, but not while the graph is being changed.
func (g *Graph) AllStrings() iter.Seq[string] {
	return wordsBelow(g, rootNode, "")
}

// StringsWithPrefix returns the stored words starting with prefix, in
// increasing order.
func (g *Graph) StringsWithPrefix(prefix string) []string {
	return stringsWithPrefix(g, prefix)
}

// StringsWithSuffix returns the stored words ending with suffix. It walks
// every stored word.
func (g *Graph) StringsWithSuffix(suffix string) []string {
	return stringsWithSuffix(g, suffix)
}

// StringsContaining returns the stored words containing substr. It walks
// every stored word.
func (g *Graph) StringsContaining(substr string) []string {
	return stringsContaining(g, substr)
}
