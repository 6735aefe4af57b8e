// Package hashtag marks the words of a text that deserve a hashtag.
//
// A word is hashtag-viable when it has no hyphen, does not overlap the
// reserved link placeholder, and is either an acronym-like token (at least
// three runes, all uppercase, or at least three uppercase runes) or a long
// (ten runes or more) noun or adjective according to the part-of-speech tagger.
package hashtag

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a word and its Penn Treebank part-of-speech tag.
type Token struct {
	Text string
	Tag  string
}

// Tagger splits text into words and tags each one.
type Tagger interface {
	Tag(text string) []Token
}

// Tags that make a long word hashtag-viable: common noun, proper noun,
// plural noun and adjective.
var nounTags = map[string]bool{
	"NN":  true,
	"NNP": true,
	"NNS": true,
	"JJ":  true,
}

const (
	minAcronymLen = 3
	minUpperRunes = 3
	minNounLen    = 10
)

// Annotator rewrites the first occurrence of every viable word as a hashtag.
type Annotator struct {
	tagger  Tagger
	reserve string
}

// New creates an Annotator. Tokens overlapping reserve are never tagged;
// pass the link placeholder so it survives annotation untouched.
func New(tagger Tagger, reserve string) *Annotator {
	return &Annotator{tagger: tagger, reserve: reserve}
}

// Annotate prefixes the first occurrence of each viable word with '#'.
// Words are processed longest first, then lexically, so a word that is a
// substring of another is handled after it and the result does not depend
// on map order.
func (a *Annotator) Annotate(text string) string {
	for _, word := range a.Viable(text) {
		before, after, found := strings.Cut(text, word)
		if !found {
			continue
		}
		text = before + "#" + word + after
	}
	return text
}

// Viable returns the distinct hashtag-viable words of text in processing order.
func (a *Annotator) Viable(text string) []string {
	set := make(map[string]struct{})
	for _, tok := range a.tagger.Tag(text) {
		if a.viable(tok) {
			set[tok.Text] = struct{}{}
		}
	}

	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(words[i]), utf8.RuneCountInString(words[j])
		if li != lj {
			return li > lj
		}
		return words[i] < words[j]
	})
	return words
}

func (a *Annotator) viable(tok Token) bool {
	word := tok.Text
	if word == "" || strings.Contains(word, "-") {
		return false
	}
	if a.reserve != "" && (strings.Contains(word, a.reserve) || strings.Contains(a.reserve, word)) {
		return false
	}

	n := utf8.RuneCountInString(word)
	// An all-uppercase word of minAcronymLen runes already has minUpperRunes
	// uppercase runes, so one check covers both acronym rules.
	if n >= minAcronymLen && countUpper(word) >= minUpperRunes {
		return true
	}
	return n >= minNounLen && nounTags[tok.Tag]
}

func countUpper(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}
