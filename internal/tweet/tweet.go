// Package tweet turns an arXiv article into a single tweet-sized announcement.
//
// The text is built around a fixed-width link placeholder so that every
// length computation sees the width the platform charges for a shortened
// link. The real link is substituted only after the first truncation.
package tweet

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"arxivbot/internal/model"
)

const (
	// MaxChars is the hard budget for a finished tweet, in runes.
	MaxChars = 240
	// LinkWidth is the length every link has once the platform shortens it.
	LinkWidth = 23

	titleSuffix   = ". (arXiv"
	maxTrimPasses = 8
)

// Placeholder stands in for the link until the text has been truncated.
var Placeholder = strings.Repeat("~", LinkWidth)

var (
	newlineRun    = regexp.MustCompile(`[\r\n]+`)
	markupTag     = regexp.MustCompile(`<[^<>\n]*>`)
	danglingOpen  = regexp.MustCompile(`(^|[\s>])<(?:[a-zA-Z][a-zA-Z0-9]*(?:[ \t][^<>\n]*)?)?$`)
	danglingClose = regexp.MustCompile(`</[a-zA-Z0-9]*$`)
	newlines      = regexp.MustCompile(`\n{2,}`)
	spaces        = regexp.MustCompile(` {2,}`)
	hashRun       = regexp.MustCompile(`#{2,}`)
	wordHash      = regexp.MustCompile(`([\p{L}\p{N}_])#`)
	tailWord      = regexp.MustCompile(`([.,?]|\s)[^.,?\s]*$`)
)

// Annotator rewrites hashtag-worthy words of a text.
type Annotator interface {
	Annotate(text string) string
}

// Synthesizer builds tweets from articles.
type Synthesizer struct {
	annotator Annotator
	maxChars  int
}

// New creates a Synthesizer using annotator for hashtags.
func New(annotator Annotator) *Synthesizer {
	return &Synthesizer{annotator: annotator, maxChars: MaxChars}
}

// Synthesize returns the announcement for article. The result is at most
// MaxChars runes, holds the link at most once, and carries no markup tags,
// doubled '#' or '#' glued to a preceding letter or digit. The link itself
// is inserted after cleaning and is never rewritten.
func (s *Synthesizer) Synthesize(article model.Article) string {
	abstract := newlineRun.ReplaceAllString(article.Abstract, " ")
	out := Title(article.Title) + "\n" + Placeholder + "\n" + abstract

	out = s.annotator.Annotate(out)

	out, cut := truncate(out, s.maxChars)
	if cut {
		if !strings.Contains(out, Placeholder) {
			out = dropPartialSuffix(out, Placeholder)
		}
		out = stripDanglingTag(out)
	}

	out = Clean(out)

	linked := false
	if before, after, found := strings.Cut(out, Placeholder); found {
		out = before + article.Link + strings.ReplaceAll(after, Placeholder, "")
		linked = article.Link != ""
	}

	out, recut := truncate(out, s.maxChars)
	if recut && linked && !strings.Contains(out, article.Link) {
		out = dropPartialSuffix(out, article.Link)
		linked = false
	}

	if cut || recut {
		keep := ""
		if linked {
			keep = article.Link
		}
		out = TrimToBoundary(out, keep, s.maxChars)
	}

	return strings.TrimSpace(out)
}

// Title drops the identifier suffix arXiv appends to its feed titles.
func Title(raw string) string {
	title, _, _ := strings.Cut(raw, titleSuffix)
	return title
}

// Clean deletes complete markup tags, collapses newline and space runs,
// collapses '#' runs and deletes any '#' that directly follows a letter or
// digit. A '<' without a closing '>' on its line is plain text (as in
// "k<n") and is kept. Clean is idempotent.
func Clean(s string) string {
	for {
		stripped := markupTag.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = newlines.ReplaceAllString(s, "\n")
	s = spaces.ReplaceAllString(s, " ")
	s = hashRun.ReplaceAllString(s, "#")
	s = wordHash.ReplaceAllString(s, "${1}")
	return s
}

// TrimToBoundary replaces everything after the last '.', ',', '?' or
// whitespace with a single '-', so a cut text does not end mid-word. The
// trim runs once, then again while the text is still over limit, up to a
// fixed number of passes. A text ending with keep, or with no delimiter at
// all, is returned unchanged, and the '-' is never glued onto keep.
//
// Synthesize only trims text it actually truncated. A tweet that fits keeps
// its closing punctuation ("...and stuff.") instead of ending in "stuff-".
func TrimToBoundary(s, keep string, limit int) string {
	if keep != "" && strings.HasSuffix(s, keep) {
		return s
	}
	s = tailWord.ReplaceAllString(s, "-")
	for i := 0; i < maxTrimPasses && utf8.RuneCountInString(s) > limit; i++ {
		s = tailWord.ReplaceAllString(s, "-")
	}
	if keep != "" && strings.HasSuffix(s, keep+"-") {
		s = strings.TrimSuffix(s, "-")
	}
	return s
}

// stripDanglingTag removes a tag that a cut left unterminated at the end of
// s. An opening '<' only counts as a tag when it starts the text or follows
// whitespace or '>', and is followed by a tag name.
func stripDanglingTag(s string) string {
	s = danglingClose.ReplaceAllString(s, "")
	return danglingOpen.ReplaceAllString(s, "${1}")
}

// truncate cuts s to at most n runes and reports whether it cut anything.
func truncate(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}

// dropPartialSuffix removes the longest proper prefix of token that s ends with.
// It is used after a cut landed inside token.
func dropPartialSuffix(s, token string) string {
	for k := len(token) - 1; k > 0; k-- {
		if !utf8.ValidString(token[:k]) {
			continue
		}
		if strings.HasSuffix(s, token[:k]) {
			return s[:len(s)-k]
		}
	}
	return s
}
