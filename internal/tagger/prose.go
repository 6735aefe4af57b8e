// Package tagger provides the production part-of-speech tagger.
package tagger

import (
	"github.com/jdkato/prose/v2"

	"arxivbot/internal/hashtag"
)

// Prose tags text with prose's averaged perceptron model (Penn Treebank tags).
type Prose struct{}

// NewProse returns a prose-backed tagger.
func NewProse() *Prose {
	return &Prose{}
}

// Tag tokenizes text and tags every token. It returns nil if prose rejects
// the input, which leaves the text without hashtags.
func (p *Prose) Tag(text string) []hashtag.Token {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}

	toks := doc.Tokens()
	out := make([]hashtag.Token, 0, len(toks))
	for _, t := range toks {
		out = append(out, hashtag.Token{Text: t.Text, Tag: t.Tag})
	}
	return out
}
