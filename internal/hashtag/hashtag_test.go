package hashtag

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeTagger splits on whitespace, trims surrounding punctuation and tags
// every word with tags[word], defaulting to "NN".
type fakeTagger struct {
	tags map[string]string
}

func (f fakeTagger) Tag(text string) []Token {
	var out []Token
	for _, field := range strings.Fields(text) {
		word := strings.Trim(field, ".,;:()?!\"'")
		if word == "" {
			continue
		}
		tag, ok := f.tags[word]
		if !ok {
			tag = "NN"
		}
		out = append(out, Token{Text: word, Tag: tag})
	}
	return out
}

const placeholder = "~~~~~~~~~~~~~~~~~~~~~~~"

func TestViable(t *testing.T) {
	tests := []struct {
		name string
		text string
		tags map[string]string
		want []string
	}{
		{
			name: "all caps words",
			text: "This is about MACHINE LEARNING and stuff.",
			want: []string{"LEARNING", "MACHINE"},
		},
		{
			name: "short all caps is skipped",
			text: "We use ML and NLP",
			want: []string{"NLP"},
		},
		{
			name: "three uppercase runes in mixed case",
			text: "trained on ImageNetXL and LaTeX sources with GPT4",
			want: []string{"ImageNetXL", "LaTeX", "GPT4"},
		},
		{
			name: "two uppercase runes are not enough",
			text: "ImageNet is big",
			want: []string{},
		},
		{
			name: "hyphenated words are skipped",
			text: "SELF-SUPERVISED pre-training of BERT-LARGE",
			want: []string{},
		},
		{
			name: "long noun tagged NN qualifies",
			text: "a multilingual benchmark for tokenization",
			tags: map[string]string{"multilingual": "JJ", "tokenization": "NN", "benchmark": "NN"},
			want: []string{"multilingual", "tokenization"},
		},
		{
			name: "long word with verb tag does not qualify",
			text: "we investigated models",
			tags: map[string]string{"investigated": "VBD"},
			want: []string{},
		},
		{
			name: "NNPS is not in the noun set",
			text: "Transformers everywhere",
			tags: map[string]string{"Transformers": "NNPS", "everywhere": "RB"},
			want: []string{},
		},
		{
			name: "placeholder and its fragments are reserved",
			text: "TITLE " + placeholder + " ~~~~~~~~~~~~",
			want: []string{"TITLE"},
		},
		{
			name: "duplicates collapse",
			text: "BERT and BERT again, BERT.",
			want: []string{"BERT"},
		},
		{
			name: "order is length then lexical",
			text: "ABC XYZ ABCD",
			want: []string{"ABCD", "ABC", "XYZ"},
		},
		{
			name: "no uppercase no long nouns",
			text: "a small note on cats",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(fakeTagger{tags: tt.tags}, placeholder)
			got := a.Viable(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Viable() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name string
		text string
		tags map[string]string
		want string
	}{
		{
			name: "first occurrence only",
			text: "BERT beats BERT on GLUE",
			want: "#BERT beats BERT on #GLUE",
		},
		{
			name: "worked example",
			text: "A Great Paper\n" + placeholder + "\nThis is about MACHINE LEARNING and stuff.",
			want: "A Great Paper\n" + placeholder + "\nThis is about #MACHINE #LEARNING and stuff.",
		},
		{
			name: "substring word is marked inside the longer word",
			text: "LEARNING is hard, LEARN it",
			want: "##LEARNING is hard, LEARN it",
		},
		{
			name: "nothing viable",
			text: "an all lowercase short abstract",
			tags: map[string]string{"lowercase": "JJ"},
			want: "an all lowercase short abstract",
		},
		{
			name: "long nouns",
			text: "Cross lingual summarization with summarization models",
			want: "Cross lingual #summarization with summarization models",
		},
		{
			name: "shorter word lands inside the longer one",
			text: "DEEPNET and NET",
			want: "#DEEP#NET and NET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(fakeTagger{tags: tt.tags}, placeholder)
			got := a.Annotate(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Annotate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnnotateIsDeterministic(t *testing.T) {
	text := "NLP LLM LLMS TRANSFORMER TRANS FORMER NLPX"
	a := New(fakeTagger{}, placeholder)
	first := a.Annotate(text)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, a.Annotate(text)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}
