package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "lowercases", input: "Hello", expect: "hello"},
		{name: "trailing punctuation", input: "World!", expect: "world"},
		{name: "leading punctuation", input: "\"quoted", expect: "quoted"},
		{name: "both edges", input: "(Hello),", expect: "hello"},
		{name: "repeated punctuation", input: "Hello!!!", expect: "hello"},
		{name: "interior apostrophe kept", input: "Don't", expect: "don't"},
		{name: "interior hyphen kept", input: "--well-known--", expect: "well-known"},
		{name: "only punctuation", input: "?!.", expect: ""},
		{name: "empty", input: "", expect: ""},
		{name: "unicode punctuation", input: "«Bonjour»", expect: "bonjour"},
		{name: "symbols are not punctuation", input: "$5", expect: "$5"},
		{name: "punctuation then whitespace", input: "!! word", expect: "word"},
		{name: "whitespace then punctuation", input: "word ..", expect: "word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "a", "Hello, World!", "! ! a", "a ! !", "...", "«x»", "  ,b,  ",
		"(Hello),", "- - -", "Ünïcödé!", "don't", "x.y.z.", "!a!b!",
	}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "simple", input: "a b c d", expect: []string{"a", "b", "c", "d"}},
		{name: "collapses duplicates", input: "Go go GO!", expect: []string{"go"}},
		{name: "mixed whitespace", input: "\tone\n\ntwo   three ", expect: []string{"one", "three", "two"}},
		{name: "drops punctuation-only tokens", input: "hello -- world !!!", expect: []string{"hello", "world"}},
		{name: "empty", input: "", expect: []string{}},
		{name: "whitespace only", input: " \n\t ", expect: []string{}},
		{name: "no-break space separates", input: "alpha\u00A0beta", expect: []string{"alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Split(tt.input).Sorted())
		})
	}
}

func TestTermSet_Contains(t *testing.T) {
	terms := Split("Hello, World!")
	assert.True(t, terms.Contains("hello"))
	assert.True(t, terms.Contains("world"))
	assert.False(t, terms.Contains("Hello,"))
}
