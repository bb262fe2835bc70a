package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWordsStripsMarkup(t *testing.T) {
	assert.Equal(t, 2, CountWords("<b>hello world</b>"))
}

func TestCountWords(t *testing.T) {
	cases := map[string]int{
		"":                          0,
		"   ":                       0,
		"Hello, world!":             2,
		"one<br>two<br/>three":      3,
		"Don't stop":                2,
		"<a href='x'>Click</a> me.": 2,
		"Tom &amp; Jerry":           2,
		"version 2 released":        3,
		"... -- !!":                 0,
	}
	for in, want := range cases {
		assert.Equal(t, want, CountWords(in), "input %q", in)
	}
}

func TestSumWordsIsPerStringSum(t *testing.T) {
	values := map[string]string{
		"a": "hello",
		"b": "<i>big</i>world",
		"c": "one two three",
	}
	want := CountWords("hello") + CountWords("<i>big</i>world") + CountWords("one two three")
	assert.Equal(t, want, SumWords(values))
}

func TestEscapeQuotes(t *testing.T) {
	assert.Equal(t, `It\'s`, EscapeQuotes("It's"))
	assert.Equal(t, "plain", EscapeQuotes("plain"))
}

func TestLeftStrip(t *testing.T) {
	assert.Equal(t, "Reference string", LeftStrip(";  Reference string ", ";"))
	assert.Equal(t, "comment", LeftStrip("# comment", "#"))
	assert.Equal(t, "note", LeftStrip("## NOTE: note", "## NOTE:"))
	assert.Equal(t, "", LeftStrip(";", ";"))
}

func TestStartsWith(t *testing.T) {
	assert.True(t, StartsWith(";ref", ";"))
	assert.True(t, StartsWith("## TAG: x", "## NOTE:", "## TAG:"))
	assert.False(t, StartsWith("text", ";", "#"))
	assert.False(t, StartsWith("", ";"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "日本...", Truncate("日本語", 2))
}
