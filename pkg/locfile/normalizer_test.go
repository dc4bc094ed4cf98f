package locfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLine(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "numeric id suffix", input: `title:0 "Hello"`, expected: `title: "Hello"`},
		{name: "unquoted value", input: `title: Hello`, expected: `title: "Hello"`},
		{name: "numeric id with unquoted value", input: `title:12 Hello world`, expected: `title: "Hello world"`},
		{name: "missing closing quote", input: `desc: "Some text`, expected: `desc: "Some text"`},
		{name: "missing opening quote", input: `desc: Some text"`, expected: `desc: "Some text"`},
		{name: "already quoted", input: `desc:   "Some text"`, expected: `desc:   "Some text"`},
		{name: "quoted with trailing comment", input: `desc: "Some text" # note`, expected: `desc: "Some text" # note`},
		{name: "no space before quote", input: `desc:"Some text"`, expected: `desc: "Some text"`},
		{name: "odd indent rounded down", input: `   key: "v"`, expected: `  key: "v"`},
		{name: "even indent kept", input: `    key: "v"`, expected: `    key: "v"`},
		{name: "one space indent removed", input: ` key: v`, expected: `key: "v"`},
		{name: "header untouched", input: `l_english:`, expected: `l_english:`},
		{name: "indented header", input: ` l_english:`, expected: `l_english:`},
		{name: "comment untouched", input: `   # key: value`, expected: `   # key: value`},
		{name: "blank untouched", input: `   `, expected: `   `},
		{name: "no key pattern", input: `   just text`, expected: `  just text`},
		{name: "dotted key", input: `event.1.name: Event`, expected: `event.1.name: "Event"`},
		{name: "interior quotes untouched", input: `desc: say "hi" now`, expected: `desc: say "hi" now`},
		{name: "interior quotes after numeric id", input: `desc:0 say "hi" now`, expected: `desc: say "hi" now`},
		{name: "empty value after numeric id", input: "key:0 ", expected: `key: ""`},
		{name: "empty value", input: "key: ", expected: `key: ""`},
		{name: "empty value no space before quote", input: `key:"`, expected: `key: ""`},
		{name: "header with trailing space", input: "l_english: ", expected: "l_english: "},
		{name: "carriage return stripped", input: "key: \"v\"\r", expected: `key: "v"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeLine(tc.input))
		})
	}
}

func TestNormalizeKeepsLineCount(t *testing.T) {
	input := "l_english:\n # comment\n key:0 \"a\"\n\n  other: b\n"
	output := Normalize(input)

	assert.Equal(t, strings.Count(input, "\n"), strings.Count(output, "\n"))
	assert.Equal(t, "l_english:\n # comment\nkey: \"a\"\n\n  other: \"b\"\n", output)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	input := "l_english:\n key:0 \"a\"\n   other: b\n  third: \"c\n"
	once := Normalize(input)
	assert.Equal(t, once, Normalize(once))
}
