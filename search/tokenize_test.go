package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIntoWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple words",
			input:    "cat in the city",
			expected: []string{"cat", "in", "the", "city"},
		},
		{
			name:     "Repeated spaces yield no empty words",
			input:    "  one   two  ",
			expected: []string{"one", "two"},
		},
		{
			name:     "Empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "Only spaces",
			input:    "    ",
			expected: []string{},
		},
		{
			name:     "Single word",
			input:    "cat",
			expected: []string{"cat"},
		},
		{
			name:     "Tabs and newlines are not separators",
			input:    "one\ttwo three",
			expected: []string{"one\ttwo", "three"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitIntoWords(tt.input))
		})
	}
}

func TestSplitIntoWordsSharesBacking(t *testing.T) {
	text := "one two three"
	words := splitIntoWords(text)
	assert.Equal(t, []string{"one", "two", "three"}, words)
	// Each word is a substring of the input, not a copy.
	assert.Equal(t, text[:3], words[0])
	assert.Equal(t, text[4:7], words[1])
}

func TestIsValidWord(t *testing.T) {
	assert.True(t, isValidWord("cat"))
	assert.True(t, isValidWord("кошка"))
	assert.True(t, isValidWord("-cat"))
	assert.True(t, isValidWord(""))
	assert.False(t, isValidWord("ca\x01t"))
	assert.False(t, isValidWord("\x1fcat"))
	assert.False(t, isValidWord("cat\n"))
}
