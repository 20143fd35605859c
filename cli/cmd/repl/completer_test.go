package repl

import (
	"testing"

	"github.com/sahilm/fuzzy"
	"github.com/stretchr/testify/assert"
)

func TestCommandWord(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{"bare_prefix", ":", 1, "", 1, 1, true},
		{"partial", ":he", 3, "he", 1, 3, true},
		{"mid_word", ":history", 4, "history", 1, 8, true},
		{"leading_space", "  :cl", 5, "cl", 3, 5, true},
		{"past_name", ":edit now", 9, "", 0, 0, false},
		{"before_prefix", ":help", 0, "", 0, 0, false},
		{"stream", "{<a>}", 5, "", 0, 0, false},
		{"empty", "", 0, "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end, ok := commandWord(tt.input, tt.cursor)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantWord, word)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		word   string
		want   string
		wantOK bool
	}{
		{"help", "help", true},
		{"q", "quit", true},
		{"hist", "history", true},
		{"cl", "clear", true},
		{"ed", "edit", true},
		{"h", "", false}, // help and history
		{"xyz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := resolveCommand(tt.word)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsCommand(t *testing.T) {
	assert.True(t, isCommand(":help"))
	assert.True(t, isCommand("  :q"))
	assert.False(t, isCommand("{<:>}"))
	assert.True(t, isStream("<:>"))
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Matches{
		{Str: "help"}, {Str: "history"}, {Str: "edit"}, {Str: "clear"}, {Str: "quit"},
	}

	assert.Empty(t, renderCandidateBar(nil, -1, false, 80))
	assert.Empty(t, renderCandidateBar(matches, -1, false, 0))

	full := renderCandidateBar(matches, -1, false, 80)
	for _, m := range matches {
		assert.Contains(t, full, m.Str)
	}

	narrow := renderCandidateBar(matches, -1, false, 16)
	assert.Contains(t, narrow, "help")
	assert.Contains(t, narrow, "...")
	assert.NotContains(t, narrow, "quit")
}
