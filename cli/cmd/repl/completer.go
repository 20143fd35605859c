package repl

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commandPrefix introduces a REPL command. Any other line is a stream.
const commandPrefix = ":"

// command describes a REPL command for completion and help output.
type command struct {
	name    string
	summary string
}

// commands are the available REPL commands in help order.
var commands = []command{
	{"help", "Print this help"},
	{"history", "List previous input"},
	{"edit", "Edit the last stream in $EDITOR"},
	{"clear", "Clear screen"},
	{"quit", "Exit REPL"},
}

// commandNames implements [fuzzy.Source] over [commands].
type commandNames []command

func (c commandNames) String(i int) string { return c[i].name }

func (c commandNames) Len() int { return len(c) }

// isCommand reports whether line is a command rather than a stream.
func isCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commandPrefix)
}

// isStream reports whether line is a stream rather than a command.
func isStream(line string) bool { return !isCommand(line) }

// commandWord returns the command name being typed at the cursor and its
// byte boundaries within input. It reports false when input is not a command
// or the cursor is past the command name.
func commandWord(input string, cursor int) (word string, start, end int, ok bool) {
	cursor = min(cursor, len(input))

	lead := len(input) - len(strings.TrimLeftFunc(input, unicode.IsSpace))
	if !strings.HasPrefix(input[lead:], commandPrefix) {
		return "", 0, 0, false
	}

	start = lead + len(commandPrefix)
	end = start

	for end < len(input) && !unicode.IsSpace(rune(input[end])) {
		end++
	}

	if cursor < start || cursor > end {
		return "", 0, 0, false
	}

	return input[start:end], start, end, true
}

// computeMatches calculates the fuzzy matches for the command name at the
// cursor, ranked best first. A bare prefix matches every command.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, start, end, ok := commandWord(m.input.Value(), m.input.Position())
	if !ok {
		return nil, 0, 0
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(commands))
		for i, c := range commands {
			matches[i] = fuzzy.Match{Str: c.name, Index: i}
		}

		return matches, start, end
	}

	return fuzzy.FindFrom(word, commandNames(commands)), start, end
}

// resolveCommand returns the command named by word, accepting any unique
// fuzzy match so that ":q" and ":hist" work.
func resolveCommand(word string) (string, bool) {
	for _, c := range commands {
		if c.name == word {
			return c.name, true
		}
	}

	matches := fuzzy.FindFrom(word, commandNames(commands))
	if len(matches) == 1 {
		return matches[0].Str, true
	}

	// Prefer a prefix match among several fuzzy matches.
	var found []string

	for _, match := range matches {
		if strings.HasPrefix(match.Str, word) {
			found = append(found, match.Str)
		}
	}

	if len(found) == 1 {
		return found[0], true
	}

	return "", false
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
