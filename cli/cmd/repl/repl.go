package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/streamscore/lang"
	"github.com/ardnew/streamscore/log"
)

// editDoneMsg is sent when an edit produced a stream that parses.
type editDoneMsg struct {
	source string
	node   lang.Node
}

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const prompt = "➜ "

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\nType a stream to score it, for example {{<ab>},{}}.\n\n")
	b.WriteString("Commands (prefix with " + commandPrefix + "):\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-8s %s\n", c.name, c.summary)
	}

	b.WriteString(`
Usage:
  Completions appear as you type a command
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to cancel a completion or clear the line
  Use Up/Down arrows for history navigation
  Use Shift+Up/Shift+Down to navigate streams or commands only
  Press Ctrl+C on empty line or Ctrl+D to exit
`)

	return b.String()
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatInput formats the echo line with prompt and input styled.
func formatInput(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// formatStats formats the metrics of a scored stream.
func formatStats(stats lang.Stats) string {
	return resultStyle.Render(fmt.Sprintf("score %d  garbage %d",
		stats.Score, stats.GarbageLength)) +
		hintStyle.Render(fmt.Sprintf("  (groups %d, spans %d, depth %d)",
			stats.Groups, stats.GarbageSpans, stats.MaxDepth))
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool

	source string      // last stream that parsed
	stats  *lang.Stats // metrics of source
	err    error       // most recent parse error
}

// Run starts an interactive session that parses and scores each entered
// stream. History is kept in cacheDir.
func Run(
	ctx context.Context,
	cacheDir string,
	logger log.Logger,
	opts ...tea.ProgramOption,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start", slog.String("cache_dir", cacheDir))

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("error", err.Error()))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()))

	p := tea.NewProgram(
		newModel(ctx, history, logger),
		append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...,
	)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil

	case editDoneMsg:
		return m.scored(msg.source, msg.node)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(
			"Type a stream to score it, or " + commandPrefix + "help"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(nil), nil

	case tea.KeyDown:
		return m.historyNext(nil), nil

	case tea.KeyShiftUp:
		return m.historyPrev(m.sameKind()), nil

	case tea.KeyShiftDown:
		return m.historyNext(m.sameKind()), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
		} else {
			m.input.SetValue("")
			m.historyIdx = m.history.Len()
		}

		refreshMatches(&m, false)

		return m, nil

	case tea.KeyRunes:
		// Space ends tab-cycling and keeps the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.), update input and
	// recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step candidates, wrapping around.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)

	case step < 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = len(m.matches) - 1

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also drops the completion bar once the typed
// word already equals the sole remaining candidate. autoConfirm should be
// false for deletions and cursor navigation.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.Len()

	if isCommand(input) {
		m.logger.TraceContext(m.ctxFunc(), "repl command",
			slog.String("input", input))

		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl stream",
		slog.Int("length", len(input)))

	node, err := lang.Parse(m.ctxFunc(), input,
		lang.WithLogger(m.logger),
		lang.WithSnippet(true),
	)
	if err != nil {
		m.err = err

		return m, tea.Sequence(
			tea.Println(formatInput(input)),
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	m, cmd := m.scored(input, node)

	return m, tea.Sequence(tea.Println(formatInput(input)), cmd)
}

// scored records node as the current stream and prints its metrics.
func (m model) scored(source string, node lang.Node) (model, tea.Cmd) {
	stats := lang.Measure(node)

	m.source, m.stats, m.err = source, &stats, nil

	m.logger.TraceContext(m.ctxFunc(), "repl scored",
		slog.Int("score", stats.Score),
		slog.Int("garbage", stats.GarbageLength),
	)

	return m, tea.Println(formatStats(stats))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(input), commandPrefix))
	if len(fields) == 0 {
		return m, nil
	}

	echo := tea.Println(formatInput(input))

	name, ok := resolveCommand(fields[0])
	if !ok {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(
			"Unknown command: "+fields[0]+" (try "+commandPrefix+"help)")))
	}

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", name),
		slog.Any("args", fields[1:]),
	)

	switch name {
	case "quit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "history":
		return m, tea.Sequence(echo, tea.Println(m.historyView()))

	case "clear":
		return m, tea.ClearScreen

	default: // edit
		return m, tea.Sequence(echo, m.edit())
	}
}

func (m model) edit() tea.Cmd {
	source := m.source
	if source == "" {
		source = "{}"
	}

	cmd := &editCommand{
		ctx:    m.ctxFunc(),
		source: source,
		logger: m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.node == nil:
			return editCancelledMsg{}

		default:
			return editDoneMsg{source: cmd.source, node: cmd.node}
		}
	})
}

func (m model) historyView() string {
	lines := m.history.Lines()
	if len(lines) == 0 {
		return hintStyle.Render("  (empty)")
	}

	var b strings.Builder

	width := len(strconv.Itoa(len(lines)))

	for i, line := range lines {
		fmt.Fprintf(&b, "  %s %s\n",
			hintStyle.Render(fmt.Sprintf("%*d", width, i+1)), line)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// sameKind returns a history filter matching the kind of the current input:
// commands when it starts with the command prefix, streams otherwise.
func (m model) sameKind() func(string) bool {
	if isCommand(m.input.Value()) {
		return isCommand
	}

	return isStream
}

func (m model) historyPrev(keep func(string) bool) model {
	if i := m.history.Prev(m.historyIdx, keep); i >= 0 {
		m = m.showHistory(i)
	}

	return m
}

func (m model) historyNext(keep func(string) bool) model {
	if i := m.history.Next(m.historyIdx, keep); i >= 0 {
		return m.showHistory(i)
	}

	// Past the newest entry: back to an empty line.
	if m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

func (m model) showHistory(i int) model {
	line, err := m.history.Line(i)
	if err != nil {
		return m
	}

	m.historyIdx = i
	m.tabActive = false
	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	refreshMatches(&m, false)

	return m
}
