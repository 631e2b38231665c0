package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/pkg"
)

// editDoneMsg is sent when the editor produced an expression that parses.
type editDoneMsg struct{ text string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "> "
	ctrlPrompt = ": "
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help            Print this help
  tree [expr]     Show the expression tree of expr or the last expression
  tokens [expr]   Show the tokens of expr or the last expression
  verify [expr]   Evaluate with an independent cross-check
  history         List previous input
  edit            Compose an expression in external $EDITOR
  clear           Clear screen
  quit            Exit REPL

Usage:
  Type an expression and press Enter to evaluate it
  Operators: + - * x / ^ and parentheses
  The line below the input previews the result as you type
  Press Tab / Shift-Tab to cycle through command candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// modeAny matches entries of every mode in history searches.
const modeAny inputMode = -1

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	bannerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = suggestionStyle.Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the echo line of a submitted input.
func formatCommand(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatError renders err followed by a caret snippet of source.
func formatError(source string, err error) string {
	text := errorStyle.Render("error: " + err.Error())

	if snippet := lang.Snippet(source, err); snippet != "" {
		text += "\n" + errorStyle.Render(snippet)
	}

	return text
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	cfg          Config
	input        textinput.Model
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	last         string        // last evaluated expression
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the interactive REPL on the terminal.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.String("notation", cfg.Notation.String()),
		slog.Bool("verify", cfg.Verify),
	)

	history := NewHistory(cfg.historyPath())
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, cfg, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		cfg:        cfg,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.Println(bannerStyle.Render(pkg.Banner())),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		m, _ = m.switchToMode(modeEval)
		m.input.SetValue(msg.text)
		m.input.SetCursor(len(msg.text))

		return m, nil

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit failed: " + msg.err.Error()))
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
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine returns the line shown under the input: the history position,
// a usage hint, command candidates, or a preview of the result.
func (m model) hintLine() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))

	case isBlank(input) && m.mode == modeEval:
		return hintStyle.Render("Type an expression or press Esc for commands")

	case isBlank(input):
		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")

	case len(m.matches) > 0:
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)

	case m.mode == modeEval:
		if result, err := m.cfg.evaluate(m.ctxFunc(), input); err == nil {
			return hintStyle.Render("= " + result)
		}
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(m.historyIdx-1, -1, modeAny), nil

	case tea.KeyDown:
		return m.recall(m.historyIdx+1, 1, modeAny), nil

	case tea.KeyShiftUp:
		return m.recall(m.historyIdx-1, -1, m.mode), nil

	case tea.KeyShiftDown:
		return m.recall(m.historyIdx+1, 1, m.mode), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		// Space ends tab-cycling on the current candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}
	default:
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle moves the candidate selection by step, wrapping around, and writes
// the selected candidate into the input. A single candidate is completed
// immediately.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = -1

		if step < 0 {
			m.suggIdx = 0
		}
	}

	n := len(m.matches)
	m.suggIdx = ((m.suggIdx+step)%n + n) % n

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the candidates for the current input.
func (m *model) refreshMatches() {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if m.mode == modeCtrl {
		m.ctrlText, m.ctrlCursor = "", 0
	} else {
		m.evalText, m.evalCursor = "", 0
	}

	m.input.SetValue("")
	m.matches = nil

	ctx := m.ctxFunc()

	if err := m.history.Add(input, m.mode); err != nil {
		m.cfg.Logger.WarnContext(ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(formatCommand(m.mode, input))

	if m.mode == modeCtrl {
		m.cfg.Logger.TraceContext(ctx, "repl command", slog.String("input", input))

		var cmd tea.Cmd

		m, cmd = m.executeCommand(input)

		return m, tea.Sequence(echo, cmd)
	}

	m.last = input

	result, err := m.cfg.evaluate(ctx, input)

	m.cfg.Logger.TraceContext(ctx, "repl eval",
		slog.String("input", input),
		slog.String("result", result),
		slog.Any("error", err),
	)

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(formatError(input, err)))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(result)))
}

// executeCommand runs a control command. The returned command prints its
// output.
func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "h", "help":
		return m, tea.Println(helpMessage())

	case "tree", "tokens", "verify":
		out, err := m.inspect(name, arg)
		if err != nil {
			return m, tea.Println(formatError(m.subject(arg), err))
		}

		return m, tea.Println(out)

	case "history":
		return m, tea.Println(m.listHistory())

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, m.edit()

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + name + " (try 'help')"),
		)
	}
}

// subject returns the expression a command applies to: its argument, or the
// last evaluated expression.
func (m model) subject(arg string) string {
	if arg != "" {
		return arg
	}

	return m.last
}

// inspect runs one of the tree, tokens, or verify commands.
func (m model) inspect(name, arg string) (string, error) {
	ctx := m.ctxFunc()

	source := m.subject(arg)
	if source == "" {
		return "", ErrNoExpression
	}

	if name == "tokens" {
		return tokenList(source)
	}

	ast, err := m.cfg.parse(ctx, source)
	if err != nil {
		return "", err
	}

	if name == "verify" {
		v, err := ast.Verify(ctx)
		if err != nil {
			return "", err
		}

		return resultStyle.Render(lang.FormatNumber(v, m.cfg.Notation) + " (verified)"), nil
	}

	var b strings.Builder

	if err := ast.Format(ctx, &b, 2); err != nil {
		return "", err
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// tokenList renders the tokens of source, one per line, with positions.
func tokenList(source string) (string, error) {
	var b strings.Builder

	lex := lang.NewLexer(source)

	for tok, err := range lex.All() {
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "%-7s %s\n", lex.Pos(), tok)
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (m model) listHistory() string {
	var b strings.Builder

	for i, entry := range m.history.Entries() {
		prefix := promptStyle.Render(evalPrompt)
		if entry.Mode == modeCtrl {
			prefix = ctrlPromptStyle.Render(ctrlPrompt)
		}

		fmt.Fprintf(&b, "%s %s%s\n", hintStyle.Render(fmt.Sprintf("%4d", i+1)), prefix, entry.Line)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// edit opens the pending eval-mode input in the external editor.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		text:    m.evalText,
		opts:    m.cfg.Options,
		logger:  m.cfg.Logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.edited == "":
			return editCancelledMsg{}
		default:
			return editDoneMsg{text: cmd.edited}
		}
	})
}

// recall moves through history from index from in direction step, loading
// the nearest entry in mode. Moving past the newest entry clears the input.
func (m model) recall(from, step int, mode inputMode) model {
	i := m.history.search(from, step, mode)

	if i < 0 {
		if step > 0 && m.historyIdx < m.history.Len() {
			m.historyIdx = m.history.Len()
			m.input.SetValue("")
			m.refreshMatches()
		}

		return m
	}

	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	if m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	m.refreshMatches()

	return m
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	m.tabActive = false

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m.refreshMatches()

	return m, nil
}
