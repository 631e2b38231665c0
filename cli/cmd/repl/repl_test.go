package repl

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/calc/lang"
)

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), Config{Notation: lang.NotationShortest}, NewHistory(""))
}

func typeText(m model, text string) model {
	for _, r := range text {
		m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return m
}

func press(m model, key tea.KeyType) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: key})

	return m
}

func TestModel_EvalPreviewAndSubmit(t *testing.T) {
	t.Parallel()

	m := typeText(testModel(t), "1+2*3")

	if got := m.hintLine(); !strings.Contains(got, "= 7") {
		t.Errorf("hintLine() = %q, want result preview", got)
	}

	m = press(m, tea.KeyEnter)

	if m.input.Value() != "" {
		t.Errorf("input = %q after submit, want empty", m.input.Value())
	}

	if m.last != "1+2*3" {
		t.Errorf("last = %q", m.last)
	}

	entry, err := m.history.Entry(0)
	if err != nil || entry != (HistoryEntry{"1+2*3", modeEval}) {
		t.Errorf("history[0] = %v, %v", entry, err)
	}
}

func TestModel_NoPreviewForInvalidInput(t *testing.T) {
	t.Parallel()

	m := typeText(testModel(t), "1 +")

	if got := m.hintLine(); got != "" {
		t.Errorf("hintLine() = %q, want empty", got)
	}
}

func TestModel_ToggleModePreservesInput(t *testing.T) {
	t.Parallel()

	m := typeText(testModel(t), "2^8")
	m = press(m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode = %d, input = %q", m.mode, m.input.Value())
	}

	m = typeText(m, "he")
	m = press(m, tea.KeyEsc)

	if m.mode != modeEval || m.input.Value() != "2^8" {
		t.Errorf("after second Esc: mode = %d, input = %q", m.mode, m.input.Value())
	}

	m = press(m, tea.KeyEsc)

	if m.input.Value() != "he" {
		t.Errorf("control input = %q, want restored", m.input.Value())
	}
}

func TestModel_CompleteCommand(t *testing.T) {
	t.Parallel()

	m := press(testModel(t), tea.KeyEsc)
	m = typeText(m, "tre")

	if len(m.matches) != 1 || m.matches[0].Str != "tree" {
		t.Fatalf("matches = %v, want [tree]", m.matches)
	}

	m = press(m, tea.KeyTab)

	if m.input.Value() != "tree" || m.matches != nil {
		t.Errorf("after Tab: input = %q, matches = %v", m.input.Value(), m.matches)
	}
}

func TestModel_CycleCandidates(t *testing.T) {
	t.Parallel()

	m := press(testModel(t), tea.KeyEsc)
	m = typeText(m, "e")

	if len(m.matches) < 2 {
		t.Fatalf("matches = %v, want several", m.matches)
	}

	first := m.matches[0].Str
	last := m.matches[len(m.matches)-1].Str

	m = press(m, tea.KeyTab)
	if !m.tabActive || m.input.Value() != first {
		t.Errorf("Tab: input = %q, want %q", m.input.Value(), first)
	}

	m = press(m, tea.KeyShiftTab)
	if m.input.Value() != last {
		t.Errorf("Shift-Tab: input = %q, want %q", m.input.Value(), last)
	}

	m = press(m, tea.KeyEsc)
	if m.tabActive || m.input.Value() != "e" || m.mode != modeCtrl {
		t.Errorf("Esc: input = %q, tabActive = %v, mode = %d",
			m.input.Value(), m.tabActive, m.mode)
	}
}

func TestModel_NoCompletionInEvalMode(t *testing.T) {
	t.Parallel()

	m := typeText(testModel(t), "he")

	if m.matches != nil {
		t.Errorf("matches = %v in eval mode", m.matches)
	}
}

func TestModel_HistoryRecall(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	_ = m.history.Add("1+1", modeEval)
	_ = m.history.Add("tokens", modeCtrl)
	_ = m.history.Add("2*2", modeEval)
	m.historyIdx = m.history.Len()

	m = press(m, tea.KeyUp)
	if m.input.Value() != "2*2" || m.mode != modeEval {
		t.Fatalf("Up: input = %q, mode = %d", m.input.Value(), m.mode)
	}

	m = press(m, tea.KeyUp)
	if m.input.Value() != "tokens" || m.mode != modeCtrl {
		t.Fatalf("Up: input = %q, mode = %d", m.input.Value(), m.mode)
	}

	m = press(m, tea.KeyShiftUp)
	if m.input.Value() != "tokens" || m.historyIdx != 1 {
		t.Errorf("Shift-Up with no older ctrl entry: input = %q, idx = %d",
			m.input.Value(), m.historyIdx)
	}

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("Down past newest: input = %q, idx = %d", m.input.Value(), m.historyIdx)
	}
}

func TestModel_Inspect(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	if _, err := m.inspect("tree", ""); !errors.Is(err, ErrNoExpression) {
		t.Errorf("inspect without expression error = %v", err)
	}

	m.last = "1+2*3"

	tree, err := m.inspect("tree", "")
	if err != nil {
		t.Fatal(err)
	}

	want := "Add\n├── 1\n└── Multiply\n    ├── 2\n    └── 3"
	if tree != want {
		t.Errorf("tree =\n%s\nwant\n%s", tree, want)
	}

	tokens, err := m.inspect("tokens", "1+2")
	if err != nil {
		t.Fatal(err)
	}

	want = "1:1     Number(1)\n1:2     Plus\n1:3     Number(2)\n1:4     End"
	if tokens != want {
		t.Errorf("tokens =\n%s\nwant\n%s", tokens, want)
	}

	verified, err := m.inspect("verify", "2^3^2")
	if err != nil || !strings.Contains(verified, "64 (verified)") {
		t.Errorf("verify = %q, %v", verified, err)
	}

	if _, err := m.inspect("tree", "1 2"); !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("tree of invalid input error = %v, want syntax error", err)
	}
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m := press(testModel(t), tea.KeyCtrlD)
	if !m.quitting || m.View() != "" {
		t.Error("Ctrl+D on empty input did not quit")
	}

	m = typeText(testModel(t), "1")
	m = press(m, tea.KeyCtrlC)

	if m.quitting || m.input.Value() != "" {
		t.Errorf("Ctrl+C with input: quitting = %v, input = %q", m.quitting, m.input.Value())
	}
}

func TestWordBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "tree", 4, "tree", 0, 4},
		{"mid_word", "tokens", 2, "tokens", 0, 6},
		{"second_word", "tree 1+2", 8, "1+2", 5, 8},
		{"after_space", "tree ", 5, "", 5, 5},
		{"at_start", "help", 0, "help", 0, 4},
		{"cursor_past_end", "quit", 10, "quit", 0, 4},
		{"empty", "", 0, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestJoinLines(t *testing.T) {
	t.Parallel()

	got := joinLines("# comment\n1 +\n\n  2 * 3\n")
	if got != "1 + 2 * 3" {
		t.Errorf("joinLines() = %q", got)
	}
}
