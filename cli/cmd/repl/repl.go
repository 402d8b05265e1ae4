package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tmpl/builtin"
	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/render"
)

// editDoneMsg is sent when template editing completes successfully.
type editDoneMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit after a parse error.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	templatePrompt = "➜ "
	ctrlPrompt     = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help        Print this message
  data        List top-level data keys
  transforms  List available transforms
  tree        Toggle printing the parsed tree
  edit        Edit the last template in external $EDITOR
  clear       Clear screen
  quit        Exit REPL

Usage:
  Type a template line to parse and render it with the loaded data
  Completions for data keys and transforms appear as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between template and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeTemplate inputMode = iota
	modeCtrl
)

func (m inputMode) prefix() string {
	if m == modeCtrl {
		return ctrlPrefix
	}

	return templatePrefix
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
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

// formatCommand formats the template echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(templatePrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	data         map[string]any
	transforms   []string
	opts         []lang.Option
	logger       log.Logger
	history      *History
	historyIdx   int
	source       string        // last template evaluated
	showTree     bool          // print the parsed tree with each result
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	tmplText     string
	tmplCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL, rendering each template line with data.
// History is persisted under cacheDir unless it is empty.
func Run(
	ctx context.Context,
	data map[string]any,
	cacheDir string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("data_keys", len(data)),
	)

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.String("error", err.Error()))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, data, history, logger, opts...)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	data map[string]any,
	history *History,
	logger log.Logger,
	opts ...lang.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(templatePrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	if data == nil {
		data = map[string]any{}
	}

	opts = append(slices.Clip(opts), lang.WithLogger(logger))

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		data:       data,
		transforms: builtin.Default().Names(),
		opts:       opts,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeTemplate,
		suggIdx:    -1,
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
		m.input.Width = msg.Width - len(templatePrompt) - 2

		return m, nil

	case editDoneMsg:
		m.source = msg.source

		return m, m.evaluate(msg.source)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled."))

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 error: " + msg.err.Error()),
		)
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

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a template or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") +
				" (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
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
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyStep(-1, false)

	case tea.KeyDown:
		return m.historyStep(1, false)

	case tea.KeyShiftUp:
		return m.historyStep(-1, true)

	case tea.KeyShiftDown:
		return m.historyStep(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeTemplate {
			return m.switchToMode(modeCtrl)
		}

		return m.switchToMode(modeTemplate)

	case tea.KeyRunes, tea.KeySpace:
		// Space confirms the candidate selected while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, starting a tab cycle if needed.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

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

	m.tmplText, m.tmplCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl template",
		slog.String("input", input),
	)

	m.source = input

	return m, tea.Sequence(
		tea.Println(formatCommand(input)),
		m.evaluate(input),
	)
}

// evaluate parses and renders source, returning the command that prints the
// outcome.
func (m model) evaluate(source string) tea.Cmd {
	tree, out, err := m.run(source)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl result",
			slog.String("error", err.Error()),
		)

		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	var cmds []tea.Cmd

	if m.showTree {
		cmds = append(cmds, tea.Println(hintStyle.Render(strings.TrimSuffix(tree, "\n"))))
	}

	cmds = append(cmds, tea.Println(resultStyle.Render(strconv.Quote(out))))

	return tea.Sequence(cmds...)
}

// run parses and renders source with the model's data.
func (m model) run(source string) (tree, out string, err error) {
	ctx := m.ctxFunc()

	root, err := lang.Parse(ctx, source, m.opts...)
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	if err := root.Print(&sb); err != nil {
		return "", "", err
	}

	t, err := render.Compile(root, render.WithLogger(m.logger))
	if err != nil {
		return "", "", err
	}

	out, err = t.Render(ctx, m.data)

	return sb.String(), out, err
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "d", "data":
		return m, tea.Sequence(echoCmd, tea.Println(m.listData()))

	case "t", "transforms":
		return m, tea.Sequence(echoCmd,
			tea.Println(hintStyle.Render(strings.Join(m.transforms, "  "))))

	case "tree":
		m.showTree = !m.showTree

		state := "off"
		if m.showTree {
			state = "on"
		}

		return m, tea.Sequence(echoCmd,
			tea.Println(hintStyle.Render("tree printing "+state)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editTemplateCommand{
		source:  m.source,
		opts:    m.opts,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editCancelledMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.result == "" {
			return editCancelledMsg{}
		}

		return editDoneMsg{source: cmd.result}
	})
}

// historyStep moves through history by step. When sameMode is set, entries
// of the other mode are skipped; otherwise the mode follows the entry.
func (m model) historyStep(step int, sameMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.GetEntry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if m.mode != entry.Mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	// Stepping past the newest entry returns to an empty line.
	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

func (m model) listData() string {
	if len(m.data) == 0 {
		return hintStyle.Render("  (no data)")
	}

	var b strings.Builder

	for _, key := range childCandidates(m.data, "") {
		fmt.Fprintf(&b, "  %s %s\n", key, hintStyle.Render(preview(m.data[key])))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// preview generates a short description of a data value.
func preview(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"

	case map[string]any:
		return fmt.Sprintf("{ %d keys }", len(v))

	case []any:
		return fmt.Sprintf("[ %d items ]", len(v))

	default:
		s := fmt.Sprint(v)
		if len(s) > 40 {
			return s[:37] + "..."
		}

		return s
	}
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeTemplate {
		m.tmplText = m.input.Value()
		m.tmplCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeTemplate {
		m.input.Prompt = promptStyle.Render(templatePrompt)
		m.input.SetValue(m.tmplText)
		m.input.SetCursor(m.tmplCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
