package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"qallm/extract"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// mode selects which surface currently owns the keyboard. The dashboard is
// always the backdrop; pickers and dialogs are transient overlays.
type mode int

const (
	modeMain mode = iota
	modePickInput
	modeEditOutput
	modeDialog
)

// maxLogLines bounds the log pane backlog.
const maxLogLines = 500

// eventMsg wraps a worker/log-bridge event for the Bubble Tea loop.
type eventMsg struct {
	ev extract.Event
}

// dialogState is the modal currently displayed, if any.
type dialogState struct {
	kind    extract.DialogKind
	title   string
	message string
}

// Model is the whole window: file selection, model selection, progress,
// log pane and results table, plus the run state machine. All mutation
// happens on the Bubble Tea loop; the worker goroutine only sends events.
type Model struct {
	runner *extract.Runner
	events chan extract.Event
	log    *zap.SugaredLogger

	// file selection state
	inputPath  string
	outputPath string

	// model selection state
	modelIndex int
	use8Bit    bool

	// run state
	running       bool
	stopRequested bool
	percent       int

	// widgets
	picker     filepicker.Model
	output     textinput.Model
	progress   progress.Model
	spinner    spinner.Model
	logView    viewport.Model
	results    table.Model
	logLines   []string
	mode       mode
	dialog     dialogState
	width      int
	height     int
	quitting   bool
}

// NewModel builds the window in its idle state.
func NewModel(runner *extract.Runner, events chan extract.Event, log *zap.SugaredLogger) Model {
	ti := textinput.New()
	ti.Placeholder = "results.xlsx"
	ti.CharLimit = 256
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
	)

	t := table.New(
		table.WithColumns(resultColumns(76)),
		table.WithHeight(7),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(ColorSecondary).BorderStyle(lipgloss.NormalBorder()).BorderForeground(ColorBorder).BorderBottom(true)
	ts.Selected = lipgloss.NewStyle()
	t.SetStyles(ts)

	vp := viewport.New(76, 6)

	return Model{
		runner:   runner,
		events:   events,
		log:      log,
		use8Bit:  true,
		output:   ti,
		spinner:  s,
		progress: p,
		results:  t,
		logView:  vp,
		width:    80,
		height:   24,
	}
}

func resultColumns(width int) []table.Column {
	// Fixed narrow columns; element/document/value share the rest.
	rest := width - 4 - 10 - 6 // ID, Confidence, padding
	if rest < 30 {
		rest = 30
	}
	return []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Element", Width: rest * 3 / 10},
		{Title: "Document", Width: rest * 4 / 10},
		{Title: "Extracted Value", Width: rest * 3 / 10},
		{Title: "Confidence", Width: 10},
	}
}

// Init arms the spinner and the event listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listenEvents(m.events))
}

// listenEvents pumps the ordered event channel into the update loop, one
// event per command, preserving arrival order.
func listenEvents(ch <-chan extract.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{ev: ev}
	}
}

// startWorker runs the extraction on the command goroutine; that goroutine
// is the worker thread for the duration of the run.
func (m Model) startWorker(req extract.Request) tea.Cmd {
	runner := m.runner
	events := m.events
	return func() tea.Msg {
		runner.Run(context.Background(), req, events)
		return nil
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case eventMsg:
		return m.handleEvent(msg.ev)
	}

	// Remaining messages belong to whichever overlay owns the keyboard.
	switch m.mode {
	case modePickInput:
		return m.updatePicker(msg)
	case modeEditOutput:
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleEvent applies one worker/log event and re-arms the listener.
func (m Model) handleEvent(ev extract.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{listenEvents(m.events)}

	switch ev := ev.(type) {
	case extract.LogEvent:
		m.logLines = append(m.logLines, ev.Line)
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		m.logView.SetContent(strings.Join(m.logLines, "\n"))
		m.logView.GotoBottom()

	case extract.ProgressEvent:
		m.percent = ev.Percent
		cmds = append(cmds, m.progress.SetPercent(float64(ev.Percent)/100))

	case extract.ResultsEvent:
		m.results.SetRows(resultRows(ev.Result))

	case extract.DialogEvent:
		m.mode = modeDialog
		m.dialog = dialogState{kind: ev.Kind, title: ev.Title, message: ev.Message}

	case extract.DoneEvent:
		m.running = false
		m.stopRequested = false
	}

	return m, tea.Batch(cmds...)
}

func resultRows(res *extract.Result) []table.Row {
	flat := extract.FlattenRows(res)
	rows := make([]table.Row, 0, len(flat))
	for _, r := range flat {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Seq), r.Element, r.Document, r.Value, r.Confidence,
		})
	}
	return rows
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeDialog:
		switch msg.String() {
		case "enter", "esc", " ":
			m.mode = modeMain
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case modePickInput:
		switch msg.String() {
		case "esc", "q":
			m.mode = modeMain
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m.updatePicker(msg)

	case modeEditOutput:
		switch msg.String() {
		case "esc":
			m.mode = modeMain
			return m, nil
		case "enter":
			if v := strings.TrimSpace(m.output.Value()); v != "" {
				m.outputPath = extract.EnsureXLSX(v)
			}
			m.mode = modeMain
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	// Main dashboard keys.
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "i":
		if m.running {
			return m, nil
		}
		m.mode = modePickInput
		m.picker = newInputPicker(m.height)
		return m, m.picker.Init()

	case "o":
		if m.running {
			return m, nil
		}
		m.mode = modeEditOutput
		m.output.SetValue(m.outputPath)
		m.output.Focus()
		return m, textinput.Blink

	case "up", "k":
		if !m.running && m.modelIndex > 0 {
			m.modelIndex--
		}

	case "down", "j":
		if !m.running && m.modelIndex < len(extract.Models)-1 {
			m.modelIndex++
		}

	case " ", "8":
		if !m.running {
			m.use8Bit = !m.use8Bit
		}

	case "c":
		if !m.running {
			return m.clearResults()
		}

	case "x":
		return m.stopPressed()

	case "s", "enter":
		return m.startPressed()
	}

	return m, nil
}

func newInputPicker(height int) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx", ".xls"}
	fp.ShowHidden = false
	fp.ShowSize = true
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = height - 12
	if fp.Height < 5 {
		fp.Height = 5
	}
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	return fp
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m = m.withInputSelected(path)
		m.mode = modeMain
		return m, nil
	}
	return m, cmd
}

// withInputSelected stores the picked input path and, if no output path was
// chosen yet, derives <stem>_results.xlsx next to it.
func (m Model) withInputSelected(path string) Model {
	m.inputPath = path
	if m.outputPath == "" {
		m.outputPath = extract.DeriveOutputPath(path)
	}
	return m
}

// startPressed validates the request and spawns the single worker.
func (m Model) startPressed() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}

	req := extract.Request{
		InputPath:  m.inputPath,
		OutputPath: m.outputPath,
		Model:      extract.Models[m.modelIndex],
		Use8Bit:    m.use8Bit,
	}

	if err := extract.Validate(req); err != nil {
		title := "Input Error"
		if verr, ok := err.(*extract.ValidationError); ok {
			title = verr.Title
		}
		m.log.Errorf("%s", err.Error())
		m.mode = modeDialog
		m.dialog = dialogState{kind: extract.DialogError, title: title, message: err.Error()}
		return m, nil
	}

	m.running = true
	m.stopRequested = false
	m.percent = 0
	m.results.SetRows(nil)

	return m, tea.Batch(
		m.progress.SetPercent(0),
		m.startWorker(req),
	)
}

// stopPressed is advisory only: there is no cancellation token, the current
// run finishes on its own. The control is disabled and the user told so.
func (m Model) stopPressed() (tea.Model, tea.Cmd) {
	if !m.running || m.stopRequested {
		return m, nil
	}
	m.stopRequested = true
	m.log.Info("Processing stopped by user")
	m.mode = modeDialog
	m.dialog = dialogState{
		kind:    extract.DialogInfo,
		title:   "Processing Stopped",
		message: "Processing stop requested. The current operation will terminate after the current document completes.",
	}
	return m, nil
}

func (m Model) clearResults() (tea.Model, tea.Cmd) {
	m.results.SetRows(nil)
	m.percent = 0
	return m, m.progress.SetPercent(0)
}

func (m *Model) resize() {
	inner := m.width - 6
	if inner < 60 {
		inner = 60
	}
	m.progress.Width = inner - 10
	m.logView.Width = inner
	m.results.SetColumns(resultColumns(inner))
	m.results.SetWidth(inner)

	// Split leftover vertical space between log pane and table.
	leftover := m.height - 24
	logH := 6 + leftover/2
	if logH < 3 {
		logH = 3
	}
	tableH := 7 + leftover/2
	if tableH < 4 {
		tableH = 4
	}
	m.logView.Height = logH
	m.results.SetHeight(tableH)
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return MutedStyle.Render("Goodbye!\n")
	}

	switch m.mode {
	case modePickInput:
		return m.viewPicker()
	case modeEditOutput:
		return m.viewOutputEditor()
	case modeDialog:
		return m.viewDialog()
	}
	return m.viewDashboard()
}

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(Header())
	b.WriteString(m.renderFiles())
	b.WriteString("\n")
	b.WriteString(m.renderModels())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n")
	b.WriteString(BoxStyle.Render(TitleStyle.Render("Log") + "\n" + m.logView.View()))
	b.WriteString("\n")
	b.WriteString(BoxStyle.Render(TitleStyle.Render("Results") + "\n" + m.results.View()))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderFiles() string {
	in := m.inputPath
	if in == "" {
		in = MutedStyle.Render("(none)")
	}
	out := m.outputPath
	if out == "" {
		out = MutedStyle.Render("(none)")
	}
	content := TitleStyle.Render("File Selection") + "\n" +
		BodyStyle.Render("Input Excel File:  ") + in + "\n" +
		BodyStyle.Render("Output Excel File: ") + out
	return BoxStyle.Render(content)
}

func (m Model) renderModels() string {
	var items strings.Builder
	for i, name := range extract.Models {
		cursor := "  "
		style := BodyStyle
		if i == m.modelIndex {
			cursor = "> "
			style = SelectedStyle
		}
		items.WriteString(style.Render(cursor+name) + "\n")
	}

	checkbox := "[ ]"
	if m.use8Bit {
		checkbox = "[x]"
	}
	items.WriteString(BodyStyle.Render(checkbox+" Use 8-bit quantization") +
		MutedStyle.Render(" (reduces memory usage)"))

	return BoxStyle.Render(TitleStyle.Render("Model Selection") + "\n" + items.String())
}

func (m Model) renderProgress() string {
	status := MutedStyle.Render("Idle")
	if m.running {
		status = m.spinner.View() + InfoStyle.Render(" Processing...")
		if m.stopRequested {
			status = m.spinner.View() + InfoStyle.Render(" Finishing current document...")
		}
	}
	pct := fmt.Sprintf("%3d%%", m.percent)
	return m.progress.View() + " " + BodyStyle.Render(pct) + "  " + status
}

func (m Model) viewPicker() string {
	title := TitleStyle.Render("Select Input Excel File")
	desc := MutedStyle.Render("Navigate and pick a spreadsheet (.xlsx, .xls)")
	help := MutedStyle.Render("enter select  |  esc cancel")
	return Header() + "\n" + BoxStyle.Render(title+"\n"+desc+"\n\n"+m.picker.View()) + "\n" + help
}

func (m Model) viewOutputEditor() string {
	title := TitleStyle.Render("Output Excel File")
	desc := MutedStyle.Render("The .xlsx extension is added if missing")
	help := MutedStyle.Render("enter save  |  esc cancel")
	return Header() + "\n" + BoxStyle.Render(title+"\n"+desc+"\n\n"+m.output.View()) + "\n" + help
}

func (m Model) viewDialog() string {
	titleStyle := ErrorStyle
	border := ColorError
	if m.dialog.kind == extract.DialogInfo {
		titleStyle = SuccessStyle
		border = ColorSuccess
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(60).
		Render(titleStyle.Render(m.dialog.title) + "\n\n" + BodyStyle.Render(m.dialog.message))

	hint := MutedStyle.Render("\npress enter to continue")
	return Header() + "\n" + box + hint
}

func (m Model) renderHelp() string {
	keys := [][2]string{}
	if m.running {
		keys = append(keys, [2]string{"x", "Stop"})
	} else {
		keys = append(keys,
			[2]string{"i", "Input file"},
			[2]string{"o", "Output file"},
			[2]string{"j/k", "Model"},
			[2]string{"space", "8-bit"},
			[2]string{"s", "Start"},
			[2]string{"c", "Clear"},
		)
	}
	keys = append(keys, [2]string{"q", "Exit"})

	helpStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorSubtle).Bold(true)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, keyStyle.Render(k[0])+" "+helpStyle.Render(k[1]))
	}
	return helpStyle.Render(strings.Join(parts, "  |  "))
}

// Getters used by main and tests.
func (m Model) IsRunning() bool      { return m.running }
func (m Model) IsQuitting() bool     { return m.quitting }
func (m Model) InputPath() string    { return m.inputPath }
func (m Model) OutputPath() string   { return m.outputPath }
func (m Model) SelectedModel() string { return extract.Models[m.modelIndex] }
