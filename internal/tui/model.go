// Package tui provides the Bubble Tea typing preview.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/typeout/internal/engine"
	"github.com/verte-zerg/typeout/internal/model"
	"github.com/verte-zerg/typeout/internal/state"
	"github.com/verte-zerg/typeout/internal/theme"
)

const footerHeight = 1

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// RunRecorder persists finished runs.
type RunRecorder interface {
	InsertRun(ctx context.Context, run model.RunRecord) error
}

// SoundSwitch turns the typing sound on and off at runtime.
type SoundSwitch interface {
	SetEnabled(enabled bool)
	Enabled() bool
	Start()
}

// Options configures a Model.
type Options struct {
	Source    string
	Settings  model.TypingSettings
	Theme     theme.Theme
	Sound     SoundSwitch
	History   RunRecorder
	Logger    *slog.Logger
	Autostart bool
}

type stateMsg model.TypingState

type runFinishedMsg struct{}

type blinkMsg struct{}

// Model implements the Bubble Tea preview UI.
type Model struct {
	ctx         context.Context
	cancel      context.CancelFunc
	store       *state.Store
	engine      *engine.Engine
	states      <-chan model.TypingState
	unsubscribe func()

	source     string
	totalChars int
	settings   model.TypingSettings
	theme      theme.Theme
	sound      SoundSwitch
	history    RunRecorder
	logger     *slog.Logger
	autostart  bool

	viewport viewport.Model
	state    model.TypingState
	width    int
	height   int
	cursorOn bool

	runID      string
	runStarted time.Time
}

// NewModel constructs the preview model. The engine must publish into st.
func NewModel(ctx context.Context, st *state.Store, eng *engine.Engine, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)
	states, unsubscribe := st.Subscribe()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Model{
		ctx:         ctx,
		cancel:      cancel,
		store:       st,
		engine:      eng,
		states:      states,
		unsubscribe: unsubscribe,
		source:      opts.Source,
		totalChars:  countChars(opts.Source),
		settings:    opts.Settings,
		theme:       opts.Theme,
		sound:       opts.Sound,
		history:     opts.History,
		logger:      logger,
		autostart:   opts.Autostart,
		viewport:    viewport.New(0, 0),
		state:       st.Snapshot(),
		cursorOn:    true,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForState(), m.blink()}
	if m.autostart {
		cmds = append(cmds, m.toggle())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case stateMsg:
		m.state = model.TypingState(msg)
		m.refresh()
		return m, m.waitForState()
	case runFinishedMsg:
		if m.runID != "" && m.store.Snapshot().Phase() == model.PhaseIdle {
			m.finishRun()
		}
		return m, nil
	case blinkMsg:
		m.cursorOn = !m.cursorOn
		m.refresh()
		return m, m.blink()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	frame := m.theme.Frame(m.viewport.View(), m.frameWidth())
	bodyHeight := m.height - footerHeight
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, frame)
	footer := lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return body + "\n" + footer
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, m.quit()
	case tea.KeySpace:
		return m, m.toggle()
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return m, nil
		}
		switch msg.Runes[0] {
		case 'q':
			return m, m.quit()
		case 'p':
			return m, m.toggle()
		case 'r':
			m.endActiveRun()
			m.engine.Restart()
		case 'c':
			m.endActiveRun()
			m.engine.ClearPreview()
		case 's':
			m.toggleSound()
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) quit() tea.Cmd {
	m.endActiveRun()
	m.cancel()
	m.engine.CancelPendingDelay()
	m.unsubscribe()
	return tea.Quit
}

// toggle returns the command driving one engine Toggle call. Start and
// resume block inside the command until the run ends.
func (m *Model) toggle() tea.Cmd {
	if m.store.Snapshot().Phase() == model.PhaseIdle {
		m.runID = uuid.NewString()
		m.runStarted = time.Now()
	}
	ctx, eng, source, settings := m.ctx, m.engine, m.source, m.settings
	return func() tea.Msg {
		eng.Toggle(ctx, source, settings)
		return runFinishedMsg{}
	}
}

func (m *Model) toggleSound() {
	if m.sound == nil {
		return
	}
	enabled := !m.sound.Enabled()
	m.sound.SetEnabled(enabled)
	if enabled && m.store.Snapshot().Phase() == model.PhaseRunning {
		m.sound.Start()
	}
}

func (m *Model) waitForState() tea.Cmd {
	states := m.states
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

func (m *Model) blink() tea.Cmd {
	if !m.settings.CursorVisible || m.settings.CursorBlink <= 0 {
		return nil
	}
	return tea.Tick(time.Duration(m.settings.CursorBlink)*time.Millisecond, func(time.Time) tea.Msg {
		return blinkMsg{}
	})
}

// endActiveRun records an in-flight run as stopped before it is discarded.
func (m *Model) endActiveRun() {
	if m.runID == "" || m.store.Snapshot().Phase() == model.PhaseIdle {
		return
	}
	m.recordRun(model.OutcomeStopped)
}

func (m *Model) finishRun() {
	outcome := model.OutcomeStopped
	if m.store.Snapshot().PreviewText == m.source {
		outcome = model.OutcomeCompleted
	}
	m.recordRun(outcome)
}

func (m *Model) recordRun(outcome model.RunOutcome) {
	id := m.runID
	m.runID = ""
	if m.history == nil {
		return
	}
	ended := time.Now()
	run := model.RunRecord{
		ID:                id,
		StartedAt:         m.runStarted,
		EndedAt:           ended,
		Outcome:           outcome,
		TypingSpeed:       m.settings.TypingSpeed,
		PauseBetweenLines: m.settings.PauseBetweenLines,
		SourceChars:       m.totalChars,
		RevealedChars:     countChars(m.store.Snapshot().PreviewText),
		DurationMs:        ended.Sub(m.runStarted).Milliseconds(),
	}
	if err := m.history.InsertRun(context.Background(), run); err != nil {
		m.logger.Error("failed to save run", "run", id, "err", err)
		return
	}
	m.logger.Debug("run saved", "run", id, "outcome", outcome)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = m.theme.ContentWidth(m.frameWidth())
	h := height - footerHeight - m.theme.ChromeHeight()
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h
	m.refresh()
}

func (m *Model) frameWidth() int {
	w := int(float64(m.width) * 0.80)
	if w < 10 {
		w = m.width
	}
	return w
}

func (m *Model) refresh() {
	text := lipgloss.NewStyle().Foreground(m.theme.Text).Background(m.theme.Background)
	cursor := lipgloss.NewStyle().Background(m.theme.Text)
	showCursor := m.settings.CursorVisible && (m.cursorOn || m.settings.CursorBlink <= 0)
	runes := buildStyledRunes([]rune(m.state.PreviewText), text, cursor, showCursor)
	m.viewport.SetContent(wrapStyledRunes(runes, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m *Model) renderFooter() string {
	revealed := countChars(m.state.PreviewText)
	progress := 100
	if m.totalChars > 0 {
		progress = int(float64(revealed) / float64(m.totalChars) * 100)
	}
	segments := []string{
		phaseStyle.Render(strings.ToUpper(m.state.Phase().String())),
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("Ln %d, Col %d", m.state.CurrentLineIndex+1, m.state.CurrentCharIndex+1),
	}
	if m.sound != nil && m.sound.Enabled() {
		segments = append(segments, "Sound on")
	} else {
		segments = append(segments, "Sound off")
	}
	segments = append(segments, keyHints(m.sound != nil))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func keyHints(canToggleSound bool) string {
	hints := []string{"space play/pause", "r restart", "c clear"}
	if canToggleSound {
		hints = append(hints, "s sound")
	}
	hints = append(hints, "q quit")
	return strings.Join(hints, " · ")
}

// countChars counts revealed characters, excluding line breaks.
func countChars(s string) int {
	return len([]rune(strings.ReplaceAll(s, "\n", "")))
}
