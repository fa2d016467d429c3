// Package main provides the CLI entrypoint for typeout.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typeout/internal/config"
	"github.com/verte-zerg/typeout/internal/engine"
	"github.com/verte-zerg/typeout/internal/logging"
	"github.com/verte-zerg/typeout/internal/model"
	"github.com/verte-zerg/typeout/internal/sound"
	"github.com/verte-zerg/typeout/internal/state"
	"github.com/verte-zerg/typeout/internal/stats"
	"github.com/verte-zerg/typeout/internal/store"
	"github.com/verte-zerg/typeout/internal/theme"
	"github.com/verte-zerg/typeout/internal/tui"
)

var (
	playSpeed     int
	playPause     int
	playSound     bool
	playTheme     string
	playCursor    bool
	playPlain     bool
	playAutostart bool
	playDebug     bool

	historySince string
	historyLast  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeout [file]",
		Short:         "Animate text as if it were typed live",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playSpeed, "speed", model.DefaultTypingSpeed, "base delay per character in ms")
	rootCmd.Flags().IntVar(&playPause, "pause", model.DefaultPauseBetweenLines, "pause after each line in ms (doubled after blank lines)")
	rootCmd.Flags().BoolVar(&playSound, "sound", true, "play the typing sound")
	rootCmd.Flags().StringVar(&playTheme, "theme", model.DefaultTheme, "preview window theme")
	rootCmd.Flags().BoolVar(&playCursor, "cursor", true, "show the blinking cursor")
	rootCmd.Flags().BoolVar(&playPlain, "plain", false, "stream to stdout instead of opening the preview")
	rootCmd.Flags().BoolVar(&playAutostart, "autostart", true, "start typing as soon as the preview opens")
	rootCmd.Flags().BoolVar(&playDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newThemesCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings := fileCfg.Typing.Apply(model.DefaultSettings())
	applyIntFlag(cmd, "speed", &settings.TypingSpeed, playSpeed)
	applyIntFlag(cmd, "pause", &settings.PauseBetweenLines, playPause)
	applyBoolFlag(cmd, "sound", &settings.SoundEnabled, playSound)
	applyStringFlag(cmd, "theme", &settings.Theme, playTheme)
	applyBoolFlag(cmd, "cursor", &settings.CursorVisible, playCursor)
	if err := settings.Validate(); err != nil {
		return err
	}
	th, ok := theme.Lookup(settings.Theme)
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", settings.Theme, strings.Join(theme.IDs(), ", "))
	}

	source, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	plain := playPlain || !term.IsTerminal(int(os.Stdout.Fd()))
	debug := playDebug || logging.DebugFromEnv()
	logger, closeLog, err := newLogger(plain, debug)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	player := newPlayer(settings, logger)
	var hooks sound.Hooks = sound.Nop{}
	var soundSwitch tui.SoundSwitch
	if player != nil {
		defer player.Close()
		hooks = player
		soundSwitch = player
	}

	typing := state.New(model.TypingState{})
	eng := engine.New(typing, sound.Guard(hooks, logger), engine.WithLogger(logger))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if plain {
		return runPlain(ctx, cmd.OutOrStdout(), typing, eng, st, source, settings)
	}

	m := tui.NewModel(ctx, typing, eng, tui.Options{
		Source:    source,
		Settings:  settings,
		Theme:     th,
		Sound:     soundSwitch,
		History:   st,
		Logger:    logger,
		Autostart: playAutostart,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// runPlain types source to w and records the run. Interrupting stops it.
func runPlain(ctx context.Context, w io.Writer, typing *state.Store, eng *engine.Engine, st *store.Store, source string, settings model.TypingSettings) error {
	states, unsubscribe := typing.Subscribe()
	printer := &deltaPrinter{w: w}
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for s := range states {
			printer.print(s.PreviewText)
		}
	}()

	started := time.Now()
	eng.Toggle(ctx, source, settings)
	unsubscribe()
	<-printed

	final := typing.Snapshot()
	printer.print(final.PreviewText)
	if printer.err != nil {
		return fmt.Errorf("failed to write output: %w", printer.err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	run := newRunRecord(started, time.Now(), source, final.PreviewText, settings)
	if err := st.InsertRun(context.Background(), run); err != nil {
		logErrf("failed to save run: %v\n", err)
	}
	return nil
}

// deltaPrinter writes only the part of a growing preview not yet written.
type deltaPrinter struct {
	w       io.Writer
	printed string
	err     error
}

func (p *deltaPrinter) print(preview string) {
	if p.err != nil || !strings.HasPrefix(preview, p.printed) {
		return
	}
	delta := preview[len(p.printed):]
	if delta == "" {
		return
	}
	if _, err := io.WriteString(p.w, delta); err != nil {
		p.err = err
		return
	}
	p.printed = preview
}

func newRunRecord(started, ended time.Time, source, preview string, settings model.TypingSettings) model.RunRecord {
	outcome := model.OutcomeStopped
	if preview == source {
		outcome = model.OutcomeCompleted
	}
	return model.RunRecord{
		ID:                newRunID(),
		StartedAt:         started,
		EndedAt:           ended,
		Outcome:           outcome,
		TypingSpeed:       settings.TypingSpeed,
		PauseBetweenLines: settings.PauseBetweenLines,
		SourceChars:       countChars(source),
		RevealedChars:     countChars(preview),
		DurationMs:        ended.Sub(started).Milliseconds(),
	}
}

func newRunID() string {
	return uuid.NewString()
}

// countChars counts revealed characters, excluding line breaks.
func countChars(s string) int {
	return len([]rune(strings.ReplaceAll(s, "\n", "")))
}

func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		return model.DefaultSourceText, nil
	}
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return normalizeSource(string(data)), nil
}

// normalizeSource converts line endings to \n and drops one trailing newline.
func normalizeSource(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSuffix(s, "\n")
}

func newLogger(plain, debug bool) (*slog.Logger, func(), error) {
	if plain {
		return logging.New(logging.Config{Output: os.Stderr, Debug: debug}), func() {}, nil
	}
	if !debug {
		return logging.New(logging.Config{}), func() {}, nil
	}
	f, err := logging.OpenFile(config.DefaultLogPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closeLog := func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for the debug log.
			_ = cerr
		}
	}
	return logging.New(logging.Config{Output: f, Debug: true}), closeLog, nil
}

// newPlayer returns nil when no audio device opens. A player built with
// sound disabled stays silent until it is enabled at runtime.
func newPlayer(settings model.TypingSettings, logger *slog.Logger) *sound.Player {
	player := sound.NewPlayer()
	if err := player.Init(); err != nil {
		logger.Warn("audio unavailable, continuing without sound", "err", err)
		return nil
	}
	player.SetEnabled(settings.SoundEnabled)
	return player
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List preview themes",
		Args:  cobra.NoArgs,
		RunE:  runThemesCmd,
	}
}

func runThemesCmd(cmd *cobra.Command, _ []string) error {
	for _, id := range theme.IDs() {
		th, _ := theme.Lookup(id)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s (%s window)\n", id, th.Name, th.Window); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.HistoryConfig{Last: historyLast}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if cfg.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if err := stats.WriteReport(cmd.Context(), cmd.OutOrStdout(), st, cfg); err != nil {
		return fmt.Errorf("failed to render history: %w", err)
	}
	return nil
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typeout configuration
# Uncomment a value to enable it. CLI flags override config values.

[typing]
# speed = %d                 # Base delay per character in ms (jittered by +/-10ms)
# pause-between-lines = %d  # Pause after each line in ms, doubled after blank lines
# sound = true               # Play the typing sound
# theme = %q            # One of: %s
# cursor = true              # Show the cursor
# cursor-blink = %d         # Cursor blink interval in ms (0 = solid)
`,
		model.DefaultTypingSpeed,
		model.DefaultPauseBetweenLines,
		model.DefaultTheme,
		strings.Join(theme.IDs(), ", "),
		model.DefaultCursorBlink,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
