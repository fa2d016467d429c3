// Package engine drives the character-by-character typing animation.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/typeout/internal/model"
)

// DefaultPollInterval is how often a paused run re-checks for resume.
const DefaultPollInterval = 100 * time.Millisecond

// StateStore is the narrow read/update interface the engine needs.
type StateStore interface {
	Snapshot() model.TypingState
	Update(muts ...model.Mutation)
	Reset()
}

// Sound is started when a run enters Running and stopped when it leaves.
type Sound interface {
	Start()
	Stop()
}

// SoundFuncs adapts two plain functions to Sound. Nil funcs are no-ops.
type SoundFuncs struct {
	OnStart func()
	OnStop  func()
}

// Start implements Sound.
func (f SoundFuncs) Start() {
	if f.OnStart != nil {
		f.OnStart()
	}
}

// Stop implements Sound.
func (f SoundFuncs) Stop() {
	if f.OnStop != nil {
		f.OnStop()
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSeed seeds the delay jitter.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.jitter = NewJitter(seed) }
}

// WithLogger sets the logger used for run transitions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPollInterval sets how often a paused run checks for resume.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) { e.poll = d }
}

// run is one reveal loop. A run whose gen no longer matches the engine's
// has been superseded and must not publish anything.
type run struct {
	gen  uint64
	done chan struct{}
}

type pendingDelay struct {
	timer Timer
	wake  chan struct{}
}

func (p *pendingDelay) cancel() {
	p.timer.Stop()
	close(p.wake)
}

// Engine owns the reveal loop and the play/pause/resume/stop protocol.
// At most one reveal loop is current per engine.
type Engine struct {
	store  StateStore
	sound  Sound
	clock  Clock
	jitter *Jitter
	logger *slog.Logger
	poll   time.Duration

	mu      sync.Mutex
	gen     uint64
	current *run
	pending *pendingDelay
}

// New returns an engine publishing into store and driving sound.
// Hooks are called inline from the reveal loop; wrap them (sound.Guard)
// if they may panic.
func New(store StateStore, sound Sound, opts ...Option) *Engine {
	if sound == nil {
		sound = SoundFuncs{}
	}
	e := &Engine{
		store:  store,
		sound:  sound,
		clock:  realClock{},
		logger: slog.New(slog.DiscardHandler),
		poll:   DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.jitter == nil {
		e.jitter = NewJitter(newSeed())
	}
	return e
}

// Toggle is the play/pause action. Depending on the current state it
// pauses a running animation, resumes a paused one, or starts a new one.
// Pausing returns immediately; starting and resuming block until the run
// reaches Idle or ctx is done. Cancelling ctx stops the run.
func (e *Engine) Toggle(ctx context.Context, source string, settings model.TypingSettings) {
	st := e.store.Snapshot()
	switch st.Phase() {
	case model.PhaseRunning:
		if !e.pause() {
			return
		}
		e.sound.Stop()
		e.logger.Debug("typing paused", "line", st.CurrentLineIndex, "char", st.CurrentCharIndex)
	case model.PhasePaused:
		e.resume(ctx, source, settings, st)
	default:
		e.start(ctx, source, settings)
	}
}

// pause sets IsPaused only if the run is still typing when the store
// applies it. It reports whether the pause took effect.
func (e *Engine) pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	applied := false
	e.store.Update(func(s *model.TypingState) {
		if s.IsTyping && !s.IsPaused {
			s.IsPaused = true
			applied = true
		}
	})
	return applied
}

func (e *Engine) start(ctx context.Context, source string, settings model.TypingSettings) {
	e.mu.Lock()
	e.gen++
	e.store.Update(model.ResetProgress(), model.SetTyping(true), model.SetPaused(false))
	r := e.beginLocked()
	e.mu.Unlock()

	// Wake a superseded loop so it exits instead of sleeping out its delay.
	e.CancelPendingDelay()
	e.sound.Start()
	e.logger.Debug("typing started", "chars", len([]rune(source)))
	e.reveal(ctx, r, source, settings, 0, 0, "")
}

func (e *Engine) resume(ctx context.Context, source string, settings model.TypingSettings, st model.TypingState) {
	e.store.Update(model.SetPaused(false))
	e.sound.Start()
	e.logger.Debug("typing resumed", "line", st.CurrentLineIndex, "char", st.CurrentCharIndex)

	e.mu.Lock()
	live := e.current
	if live != nil && live.gen != e.gen {
		live = nil
	}
	if live == nil {
		r := e.beginLocked()
		e.mu.Unlock()
		e.reveal(ctx, r, source, settings, st.CurrentLineIndex, st.CurrentCharIndex, st.PreviewText)
		return
	}
	e.mu.Unlock()

	// The live loop is parked in its pause wait; cut the poll short.
	e.CancelPendingDelay()
	select {
	case <-live.done:
	case <-ctx.Done():
	}
}

// beginLocked registers a new current run. e.mu must be held.
func (e *Engine) beginLocked() *run {
	r := &run{gen: e.gen, done: make(chan struct{})}
	e.current = r
	return r
}

// reveal appends source runes to the preview starting at (line, char),
// on top of the already revealed preview text.
func (e *Engine) reveal(ctx context.Context, r *run, source string, settings model.TypingSettings, line, char int, preview string) {
	defer e.finish(r)

	lines := strings.Split(source, "\n")
	var b strings.Builder
	b.WriteString(preview)

reveal:
	for i := line; i < len(lines); i++ {
		runes := []rune(lines[i])
		start := 0
		if i == line {
			start = char
		}
		for j := start; j < len(runes); j++ {
			if e.store.Snapshot().IsPaused {
				if !e.publish(r, model.SetCursor(i, j)) {
					break reveal
				}
				if err := e.waitForResume(ctx, r); err != nil {
					break reveal
				}
			}
			if !e.active(ctx, r) {
				break reveal
			}
			b.WriteRune(runes[j])
			if !e.publish(r, model.SetPreview(b.String()), model.SetCursor(i, j+1)) {
				break reveal
			}
			if err := e.sleep(ctx, r, e.jitter.CharDelay(settings)); err != nil {
				break reveal
			}
		}

		if !e.active(ctx, r) {
			break
		}
		if i < len(lines)-1 {
			b.WriteByte('\n')
			if !e.publish(r, model.SetPreview(b.String()), model.SetCursor(i+1, 0)) {
				break
			}
			if err := e.sleep(ctx, r, LineDelay(lines[i], settings)); err != nil {
				break
			}
		}
	}
}

// finish settles a run. A superseded run leaves state and sound alone.
func (e *Engine) finish(r *run) {
	e.mu.Lock()
	current := r.gen == e.gen
	if current {
		e.store.Update(model.SetTyping(false), model.SetPaused(false))
	}
	if e.current == r {
		e.current = nil
	}
	e.mu.Unlock()
	close(r.done)

	if current {
		e.sound.Stop()
		st := e.store.Snapshot()
		e.logger.Debug("typing finished", "line", st.CurrentLineIndex, "char", st.CurrentCharIndex)
	}
}

// publish applies muts only while r is still the current run.
func (e *Engine) publish(r *run, muts ...model.Mutation) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r.gen != e.gen {
		return false
	}
	e.store.Update(muts...)
	return true
}

func (e *Engine) isCurrent(r *run) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return r.gen == e.gen
}

func (e *Engine) active(ctx context.Context, r *run) bool {
	if ctx.Err() != nil || !e.isCurrent(r) {
		return false
	}
	return e.store.Snapshot().IsTyping
}

// waitForResume parks the loop until the pause is lifted, the run is
// stopped or superseded, or ctx is done.
func (e *Engine) waitForResume(ctx context.Context, r *run) error {
	for {
		st := e.store.Snapshot()
		if !st.IsPaused || !st.IsTyping || !e.isCurrent(r) {
			return nil
		}
		if err := e.sleep(ctx, r, e.poll); err != nil {
			return err
		}
	}
}

// sleep waits for d on the engine's single pending timer. It returns early
// with nil when the delay is cancelled, and with ctx.Err() when ctx is done.
func (e *Engine) sleep(ctx context.Context, r *run, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	e.mu.Lock()
	if r.gen != e.gen {
		e.mu.Unlock()
		return nil
	}
	if e.pending != nil {
		e.pending.cancel()
	}
	p := &pendingDelay{timer: e.clock.NewTimer(d), wake: make(chan struct{})}
	e.pending = p
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		if e.pending == p {
			e.pending = nil
			p.timer.Stop()
		}
		e.mu.Unlock()
	}()

	select {
	case <-p.timer.C():
	case <-p.wake:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// CancelPendingDelay releases the outstanding timer, if any, and wakes the
// loop waiting on it. Flags are left untouched. Safe to call at any time.
func (e *Engine) CancelPendingDelay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return
	}
	e.pending.cancel()
	e.pending = nil
}

// Restart resets all progress to initial values, stops the sound and
// cancels any pending delay. Legal in every state.
func (e *Engine) Restart() {
	e.mu.Lock()
	e.gen++
	e.store.Reset()
	e.mu.Unlock()

	e.sound.Stop()
	e.CancelPendingDelay()
	e.logger.Debug("typing restarted")
}

// ClearPreview discards the preview and the run flags but keeps the cursor.
func (e *Engine) ClearPreview() {
	e.mu.Lock()
	e.gen++
	e.store.Update(model.SetPreview(""), model.SetTyping(false), model.SetPaused(false))
	e.mu.Unlock()

	e.sound.Stop()
	e.CancelPendingDelay()
	e.logger.Debug("preview cleared")
}
