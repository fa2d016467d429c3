// Package sound provides the looping typing sound played during a run.
package sound

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	// volume is the linear playback level of the typing loop.
	volume = 0.3
)

// Hooks is the start/stop pair the typing engine drives.
type Hooks interface {
	Start()
	Stop()
}

// Player loops a synthesized keyboard clatter through the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	ctrl        *beep.Ctrl
	enabled     bool
	initialized bool
}

// NewPlayer returns an enabled, uninitialized player.
func NewPlayer() *Player {
	return &Player{
		mixer:   &beep.Mixer{},
		enabled: true,
	}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Start plays the loop from its beginning. No-op while disabled.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || !p.enabled {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	p.dropLocked()
	p.ctrl = &beep.Ctrl{Streamer: &effects.Gain{
		Streamer: newClickStream(sampleRate, time.Now().UnixNano()),
		Gain:     volume - 1,
	}}
	p.mixer.Add(p.ctrl)
}

// Stop silences the loop.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	p.dropLocked()
}

// dropLocked detaches the current loop; a Ctrl with a nil streamer is
// drained and removed by the mixer. Caller holds p.mu and the speaker lock.
func (p *Player) dropLocked() {
	if p.ctrl == nil {
		return
	}
	p.ctrl.Streamer = nil
	p.ctrl = nil
}

// SetEnabled toggles playback. Disabling stops a playing loop.
func (p *Player) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
	if !enabled {
		p.Stop()
	}
}

// Enabled reports whether Start plays anything.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	p.mixer.Clear()
	speaker.Close()
	p.initialized = false
}

// Nop is the silent sound used when audio is disabled or unavailable.
type Nop struct{}

// Start implements Hooks.
func (Nop) Start() {}

// Stop implements Hooks.
func (Nop) Stop() {}

// Guard recovers panics raised by h so they never reach the caller.
func Guard(h Hooks, logger *slog.Logger) Hooks {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return guarded{hooks: h, logger: logger}
}

type guarded struct {
	hooks  Hooks
	logger *slog.Logger
}

func (g guarded) Start() { g.call("start", g.hooks.Start) }

func (g guarded) Stop() { g.call("stop", g.hooks.Stop) }

func (g guarded) call(hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("typing sound hook failed", "hook", hook, "panic", r)
		}
	}()
	fn()
}
