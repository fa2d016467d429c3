package engine

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/typeout/internal/model"
)

// jitterSpanMs bounds the uniform offset added to every character delay.
const jitterSpanMs = 10

// Jitter produces the random per-character delay offset.
type Jitter struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewJitter returns a Jitter seeded with seed.
func NewJitter(seed int64) *Jitter {
	return &Jitter{rnd: rand.New(rand.NewSource(seed))}
}

// Offset returns a value drawn uniformly from [-10, 10) milliseconds.
func (j *Jitter) Offset() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rnd.Float64()*2*jitterSpanMs - jitterSpanMs
}

// CharDelay returns the delay after revealing one character: the base
// typing speed plus uniform jitter, never negative.
func (j *Jitter) CharDelay(settings model.TypingSettings) time.Duration {
	ms := float64(settings.TypingSpeed) + j.Offset()
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// LineDelay returns the pause inserted after line. Blank lines pause twice
// as long.
func LineDelay(line string, settings model.TypingSettings) time.Duration {
	ms := settings.PauseBetweenLines
	if strings.TrimSpace(line) == "" {
		ms *= 2
	}
	return time.Duration(ms) * time.Millisecond
}

func newSeed() int64 {
	return time.Now().UnixNano()
}
