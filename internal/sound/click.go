package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// clickStream synthesizes an endless train of key clicks with a slightly
// irregular spacing.
type clickStream struct {
	sr       beep.SampleRate
	pos      int
	next     int
	clickLen int
	seed     int64
}

func newClickStream(sr beep.SampleRate, seed int64) *clickStream {
	return &clickStream{
		sr:       sr,
		clickLen: sr.N(12 * time.Millisecond),
		seed:     seed & 0x7fffffff,
	}
}

func (c *clickStream) rand() float64 {
	c.seed = (c.seed*1103515245 + 12345) & 0x7fffffff
	return float64(c.seed) / float64(0x7fffffff)
}

func (c *clickStream) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.pos >= c.next {
			c.pos = 0
			// 70-130ms between keystrokes.
			c.next = c.sr.N(time.Duration(70+c.rand()*60) * time.Millisecond)
		}
		sample := 0.0
		if c.pos < c.clickLen {
			t := float64(c.pos) / float64(c.sr)
			envelope := math.Exp(-t * 600)
			noise := c.rand()*2 - 1
			thock := math.Sin(2 * math.Pi * 180 * t)
			sample = envelope * (0.6*noise + 0.4*thock)
		}
		samples[i][0] = sample
		samples[i][1] = sample
		c.pos++
	}
	return len(samples), true
}

func (c *clickStream) Err() error {
	return nil
}
