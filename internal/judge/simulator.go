package judge

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/todmy/hamster-court/internal/dispute"
)

const (
	simulatedOffsetMin = 30
	simulatedOffsetMax = 50
)

// Drawer returns a uniformly distributed integer in [lo, hi]
type Drawer interface {
	Draw(lo, hi int) int
}

// UniformDrawer draws integers from a continuous uniform distribution
// floored onto [lo, hi]
type UniformDrawer struct {
	mu  sync.Mutex
	src rand.Source
}

// NewUniformDrawer creates a drawer over src. A nil src uses the global
// math/rand/v2 source.
func NewUniformDrawer(src rand.Source) *UniformDrawer {
	return &UniformDrawer{src: src}
}

func (d *UniformDrawer) Draw(lo, hi int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := distuv.Uniform{Min: float64(lo), Max: float64(hi + 1), Src: d.src}
	v := int(math.Floor(u.Rand()))
	if v > hi {
		v = hi
	}
	return v
}

// Simulator scores statements by length plus a random offset. No network.
type Simulator struct {
	drawer Drawer
	delay  time.Duration
}

// NewSimulator creates a simulator. delay is a cosmetic pause before the
// score is returned; zero disables it.
func NewSimulator(drawer Drawer, delay time.Duration) *Simulator {
	if drawer == nil {
		drawer = NewUniformDrawer(nil)
	}
	return &Simulator{drawer: drawer, delay: delay}
}

// Score computes len(statement) + U[30,50] for each party, counting
// characters rather than bytes. The delay is cut short when ctx is done.
func (s *Simulator) Score(ctx context.Context, in dispute.Input) Score {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	return Score{
		A:    utf8.RuneCountInString(in.StatementA) + s.drawer.Draw(simulatedOffsetMin, simulatedOffsetMax),
		B:    utf8.RuneCountInString(in.StatementB) + s.drawer.Draw(simulatedOffsetMin, simulatedOffsetMax),
		Mode: ModeSimulated,
	}
}
