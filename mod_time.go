package cubefield

import (
	"time"
)

// Clock reports the seconds elapsed since its previous call.
type Clock interface {
	Delta() float32
}

// SystemClock is a wall clock. The first call returns 0.
type SystemClock struct {
	last time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Delta() float32 {
	now := time.Now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	dt := now.Sub(c.last)
	c.last = now
	if dt < 0 {
		return 0
	}
	return float32(dt.Seconds())
}

// ManualClock hands out queued deltas, then Step for every further call.
type ManualClock struct {
	Queue []float32
	Step  float32
}

func (c *ManualClock) Delta() float32 {
	if len(c.Queue) > 0 {
		dt := c.Queue[0]
		c.Queue = c.Queue[1:]
		return dt
	}
	return c.Step
}

type Time struct {
	// Dt is the frame delta in seconds.
	Dt      float32
	Elapsed float64
	clock   Clock
}

type TimeModule struct {
	Clock Clock
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	cmd.AddResources(&Time{clock: clock})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(t *Time) {
	dt := t.clock.Delta()
	if dt < 0 {
		dt = 0
	}
	t.Dt = dt
	t.Elapsed += float64(dt)
}
