package cubefield

import "github.com/go-gl/mathgl/mgl32"

const (
	CubeTotalDistance float32 = 1
	CubeWaitTime      float32 = 0.5
	CubeMinSpeed              = 1
	CubeMaxSpeed              = 5
)

// CubeState is the motion state of one cube.
type CubeState struct {
	Axis      int // 0 = X, 1 = Y, 2 = Z
	Direction int // -1 or +1

	RemainingDistance float32
	TotalDistance     float32
	Speed             float32

	Waiting         bool
	CurrentWaitTime float32
	WaitTime        float32

	// Origin is the spawn position. A resize rebuilds the cube there.
	Origin mgl32.Vec3
}

// NewCubeState draws a fresh waiting state. Draw order: axis, direction, speed.
func NewCubeState(rng Random) CubeState {
	axis := rng.UniformInt(0, 2)
	direction := 1
	if rng.UniformBool() {
		direction = -1
	}
	speed := rng.UniformInt(CubeMinSpeed, CubeMaxSpeed)

	return CubeState{
		Axis:              axis,
		Direction:         direction,
		RemainingDistance: CubeTotalDistance,
		TotalDistance:     CubeTotalDistance,
		Speed:             float32(speed),
		Waiting:           true,
		CurrentWaitTime:   0,
		WaitTime:          CubeWaitTime,
	}
}

// CubeStore is the ordered per-cube state collection. Index i belongs to the
// cube occupying vertices [i*V, (i+1)*V) of the merged buffer.
type CubeStore struct {
	states []CubeState
}

func NewCubeStore(capacity int) *CubeStore {
	return &CubeStore{states: make([]CubeState, 0, capacity)}
}

func (s *CubeStore) Len() int {
	return len(s.states)
}

// At returns the state of cube i. It panics when i is out of range.
func (s *CubeStore) At(i int) *CubeState {
	return &s.states[i]
}

func (s *CubeStore) Append(states ...CubeState) {
	s.states = append(s.states, states...)
}

// Truncate drops every cube with index >= n.
func (s *CubeStore) Truncate(n int) {
	if n < len(s.states) {
		clear(s.states[n:])
		s.states = s.states[:n]
	}
}

// slice exposes the backing states for partitioned updates.
func (s *CubeStore) slice(from, to int) []CubeState {
	return s.states[from:to]
}

// Clone returns an independent copy.
func (s *CubeStore) Clone() *CubeStore {
	c := &CubeStore{states: make([]CubeState, len(s.states), cap(s.states))}
	copy(c.states, s.states)
	return c
}
