package cubefield

import (
	"math"

	"golang.org/x/sync/errgroup"
)

const defaultMinPartition = 1024

// MotionStats describes the last Advance call.
type MotionStats struct {
	Cubes   int
	Moved   int // cubes translated this tick
	Started int // cubes that left Waiting this tick
	Arrived int // cubes that finished their distance this tick
}

// MotionEngine advances every cube of a CubeField by one time step.
//
// A tick runs in two phases. The first phase advances wait timers and moves
// cubes; it touches only each cube's own state and vertex span, so it can be
// split across contiguous index partitions. The second phase picks axis and
// direction for cubes that finished waiting, in ascending index order, so the
// random draws are the same whatever the partitioning.
type MotionEngine struct {
	Workers      int
	MinPartition int

	stats MotionStats
}

func NewMotionEngine(workers int) *MotionEngine {
	if workers < 1 {
		workers = 1
	}
	return &MotionEngine{Workers: workers, MinPartition: defaultMinPartition}
}

func (e *MotionEngine) Stats() MotionStats {
	return e.stats
}

type partitionResult struct {
	started []int
	moved   int
	arrived int
}

// Advance moves the simulation forward by delta seconds. A delta <= 0 changes nothing.
// Layout mismatches are reported before anything is mutated.
func (e *MotionEngine) Advance(field *CubeField, delta float32) error {
	if err := field.Validate(); err != nil {
		return err
	}
	n := field.Len()
	e.stats = MotionStats{Cubes: n}
	if delta <= 0 || n == 0 {
		return nil
	}

	bounds := e.partitions(n)
	results := make([]partitionResult, len(bounds))

	if len(bounds) == 1 {
		results[0] = advancePartition(field, 0, n, delta)
	} else {
		g := new(errgroup.Group)
		g.SetLimit(e.Workers)
		for p, b := range bounds {
			g.Go(func() error {
				results[p] = advancePartition(field, b[0], b[1], delta)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	for _, r := range results {
		for _, i := range r.started {
			startMove(field, i)
		}
		e.stats.Started += len(r.started)
		e.stats.Moved += r.moved
		e.stats.Arrived += r.arrived
	}

	if e.stats.Moved > 0 {
		field.Mesh.MarkDirty()
	}
	return nil
}

// partitions splits [0, n) into contiguous ranges, one per worker at most.
func (e *MotionEngine) partitions(n int) [][2]int {
	workers := max(e.Workers, 1)
	minSize := max(e.MinPartition, 1)
	size := max((n+workers-1)/workers, minSize)

	bounds := make([][2]int, 0, workers)
	for from := 0; from < n; from += size {
		bounds = append(bounds, [2]int{from, min(from+size, n)})
	}
	return bounds
}

func advancePartition(field *CubeField, from, to int, delta float32) partitionResult {
	var res partitionResult
	stride := CubeVertexCount * 3
	states := field.Store.slice(from, to)
	positions := field.Mesh.Positions[from*stride : to*stride]

	for k := range states {
		s := &states[k]
		if s.Waiting {
			s.CurrentWaitTime += delta
			if s.CurrentWaitTime >= s.WaitTime {
				s.Waiting = false
				s.CurrentWaitTime = 0
				s.RemainingDistance = s.TotalDistance
				res.started = append(res.started, from+k)
			}
			continue
		}

		move := min(delta*s.Speed, s.RemainingDistance)
		step := move * float32(s.Direction)
		span := positions[k*stride : (k+1)*stride]
		for v := s.Axis; v < len(span); v += 3 {
			span[v] += step
		}
		s.RemainingDistance -= move
		res.moved++
		if s.RemainingDistance <= 0 {
			s.Waiting = true
			res.arrived++
		}
	}
	return res
}

// startMove picks a new axis for cube i and steers it away from the wall it
// is about to run into. The negative-space check has priority over the
// positive-space check, which has priority over the coin flip.
func startMove(field *CubeField, i int) {
	s := field.Store.At(i)
	rng := field.Random()
	s.Axis = rng.UniformInt(0, 2)

	position := axisMean(field.Mesh.CubePositions(i), s.Axis)
	s.Direction = chooseDirection(field.Boundary(), position, float64(s.TotalDistance), rng)
}

func chooseDirection(boundary, position, distance float64, rng Random) int {
	spaceNegative := roundHalfUp(boundary - position)
	spacePositive := roundHalfUp(boundary + position)

	if spaceNegative < distance {
		return -1
	} else if spacePositive < distance {
		return 1
	}
	if rng.UniformBool() {
		return 1
	}
	return -1
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
