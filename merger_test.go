package cubefield

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeCubes builds a field whose cube i sits at offsets[i] with states[i].
func placeCubes(t *testing.T, rng Random, boundary float64, offsets []mgl32.Vec3, states []CubeState) *CubeField {
	t.Helper()
	require.Len(t, states, len(offsets))

	field, err := NewCubeField(rng, boundary)
	require.NoError(t, err)

	mesh := &MergedMesh{ID: makeMeshId()}
	for i, offset := range offsets {
		states[i].Origin = offset
		mesh.Positions = appendCube(mesh.Positions, offset)
		c := field.Palette[i%2]
		for v := 0; v < CubeVertexCount; v++ {
			mesh.Colors = append(mesh.Colors, c[0], c[1], c[2])
		}
		for _, idx := range unitCube.indices {
			mesh.Indices = append(mesh.Indices, uint32(i*CubeVertexCount)+idx)
		}
	}
	field.Mesh = mesh
	field.Store.Append(states...)
	require.NoError(t, field.Validate())
	return field
}

func TestNewCubeField_RejectsBadBoundary(t *testing.T) {
	for _, b := range []float64{0, -1} {
		_, err := NewCubeField(NewRandom(1), b)
		assert.ErrorIs(t, err, ErrInvalidBoundary)
	}
}

func TestResize_Counts(t *testing.T) {
	field, err := NewCubeField(NewRandom(5), InitialBoundary)
	require.NoError(t, err)

	for _, n := range []int{0, 1, 7, 250, 3, 0, 12} {
		require.NoError(t, field.Resize(n))

		assert.Equal(t, n, field.Len())
		assert.Equal(t, n, field.Mesh.CubeCount())
		assert.Equal(t, n*CubeVertexCount, field.Mesh.VertexCount())
		assert.Len(t, field.Mesh.Colors, n*CubeVertexCount*3)
		assert.Len(t, field.Mesh.Indices, n*CubeIndexCount)
		assert.NoError(t, field.Validate())
	}
}

func TestResize_IndicesAddressOwnRange(t *testing.T) {
	field, err := NewCubeField(NewRandom(5), InitialBoundary)
	require.NoError(t, err)
	require.NoError(t, field.Resize(4))

	for i := 0; i < 4; i++ {
		for _, idx := range field.Mesh.Indices[i*CubeIndexCount : (i+1)*CubeIndexCount] {
			assert.GreaterOrEqual(t, idx, uint32(i*CubeVertexCount))
			assert.Less(t, idx, uint32((i+1)*CubeVertexCount))
		}
	}
}

func TestResize_PreservesSurvivingPrefix(t *testing.T) {
	field, err := NewCubeField(NewRandom(11), InitialBoundary)
	require.NoError(t, err)
	require.NoError(t, field.Resize(5))

	stride := CubeVertexCount * 3
	spawned := append([]float32(nil), field.Mesh.Positions...)

	engine := NewMotionEngine(1)
	for i := 0; i < 10; i++ {
		require.NoError(t, engine.Advance(field, 0.2))
	}
	beforeStates := field.Store.Clone()

	require.NoError(t, field.Resize(10))
	assert.Equal(t, spawned, field.Mesh.Positions[:5*stride])

	require.NoError(t, field.Resize(5))
	assert.Equal(t, spawned, field.Mesh.Positions)
	for i := 0; i < 5; i++ {
		assert.Equal(t, *beforeStates.At(i), *field.Store.At(i), "cube %d", i)
	}
}

func TestResize_RebuildsMovedCubeAtOrigin(t *testing.T) {
	field := placeCubes(t, &scriptedRandom{}, InitialBoundary,
		[]mgl32.Vec3{{0, 0, 0}}, []CubeState{{
			Axis: 0, Direction: 1, Speed: 1,
			RemainingDistance: 1, TotalDistance: 1,
			WaitTime: CubeWaitTime,
		}})

	require.NoError(t, NewMotionEngine(1).Advance(field, 0.5))
	require.True(t, field.Mesh.CubeCenter(0).ApproxEqualThreshold(mgl32.Vec3{0.5, 0, 0}, 1e-5))
	moved := *field.Store.At(0)

	require.NoError(t, field.Resize(2))
	assert.True(t, field.Mesh.CubeCenter(0).ApproxEqualThreshold(mgl32.Vec3{0, 0, 0}, 1e-5),
		"center %v", field.Mesh.CubeCenter(0))
	assert.Equal(t, moved, *field.Store.At(0))
}

func TestResize_NewMeshIdentity(t *testing.T) {
	field, err := NewCubeField(NewRandom(1), InitialBoundary)
	require.NoError(t, err)

	first := field.Mesh.ID
	require.NoError(t, field.Resize(2))
	second := field.Mesh.ID
	require.NoError(t, field.Resize(2))

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, second, field.Mesh.ID)
	assert.True(t, field.Mesh.Dirty())
}

func TestResize_RejectsNegative(t *testing.T) {
	field, err := NewCubeField(NewRandom(1), InitialBoundary)
	require.NoError(t, err)
	require.NoError(t, field.Resize(3))
	id := field.Mesh.ID

	assert.ErrorIs(t, field.Resize(-1), ErrInvalidPopulation)
	assert.Equal(t, 3, field.Len())
	assert.Equal(t, id, field.Mesh.ID)
}

func TestResize_DrawOrder(t *testing.T) {
	rng := &scriptedRandom{
		// x, y, z, axis, speed for each new cube
		ints: []int{1, 2, 3, 2, 5, -4, -5, -6, 0, 1},
		// direction per cube, then a color per cube
		bools: []bool{true, false, true, false},
	}
	field, err := NewCubeField(rng, 10)
	require.NoError(t, err)
	require.NoError(t, field.Resize(2))

	assert.True(t, field.Mesh.CubeCenter(0).ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, 1e-5))
	assert.True(t, field.Mesh.CubeCenter(1).ApproxEqualThreshold(mgl32.Vec3{-4, -5, -6}, 1e-5))

	assert.Equal(t, CubeState{
		Axis: 2, Direction: -1, Speed: 5,
		RemainingDistance: 1, TotalDistance: 1,
		Waiting: true, WaitTime: CubeWaitTime,
		Origin: mgl32.Vec3{1, 2, 3},
	}, *field.Store.At(0))
	assert.Equal(t, 1, field.Store.At(1).Direction)
	assert.Equal(t, float32(1), field.Store.At(1).Speed)

	assert.Equal(t, field.Palette[0], field.Mesh.CubeColor(0))
	assert.Equal(t, field.Palette[1], field.Mesh.CubeColor(1))
}

func TestResize_RecolorsEveryCube(t *testing.T) {
	rng := &scriptedRandom{bools: []bool{false, false}}
	field, err := NewCubeField(rng, 10)
	require.NoError(t, err)
	require.NoError(t, field.Resize(1))
	assert.Equal(t, field.Palette[1], field.Mesh.CubeColor(0))

	// growing by one redraws the color of the existing cube too
	rng.bools = []bool{false, true, true}
	require.NoError(t, field.Resize(2))
	assert.Equal(t, field.Palette[0], field.Mesh.CubeColor(0))
	assert.Equal(t, field.Palette[0], field.Mesh.CubeColor(1))
}

func TestResize_PositionsInsideBoundary(t *testing.T) {
	field, err := NewCubeField(NewRandom(21), 4.5)
	require.NoError(t, err)
	require.NoError(t, field.Resize(300))

	for i := 0; i < field.Len(); i++ {
		c := field.Mesh.CubeCenter(i)
		for axis := 0; axis < 3; axis++ {
			assert.GreaterOrEqual(t, c[axis], float32(-4))
			assert.LessOrEqual(t, c[axis], float32(4))
		}
	}
}

func TestValidate_LayoutMismatch(t *testing.T) {
	field, err := NewCubeField(NewRandom(1), InitialBoundary)
	require.NoError(t, err)
	require.NoError(t, field.Resize(2))

	field.Mesh.Indices = field.Mesh.Indices[:CubeIndexCount]
	assert.ErrorIs(t, field.Validate(), ErrLayoutMismatch)
	assert.ErrorIs(t, field.Resize(3), ErrLayoutMismatch)
}
