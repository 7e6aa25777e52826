package cubefield

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitCube_FacesWindOutward(t *testing.T) {
	for face := 0; face < 6; face++ {
		for tri := 0; tri < 2; tri++ {
			i := face*6 + tri*3
			a := unitCube.positions[unitCube.indices[i]]
			b := unitCube.positions[unitCube.indices[i+1]]
			c := unitCube.positions[unitCube.indices[i+2]]

			normal := b.Sub(a).Cross(c.Sub(a))
			centroid := a.Add(b).Add(c).Mul(1.0 / 3)
			assert.Greater(t, normal.Dot(centroid), float32(0), "face %d triangle %d", face, tri)
		}
	}
}

func TestUnitCube_CenteredUnitBox(t *testing.T) {
	var sum mgl32.Vec3
	for _, p := range unitCube.positions {
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, 0.5, abs32(p[axis]), 1e-6)
		}
		sum = sum.Add(p)
	}
	assert.True(t, sum.ApproxEqual(mgl32.Vec3{}))

	for _, idx := range unitCube.indices {
		assert.Less(t, idx, uint32(CubeVertexCount))
	}
}

func TestAppendCube(t *testing.T) {
	positions := appendCube(nil, mgl32.Vec3{3, -2, 7})
	require.Len(t, positions, CubeVertexCount*3)

	center := meanPosition(positions)
	assert.True(t, center.ApproxEqualThreshold(mgl32.Vec3{3, -2, 7}, 1e-5), "center %v", center)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
