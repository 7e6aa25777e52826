package cubefield

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// CubeVertexCount is V, the number of vertices one cube occupies in the merged buffer.
	CubeVertexCount = 24
	CubeIndexCount  = 36
)

// unitCube holds the vertices of a unit box centered at the origin, four per
// face in the order +X, -X, +Y, -Y, +Z, -Z, and its triangle indices.
var unitCube = buildUnitCube()

type cubeGeometry struct {
	positions [CubeVertexCount]mgl32.Vec3
	indices   [CubeIndexCount]uint32
}

func buildUnitCube() cubeGeometry {
	var g cubeGeometry
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	v := 0
	for face := 0; face < 6; face++ {
		axis := face / 2
		sign := float32(1)
		if face%2 == 1 {
			sign = -1
		}

		var normal, u, w mgl32.Vec3
		normal[axis] = sign
		u[(axis+1)%3] = 1
		w[(axis+2)%3] = 1
		// keep u x w pointing along the normal so faces wind counter-clockwise from outside
		if sign < 0 {
			u, w = w, u
		}

		base := uint32(v)
		for _, c := range corners {
			g.positions[v] = normal.Add(u.Mul(c[0])).Add(w.Mul(c[1])).Mul(0.5)
			v++
		}

		i := face * 6
		g.indices[i+0] = base + 0
		g.indices[i+1] = base + 1
		g.indices[i+2] = base + 2
		g.indices[i+3] = base + 0
		g.indices[i+4] = base + 2
		g.indices[i+5] = base + 3
	}
	return g
}

// appendCube appends the unit cube translated by offset to positions.
func appendCube(positions []float32, offset mgl32.Vec3) []float32 {
	for _, p := range unitCube.positions {
		q := p.Add(offset)
		positions = append(positions, q[0], q[1], q[2])
	}
	return positions
}
