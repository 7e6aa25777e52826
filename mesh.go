package cubefield

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type MeshId string

func makeMeshId() MeshId {
	return MeshId(uuid.NewString())
}

// MergedMesh is the single vertex arena shared by every cube. Cube i owns
// Positions[i*V*3 : (i+1)*V*3] and the matching Colors span.
type MergedMesh struct {
	ID        MeshId
	Positions []float32
	Colors    []float32
	Indices   []uint32

	dirty bool
}

// CubeCount is derived from the position buffer length.
func (m *MergedMesh) CubeCount() int {
	return len(m.Positions) / (CubeVertexCount * 3)
}

func (m *MergedMesh) VertexCount() int {
	return len(m.Positions) / 3
}

// CubePositions returns the position span owned by cube i.
func (m *MergedMesh) CubePositions(i int) []float32 {
	stride := CubeVertexCount * 3
	return m.Positions[i*stride : (i+1)*stride]
}

// CubeCenter is the per-vertex mean of cube i's current vertex data.
func (m *MergedMesh) CubeCenter(i int) mgl32.Vec3 {
	return meanPosition(m.CubePositions(i))
}

func (m *MergedMesh) CubeColor(i int) mgl32.Vec3 {
	o := i * CubeVertexCount * 3
	return mgl32.Vec3{m.Colors[o], m.Colors[o+1], m.Colors[o+2]}
}

func (m *MergedMesh) MarkDirty() {
	m.dirty = true
}

func (m *MergedMesh) Dirty() bool {
	return m.dirty
}

// TakeDirty reports whether positions changed since the last call and clears the flag.
func (m *MergedMesh) TakeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}

func meanPosition(span []float32) mgl32.Vec3 {
	var sum [3]float64
	n := len(span) / 3
	for v := 0; v < n; v++ {
		sum[0] += float64(span[v*3])
		sum[1] += float64(span[v*3+1])
		sum[2] += float64(span[v*3+2])
	}
	if n == 0 {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{
		float32(sum[0] / float64(n)),
		float32(sum[1] / float64(n)),
		float32(sum[2] / float64(n)),
	}
}

// axisMean is meanPosition restricted to one axis.
func axisMean(span []float32, axis int) float64 {
	var sum float64
	n := len(span) / 3
	for v := 0; v < n; v++ {
		sum += float64(span[v*3+axis])
	}
	return sum / float64(n)
}
