package cubefield

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultPalette holds the two cube colors (#db2777, #0a0a0a).
var DefaultPalette = [2]mgl32.Vec3{
	hexColor(0xdb2777),
	hexColor(0x0a0a0a),
}

func hexColor(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}

// CubeField owns the cube population: the state store and the merged mesh,
// always of equal length and order.
type CubeField struct {
	Store   *CubeStore
	Mesh    *MergedMesh
	Palette [2]mgl32.Vec3

	boundary float64
	rng      Random
}

func NewCubeField(rng Random, boundary float64) (*CubeField, error) {
	if err := ValidateBoundary(boundary); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandom(0)
	}
	return &CubeField{
		Store:    NewCubeStore(0),
		Mesh:     &MergedMesh{ID: makeMeshId()},
		Palette:  DefaultPalette,
		boundary: boundary,
		rng:      rng,
	}, nil
}

func (f *CubeField) Len() int {
	return f.Store.Len()
}

func (f *CubeField) Boundary() float64 {
	return f.boundary
}

// SetBoundary changes the confinement half-extent used for new cubes and
// direction selection. Existing cubes are not moved.
func (f *CubeField) SetBoundary(b float64) error {
	if err := ValidateBoundary(b); err != nil {
		return err
	}
	f.boundary = b
	return nil
}

func (f *CubeField) Random() Random {
	return f.rng
}

// Resize grows or truncates the population to n cubes, recolors every cube
// and replaces the merged mesh. Surviving cubes are rebuilt at their spawn
// origin while their motion state carries over.
func (f *CubeField) Resize(n int) error {
	if err := ValidatePopulation(n); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}

	stride := CubeVertexCount * 3
	current := f.Store.Len()
	kept := min(n, current)

	store := f.Store.Clone()
	store.Truncate(kept)
	positions := make([]float32, 0, n*stride)
	for i := 0; i < kept; i++ {
		positions = appendCube(positions, store.At(i).Origin)
	}

	lo := int(math.Ceil(-f.boundary))
	hi := int(math.Floor(f.boundary))
	for i := kept; i < n; i++ {
		offset := mgl32.Vec3{
			float32(f.rng.UniformInt(lo, hi)),
			float32(f.rng.UniformInt(lo, hi)),
			float32(f.rng.UniformInt(lo, hi)),
		}
		positions = appendCube(positions, offset)
		state := NewCubeState(f.rng)
		state.Origin = offset
		store.Append(state)
	}

	colors := make([]float32, 0, n*stride)
	for i := 0; i < n; i++ {
		c := f.Palette[1]
		if f.rng.UniformBool() {
			c = f.Palette[0]
		}
		for v := 0; v < CubeVertexCount; v++ {
			colors = append(colors, c[0], c[1], c[2])
		}
	}

	indices := make([]uint32, 0, n*CubeIndexCount)
	for i := 0; i < n; i++ {
		base := uint32(i * CubeVertexCount)
		for _, idx := range unitCube.indices {
			indices = append(indices, base+idx)
		}
	}

	mesh := &MergedMesh{
		ID:        makeMeshId(),
		Positions: positions,
		Colors:    colors,
		Indices:   indices,
	}
	mesh.MarkDirty()

	f.Store = store
	f.Mesh = mesh
	return nil
}

// Validate checks that the store and every mesh buffer describe the same cube count.
func (f *CubeField) Validate() error {
	n := f.Store.Len()
	stride := CubeVertexCount * 3
	switch {
	case len(f.Mesh.Positions) != n*stride:
		return fmt.Errorf("%w: %d states, %d position floats", ErrLayoutMismatch, n, len(f.Mesh.Positions))
	case len(f.Mesh.Colors) != n*stride:
		return fmt.Errorf("%w: %d states, %d color floats", ErrLayoutMismatch, n, len(f.Mesh.Colors))
	case len(f.Mesh.Indices) != n*CubeIndexCount:
		return fmt.Errorf("%w: %d states, %d indices", ErrLayoutMismatch, n, len(f.Mesh.Indices))
	}
	return nil
}
