package cubefield

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// BoundaryFrame is the visual outline of the confinement region: a bottom and a
// top square loop built at the initial boundary and scaled uniformly as the
// boundary changes.
type BoundaryFrame struct {
	Initial float32
	// Transition is the tween duration in seconds; 0 applies new scales at once.
	Transition float32
	Color      [4]float32

	boundary float32
	scale    float32
	display  float32
	tween    *gween.Tween
}

func NewBoundaryFrame(initial float32) *BoundaryFrame {
	return &BoundaryFrame{
		Initial:  initial,
		Color:    [4]float32{1, 1, 1, 0.5},
		boundary: initial,
		scale:    1,
		display:  1,
	}
}

// Loops returns the bottom and top outlines in unscaled space. Each loop is
// closed: the last point repeats the first.
func (f *BoundaryFrame) Loops() [2][5]mgl32.Vec3 {
	b := f.Initial
	bottom := [5]mgl32.Vec3{
		{-b, -b, -b},
		{b, -b, -b},
		{b, -b, b},
		{-b, -b, b},
		{-b, -b, -b},
	}
	var top [5]mgl32.Vec3
	for i, p := range bottom {
		top[i] = mgl32.Vec3{p[0], p[1] + 2*b, p[2]}
	}
	return [2][5]mgl32.Vec3{bottom, top}
}

func (f *BoundaryFrame) Boundary() float32 {
	return f.boundary
}

// SetBoundary stores the new half-extent and rescales the outline by
// newBoundary / Initial on all three axes.
func (f *BoundaryFrame) SetBoundary(newBoundary float32) error {
	if err := ValidateBoundary(float64(newBoundary)); err != nil {
		return err
	}
	f.boundary = newBoundary
	f.scale = newBoundary / f.Initial
	if f.Transition > 0 {
		f.tween = gween.New(f.display, f.scale, f.Transition, ease.OutCubic)
	} else {
		f.tween = nil
		f.display = f.scale
	}
	return nil
}

// Scale is the target uniform scale.
func (f *BoundaryFrame) Scale() mgl32.Vec3 {
	return mgl32.Vec3{f.scale, f.scale, f.scale}
}

// DisplayScale is the scale currently shown, which trails Scale while a transition runs.
func (f *BoundaryFrame) DisplayScale() mgl32.Vec3 {
	return mgl32.Vec3{f.display, f.display, f.display}
}

func (f *BoundaryFrame) Animating() bool {
	return f.tween != nil
}

// Update advances a running transition by dt seconds.
func (f *BoundaryFrame) Update(dt float32) {
	if f.tween == nil || dt <= 0 {
		return
	}
	val, finished := f.tween.Update(dt)
	f.display = val
	if finished {
		f.display = f.scale
		f.tween = nil
	}
}

// Transform is the model matrix applied to the outline when drawing.
func (f *BoundaryFrame) Transform() mgl32.Mat4 {
	return mgl32.Scale3D(f.display, f.display, f.display)
}

// LineVertices flattens both loops into line-list pairs for a single draw.
func (f *BoundaryFrame) LineVertices() []float32 {
	loops := f.Loops()
	out := make([]float32, 0, 2*4*2*3)
	for _, loop := range loops {
		for i := 0; i < len(loop)-1; i++ {
			a, b := loop[i], loop[i+1]
			out = append(out, a[0], a[1], a[2], b[0], b[1], b[2])
		}
	}
	return out
}
