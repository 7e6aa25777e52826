package cubefield

// SceneView is what a surface needs to draw one frame.
type SceneView struct {
	Frame    uint64
	Mesh     *MergedMesh
	Boundary *BoundaryFrame
	Camera   *Camera
	// MeshDirty is set when positions changed since the previous frame.
	MeshDirty bool
}

// RenderSurface is the window (or offscreen target) cubes are drawn to.
type RenderSurface interface {
	Size() (width, height int)
	// OnResize registers fn to be called with the new pixel size.
	OnResize(fn func(width, height int))
	PollEvents()
	ShouldClose() bool
	Render(view *SceneView) error
	Release()
}

// HeadlessSurface renders nothing. It records what it was asked to draw.
type HeadlessSurface struct {
	Width, Height int
	// MaxFrames closes the surface after that many frames; 0 never closes.
	MaxFrames int

	Frames  int
	Uploads int
	LastId  MeshId

	resizeFns []func(width, height int)
	closed    bool
}

func NewHeadlessSurface(width, height int) *HeadlessSurface {
	return &HeadlessSurface{Width: width, Height: height}
}

func (s *HeadlessSurface) Size() (int, int) {
	return s.Width, s.Height
}

func (s *HeadlessSurface) OnResize(fn func(width, height int)) {
	s.resizeFns = append(s.resizeFns, fn)
}

// Resize simulates the host changing the surface size.
func (s *HeadlessSurface) Resize(width, height int) {
	s.Width, s.Height = width, height
	for _, fn := range s.resizeFns {
		fn(width, height)
	}
}

func (s *HeadlessSurface) PollEvents() {}

func (s *HeadlessSurface) ShouldClose() bool {
	return s.closed || (s.MaxFrames > 0 && s.Frames >= s.MaxFrames)
}

func (s *HeadlessSurface) Render(view *SceneView) error {
	if view.Mesh != nil && (view.MeshDirty || view.Mesh.ID != s.LastId) {
		s.Uploads++
		s.LastId = view.Mesh.ID
	}
	s.Frames++
	return nil
}

func (s *HeadlessSurface) Release() {
	s.closed = true
}
