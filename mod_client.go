package cubefield

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/cubefield/shaders"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// ClientModule opens the GLFW window and WebGPU surface and publishes them as
// Viewport and WindowState resources. Install it before CubeFieldModule.
type ClientModule struct {
	Window WindowConfig
}

func (mod ClientModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[Viewport](app); ok {
		return
	}
	surface, err := NewClientSurface(mod.Window)
	if err != nil {
		cmd.Logger().Errorf("unable to open window: %v", err)
		cmd.Fail(fmt.Errorf("client module: %w", err))
		return
	}
	cmd.AddResources(&Viewport{Surface: surface}, surface.window)
}

// ClientSurface draws the merged cube mesh and the boundary outline into a GLFW window.
type ClientSurface struct {
	ClearColor wgpu.Color

	window *WindowState
	gpu    *GpuState

	sceneLayout   *wgpu.BindGroupLayout
	cubePipeline  *wgpu.RenderPipeline
	framePipeline *wgpu.RenderPipeline

	cubeUniform  *wgpu.Buffer
	frameUniform *wgpu.Buffer
	cubeGroup    *wgpu.BindGroup
	frameGroup   *wgpu.BindGroup

	// merged mesh buffers, rebuilt whenever the mesh id changes
	meshId     MeshId
	positions  *wgpu.Buffer
	colors     *wgpu.Buffer
	indices    *wgpu.Buffer
	indexCount uint32

	frameLines       *wgpu.Buffer
	frameVertexCount uint32

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	depthErr     error

	resizeFns []func(width, height int)
}

func NewClientSurface(cfg WindowConfig) (*ClientSurface, error) {
	ws, err := createWindowState(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return nil, err
	}
	gs, err := createGpuState(ws)
	if err != nil {
		ws.windowGlfw.Destroy()
		glfw.Terminate()
		return nil, err
	}

	s := &ClientSurface{
		ClearColor: wgpu.Color{R: 0.96, G: 0.96, B: 0.96, A: 1},
		window:     ws,
		gpu:        gs,
	}
	if err := s.init(); err != nil {
		s.Release()
		return nil, err
	}

	ws.windowGlfw.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		s.resize(width, height)
	})
	return s, nil
}

func (s *ClientSurface) init() error {
	device := s.gpu.device
	var err error

	if s.sceneLayout, err = createSceneBindGroupLayout(device); err != nil {
		return fmt.Errorf("scene layout: %w", err)
	}

	s.cubePipeline, err = createRenderPipeline(pipelineDesc{
		name:      "Cubes",
		code:      shaders.CubesWGSL,
		buffers:   []wgpu.VertexBufferLayout{float32x3Buffer(0), float32x3Buffer(1)},
		topology:  wgpu.PrimitiveTopologyTriangleList,
		cullMode:  wgpu.CullModeBack,
		depthTest: true,
	}, s.sceneLayout, s.gpu)
	if err != nil {
		return err
	}

	s.framePipeline, err = createRenderPipeline(pipelineDesc{
		name:      "Boundary Frame",
		code:      shaders.FrameWGSL,
		buffers:   []wgpu.VertexBufferLayout{float32x3Buffer(0)},
		topology:  wgpu.PrimitiveTopologyLineList,
		cullMode:  wgpu.CullModeNone,
		blend:     &alphaBlend,
		depthTest: true,
	}, s.sceneLayout, s.gpu)
	if err != nil {
		return err
	}

	if s.cubeUniform, s.cubeGroup, err = s.createUniform("Cube Uniform"); err != nil {
		return err
	}
	if s.frameUniform, s.frameGroup, err = s.createUniform("Frame Uniform"); err != nil {
		return err
	}

	s.depthTexture, s.depthView, err = createDepthView(device, s.window.WindowWidth, s.window.WindowHeight)
	if err != nil {
		return fmt.Errorf("depth texture: %w", err)
	}
	return nil
}

func (s *ClientSurface) createUniform(name string) (*wgpu.Buffer, *wgpu.BindGroup, error) {
	buf, err := s.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  sceneUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", name, err)
	}
	group, err := s.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  name,
		Layout: s.sceneLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buf.Release()
		return nil, nil, fmt.Errorf("bind %s: %w", name, err)
	}
	return buf, group, nil
}

func (s *ClientSurface) Size() (int, int) {
	return s.window.WindowWidth, s.window.WindowHeight
}

func (s *ClientSurface) OnResize(fn func(width, height int)) {
	s.resizeFns = append(s.resizeFns, fn)
}

func (s *ClientSurface) resize(width, height int) {
	// minimized windows report a zero framebuffer
	if width <= 0 || height <= 0 {
		return
	}
	s.window.WindowWidth, s.window.WindowHeight = width, height
	s.gpu.reconfigure(width, height)

	if s.depthView != nil {
		s.depthView.Release()
		s.depthTexture.Release()
	}
	s.setDepth(createDepthView(s.gpu.device, width, height))
	for _, fn := range s.resizeFns {
		fn(width, height)
	}
}

// setDepth installs a new depth target. A failed one is kept and reported by
// the next Render.
func (s *ClientSurface) setDepth(texture *wgpu.Texture, view *wgpu.TextureView, err error) {
	if err != nil {
		s.depthTexture, s.depthView = nil, nil
		s.depthErr = fmt.Errorf("depth texture: %w", err)
		return
	}
	s.depthTexture, s.depthView, s.depthErr = texture, view, nil
}

func (s *ClientSurface) PollEvents() {
	glfw.PollEvents()
}

func (s *ClientSurface) ShouldClose() bool {
	return s.window.windowGlfw.ShouldClose()
}

// syncMesh uploads the merged mesh. A new mesh id means the cube count changed
// and every buffer is recreated; otherwise only positions are rewritten.
func (s *ClientSurface) syncMesh(mesh *MergedMesh, dirty bool) error {
	if mesh.ID != s.meshId {
		s.releaseMesh()
		s.meshId = mesh.ID
		if mesh.CubeCount() == 0 {
			return nil
		}
		device := s.gpu.device
		var err error
		usage := wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
		if s.positions, err = createBuffer("Cube Positions", sliceBytes(mesh.Positions), usage, device); err != nil {
			return err
		}
		if s.colors, err = createBuffer("Cube Colors", sliceBytes(mesh.Colors), usage, device); err != nil {
			return err
		}
		if s.indices, err = createBuffer("Cube Indices", sliceBytes(mesh.Indices), wgpu.BufferUsageIndex, device); err != nil {
			return err
		}
		s.indexCount = uint32(len(mesh.Indices))
		return nil
	}
	if dirty && s.positions != nil {
		return s.gpu.queue.WriteBuffer(s.positions, 0, sliceBytes(mesh.Positions))
	}
	return nil
}

func (s *ClientSurface) releaseMesh() {
	for _, buf := range []*wgpu.Buffer{s.positions, s.colors, s.indices} {
		if buf != nil {
			buf.Release()
		}
	}
	s.positions, s.colors, s.indices = nil, nil, nil
	s.indexCount = 0
}

func (s *ClientSurface) syncFrame(frame *BoundaryFrame) error {
	if s.frameLines != nil {
		return nil
	}
	lines := frame.LineVertices()
	buf, err := createBuffer("Boundary Lines", sliceBytes(lines), wgpu.BufferUsageVertex, s.gpu.device)
	if err != nil {
		return err
	}
	s.frameLines = buf
	s.frameVertexCount = uint32(len(lines) / 3)
	return nil
}

func (s *ClientSurface) Render(view *SceneView) error {
	if s.depthErr != nil {
		return s.depthErr
	}
	if s.depthView == nil {
		return nil
	}
	if err := s.syncMesh(view.Mesh, view.MeshDirty); err != nil {
		return err
	}
	if err := s.syncFrame(view.Boundary); err != nil {
		return err
	}

	viewProj := view.Camera.ViewProjection()
	queue := s.gpu.queue
	if err := queue.WriteBuffer(s.cubeUniform, 0, sceneUniform{
		ViewProj: viewProj,
		Model:    mgl32.Ident4(),
		Color:    [4]float32{1, 1, 1, 1},
	}.Bytes()); err != nil {
		return err
	}
	if err := queue.WriteBuffer(s.frameUniform, 0, sceneUniform{
		ViewProj: viewProj,
		Model:    view.Boundary.Transform(),
		Color:    view.Boundary.Color,
	}.Bytes()); err != nil {
		return err
	}

	texture, err := s.gpu.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer texture.Release()
	target, err := texture.CreateView(nil)
	if err != nil {
		return err
	}
	defer target.Release()

	encoder, err := s.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       target,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: s.ClearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            s.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})

	if s.indexCount > 0 {
		pass.SetPipeline(s.cubePipeline)
		pass.SetBindGroup(0, s.cubeGroup, nil)
		pass.SetVertexBuffer(0, s.positions, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, s.colors, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(s.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(s.indexCount, 1, 0, 0, 0)
	}

	pass.SetPipeline(s.framePipeline)
	pass.SetBindGroup(0, s.frameGroup, nil)
	pass.SetVertexBuffer(0, s.frameLines, 0, wgpu.WholeSize)
	pass.Draw(s.frameVertexCount, 1, 0, 0)

	if err := pass.End(); err != nil {
		return err
	}
	pass.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	queue.Submit(cmdBuffer)
	s.gpu.surface.Present()
	return nil
}

func (s *ClientSurface) Release() {
	s.releaseMesh()
	for _, buf := range []*wgpu.Buffer{s.frameLines, s.cubeUniform, s.frameUniform} {
		if buf != nil {
			buf.Release()
		}
	}
	for _, group := range []*wgpu.BindGroup{s.cubeGroup, s.frameGroup} {
		if group != nil {
			group.Release()
		}
	}
	for _, pipeline := range []*wgpu.RenderPipeline{s.cubePipeline, s.framePipeline} {
		if pipeline != nil {
			pipeline.Release()
		}
	}
	if s.sceneLayout != nil {
		s.sceneLayout.Release()
	}
	if s.depthView != nil {
		s.depthView.Release()
		s.depthTexture.Release()
	}
	s.gpu.release()
	s.window.windowGlfw.Destroy()
	glfw.Terminate()
}
