package cubefield

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

// sceneUniform matches the Scene struct in the WGSL shaders.
type sceneUniform struct {
	ViewProj mgl32.Mat4
	Model    mgl32.Mat4
	Color    [4]float32
}

const sceneUniformSize = 16*4 + 16*4 + 4*4

// createWindowState opens a resizable GLFW window without a client API.
// GLFW must be driven from the main OS thread, so the caller's thread is locked.
func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	width, height := win.GetFramebufferSize()
	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  width,
		WindowHeight: height,
		windowTitle:  windowTitle,
	}, nil
}

// releaser is any GPU handle that must be released.
type releaser interface {
	Release()
}

// releaseStack releases handles in reverse acquisition order.
type releaseStack []releaser

func (r *releaseStack) push(x releaser) {
	*r = append(*r, x)
}

func (r *releaseStack) release() {
	for i := len(*r) - 1; i >= 0; i-- {
		(*r)[i].Release()
	}
	*r = nil
}

func createGpuState(s *WindowState) (*GpuState, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	var acquired releaseStack
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	acquired.push(surface)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		acquired.release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	acquired.push(adapter)
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "cubefield device",
	})
	if err != nil {
		acquired.release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	acquired.push(device)
	queue := device.GetQueue()
	acquired.push(queue)

	caps := surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		acquired.release()
		return nil, fmt.Errorf("surface reports no usable format")
	}
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}, nil
}

// reconfigure applies a new framebuffer size to the swapchain.
func (g *GpuState) reconfigure(width, height int) {
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
}

func (g *GpuState) release() {
	g.queue.Release()
	g.device.Release()
	g.adapter.Release()
	g.surface.Release()
}

func createSceneBindGroupLayout(device *wgpu.Device) (*wgpu.BindGroupLayout, error) {
	return device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SceneBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: sceneUniformSize,
				},
			},
		},
	})
}

type pipelineDesc struct {
	name      string
	code      string
	buffers   []wgpu.VertexBufferLayout
	topology  wgpu.PrimitiveTopology
	cullMode  wgpu.CullMode
	blend     *wgpu.BlendState
	depthTest bool
}

var alphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}

func float32x3Buffer(location uint32) wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 3 * 4,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         0,
				ShaderLocation: location,
			},
		},
	}
}

func createRenderPipeline(desc pipelineDesc, layout *wgpu.BindGroupLayout, gpuState *GpuState) (*wgpu.RenderPipeline, error) {
	shader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.code},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", desc.name, err)
	}
	defer shader.Release()

	pipelineLayout, err := gpuState.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.name,
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return nil, fmt.Errorf("%s layout: %w", desc.name, err)
	}
	defer pipelineLayout.Release()

	depthCompare := wgpu.CompareFunctionAlways
	if desc.depthTest {
		depthCompare = wgpu.CompareFunctionLess
	}

	pipeline, err := gpuState.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.name,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    desc.buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpuState.surfaceConfig.Format,
					Blend:     desc.blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  desc.topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  desc.cullMode,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: desc.depthTest,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", desc.name, err)
	}
	return pipeline, nil
}

func createDepthView(device *wgpu.Device, width, height int) (*wgpu.Texture, *wgpu.TextureView, error) {
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, nil, err
	}
	return texture, view, nil
}

func createBuffer(name string, contents []byte, usage wgpu.BufferUsage, device *wgpu.Device) (*wgpu.Buffer, error) {
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return buffer, nil
}

// sliceBytes reinterprets a slice as its raw bytes without copying.
func sliceBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// Bytes lays the uniform out little-endian, matrices column-major.
func (u sceneUniform) Bytes() []byte {
	buf := make([]byte, 0, sceneUniformSize)
	buf = appendFloats(buf, u.ViewProj[:])
	buf = appendFloats(buf, u.Model[:])
	return appendFloats(buf, u.Color[:])
}

func appendFloats(buf []byte, values []float32) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
