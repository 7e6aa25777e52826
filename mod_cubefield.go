package cubefield

import (
	"fmt"
)

// Viewport holds the render surface the scene is drawn to.
type Viewport struct {
	Surface RenderSurface
}

// CubeFieldModule drives the simulation: it owns the population, feeds the
// frame delta into the MotionEngine and hands every frame to the surface.
// It requires TimeModule. When Surface is nil the Viewport installed by
// ClientModule is used, or a HeadlessSurface when there is none.
type CubeFieldModule struct {
	Config  Config
	Surface RenderSurface
	Random  Random
}

func (mod CubeFieldModule) Install(app *App, cmd *Commands) {
	cfg := mod.Config
	if err := cfg.Validate(); err != nil {
		cmd.Logger().Errorf("invalid configuration: %v", err)
		cmd.Fail(fmt.Errorf("cubefield module: %w", err))
		return
	}

	rng := mod.Random
	if rng == nil {
		rng = NewRandom(cfg.Seed)
	}
	surface := mod.Surface
	vp, hasViewport := Resource[Viewport](app)
	if surface == nil && hasViewport {
		surface = vp.Surface
	}
	if surface == nil {
		surface = NewHeadlessSurface(cfg.Window.Width, cfg.Window.Height)
	}
	if !hasViewport {
		cmd.AddResources(&Viewport{Surface: surface})
	} else {
		vp.Surface = surface
	}

	field, err := NewCubeField(rng, cfg.Boundary)
	if err != nil {
		cmd.Fail(err)
		return
	}

	frame := NewBoundaryFrame(InitialBoundary)
	if err := frame.SetBoundary(float32(cfg.Boundary)); err != nil {
		cmd.Fail(err)
		return
	}
	// only later boundary changes are animated
	frame.Transition = cfg.BoundaryTransition

	width, height := surface.Size()
	camera := NewCamera(1)
	camera.SetAspect(width, height)

	logger := cmd.Logger()
	surface.OnResize(func(w, h int) {
		camera.SetAspect(w, h)
		logger.Debugf("surface resized to %dx%d, aspect %.3f", w, h, camera.Aspect)
	})

	cmd.AddResources(
		field,
		NewMotionEngine(cfg.Workers),
		frame,
		camera,
		NewProfiler(cfg.ProfileInterval),
	)

	app.UseSystem(System(surfaceEventsSystem).InStage(PreUpdate))
	app.UseSystem(System(motionSystem).InStage(Update))
	app.UseSystem(System(boundaryTweenSystem).InStage(PostUpdate))
	app.UseSystem(System(renderSystem).InStage(Render))
	app.UseSystem(System(profilerSystem).InStage(Finale))

	if err := cmd.RequestPopulation(cfg.Population); err != nil {
		cmd.Fail(err)
	}
}

// RequestPopulation validates n and queues a resize for the end of the current stage.
func (cmd *Commands) RequestPopulation(n int) error {
	if err := ValidatePopulation(n); err != nil {
		return err
	}
	cmd.Defer("resize population", func(app *App) error {
		field, ok := Resource[CubeField](app)
		if !ok {
			return fmt.Errorf("no CubeField resource installed")
		}
		before := field.Len()
		if err := field.Resize(n); err != nil {
			return err
		}
		app.Logger().Infof("population %d -> %d (mesh %s)", before, n, field.Mesh.ID)
		return nil
	})
	return nil
}

// RequestBoundary validates b and queues the change for the end of the current stage.
func (cmd *Commands) RequestBoundary(b float64) error {
	if err := ValidateBoundary(b); err != nil {
		return err
	}
	cmd.Defer("set boundary", func(app *App) error {
		field, ok := Resource[CubeField](app)
		if !ok {
			return fmt.Errorf("no CubeField resource installed")
		}
		if err := field.SetBoundary(b); err != nil {
			return err
		}
		if frame, ok := Resource[BoundaryFrame](app); ok {
			if err := frame.SetBoundary(float32(b)); err != nil {
				return err
			}
		}
		app.Logger().Infof("boundary set to %.2f", b)
		return nil
	})
	return nil
}

func surfaceEventsSystem(vp *Viewport, cmd *Commands) {
	vp.Surface.PollEvents()
	if vp.Surface.ShouldClose() {
		cmd.Quit()
	}
}

func motionSystem(t *Time, field *CubeField, engine *MotionEngine, profiler *Profiler, cmd *Commands) {
	profiler.BeginScope("motion")
	err := engine.Advance(field, t.Dt)
	profiler.EndScope("motion")
	if err != nil {
		cmd.Logger().Errorf("motion tick aborted: %v", err)
		cmd.Fail(fmt.Errorf("motion tick: %w", err))
		return
	}

	stats := engine.Stats()
	profiler.SetCount("cubes", stats.Cubes)
	profiler.SetCount("moving", stats.Moved)
}

func boundaryTweenSystem(t *Time, frame *BoundaryFrame) {
	frame.Update(t.Dt)
}

func renderSystem(vp *Viewport, field *CubeField, frame *BoundaryFrame, camera *Camera, profiler *Profiler, cmd *Commands) {
	if vp.Surface.ShouldClose() {
		return
	}
	view := &SceneView{
		Frame:     cmd.app.Frame(),
		Mesh:      field.Mesh,
		Boundary:  frame,
		Camera:    camera,
		MeshDirty: field.Mesh.TakeDirty(),
	}
	profiler.BeginScope("render")
	err := vp.Surface.Render(view)
	profiler.EndScope("render")
	if err != nil {
		cmd.Logger().Errorf("render failed: %v", err)
		cmd.Fail(fmt.Errorf("render: %w", err))
	}
}
