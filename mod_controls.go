package cubefield

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Key int

const (
	KeyEqual Key = iota
	KeyMinus
	KeyRightBracket
	KeyLeftBracket
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
	keyCount
)

var keyToGlfw = map[Key]glfw.Key{
	KeyEqual:        glfw.KeyEqual,
	KeyMinus:        glfw.KeyMinus,
	KeyRightBracket: glfw.KeyRightBracket,
	KeyLeftBracket:  glfw.KeyLeftBracket,
	KeyLeft:         glfw.KeyLeft,
	KeyRight:        glfw.KeyRight,
	KeyUp:           glfw.KeyUp,
	KeyDown:         glfw.KeyDown,
	KeyEscape:       glfw.KeyEscape,
}

type Input struct {
	Pressed [keyCount]bool

	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool
}

// Set records the key state for this frame and derives the edge flags.
func (input *Input) Set(key Key, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

// ControlsModule maps keys to population, boundary and camera changes.
// Keys are read from the GLFW window when ClientModule is installed; otherwise
// Input is left for the caller to fill.
type ControlsModule struct {
	PopulationStep int
	BoundaryStep   float64
	// OrbitSpeed is in radians per second.
	OrbitSpeed float32
}

type controlSettings struct {
	populationStep int
	boundaryStep   float64
	orbitSpeed     float32
}

func (mod ControlsModule) Install(app *App, cmd *Commands) {
	settings := &controlSettings{
		populationStep: mod.PopulationStep,
		boundaryStep:   mod.BoundaryStep,
		orbitSpeed:     mod.OrbitSpeed,
	}
	if settings.populationStep <= 0 {
		settings.populationStep = 1000
	}
	if settings.boundaryStep <= 0 {
		settings.boundaryStep = 5
	}
	if settings.orbitSpeed <= 0 {
		settings.orbitSpeed = 1
	}

	cmd.AddResources(&Input{}, settings)
	if _, ok := Resource[WindowState](app); ok {
		app.UseSystem(System(inputSystem).InStage(PreUpdate))
	}
	app.UseSystem(System(controlsSystem).InStage(Update))
}

func inputSystem(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		switch s.windowGlfw.GetKey(glfwKey) {
		case glfw.Press, glfw.Repeat:
			input.Set(key, true)
		case glfw.Release:
			input.Set(key, false)
		}
	}
}

func controlsSystem(t *Time, input *Input, settings *controlSettings, field *CubeField, camera *Camera, cmd *Commands) {
	logger := cmd.Logger()

	if input.JustPressed[KeyEscape] {
		cmd.Quit()
		return
	}

	population := field.Len()
	switch {
	case input.JustPressed[KeyEqual]:
		population += settings.populationStep
	case input.JustPressed[KeyMinus]:
		population = max(population-settings.populationStep, 0)
	}
	if population != field.Len() {
		if err := cmd.RequestPopulation(population); err != nil {
			logger.Warnf("population change rejected: %v", err)
		}
	}

	boundary := field.Boundary()
	switch {
	case input.JustPressed[KeyRightBracket]:
		boundary += settings.boundaryStep
	case input.JustPressed[KeyLeftBracket]:
		boundary -= settings.boundaryStep
	}
	if boundary != field.Boundary() {
		if err := cmd.RequestBoundary(boundary); err != nil {
			logger.Debugf("boundary change rejected: %v", err)
		}
	}

	step := settings.orbitSpeed * t.Dt
	var dAzimuth, dElevation float32
	if input.Pressed[KeyLeft] {
		dAzimuth -= step
	}
	if input.Pressed[KeyRight] {
		dAzimuth += step
	}
	if input.Pressed[KeyUp] {
		dElevation += step
	}
	if input.Pressed[KeyDown] {
		dElevation -= step
	}
	if dAzimuth != 0 || dElevation != 0 {
		camera.Orbit(dAzimuth, dElevation)
	}
}
