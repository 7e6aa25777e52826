package cubefield

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any

	// Command buffering, applied between stages
	pending []deferredCommand

	frame   uint64
	quit    bool
	failure error
}

type deferredCommand struct {
	name  string
	apply func(app *App) error
}

func newApp() *App {
	app := &App{
		stages:    DefaultStages(),
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, s := range app.stages {
		app.systems[s.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// UseModules installs modules after the App has been built.
func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, m := range modules {
		m.Install(app, cmd)
	}
	return app
}

// Frame returns the number of frames started so far.
func (app *App) Frame() uint64 {
	return app.frame
}

// Run executes frames until Quit is requested or a system fails.
// The failure, if any, is returned.
func (app *App) Run() error {
	app.Logger().Infof("Running with %d stages", len(app.stages))
	for !app.quit {
		if err := app.Step(); err != nil {
			return err
		}
	}
	app.Logger().Infof("Stopped after %d frames", app.frame)
	return nil
}

// Step runs every stage once. A failing system aborts the rest of the frame.
func (app *App) Step() error {
	if app.failure != nil {
		return app.failure
	}
	app.frame++

	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
			if app.failure != nil {
				app.pending = app.pending[:0]
				app.quit = true
				return app.failure
			}
		}
		app.FlushCommands()
		if app.failure != nil {
			app.quit = true
			return app.failure
		}
	}
	return nil
}

// Quit stops Run after the current frame.
func (app *App) Quit() {
	app.quit = true
}

// Stopped reports whether Quit was requested or a system failed.
func (app *App) Stopped() bool {
	return app.quit || app.failure != nil
}

func (app *App) fail(err error) {
	if app.failure == nil {
		app.failure = err
	}
}

// Err returns the failure that stopped the App, if any.
func (app *App) Err() error {
	return app.failure
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) hasResource(t reflect.Type) bool {
	_, ok := app.resources[t]
	return ok
}

// Resource returns the resource of type T registered in app.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	typed, ok := res.(*T)
	return typed, ok
}

var typeOfCommands = reflect.TypeOf(Commands{})

func validateSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	if systemType == nil || systemType.Kind() != reflect.Func {
		panic(fmt.Sprintf("system must be a function, got %v", systemType))
	}
	for i := 0; i < systemType.NumIn(); i++ {
		if systemType.In(i).Kind() != reflect.Pointer {
			panic(fmt.Sprintf("system %s: parameter %d must be a pointer, got %s",
				systemName(system), i, systemType.In(i)))
		}
	}
}

func systemName(system systemFn) string {
	return runtime.FuncForPC(reflect.ValueOf(system).Pointer()).Name()
}

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				systemName(system),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
	}
	systemValue.Call(args)
}

// FlushCommands applies queued commands in submission order.
// The first failing command stops the flush and fails the App.
func (app *App) FlushCommands() {
	if len(app.pending) == 0 {
		return
	}

	queued := app.pending
	app.pending = nil
	for _, c := range queued {
		if err := c.apply(app); err != nil {
			app.Logger().Errorf("command %s failed: %v", c.name, err)
			app.fail(fmt.Errorf("%s: %w", c.name, err))
			return
		}
	}
}
