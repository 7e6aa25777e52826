package cubefield

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := newApp()

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	assert.Panics(t, func() {
		app.addResources(MockResource1{name: "by value"})
	})
}

func TestResource(t *testing.T) {
	app := newApp()
	app.addResources(NewMockResource1("r1"))

	r1, ok := Resource[MockResource1](app)
	require.True(t, ok)
	assert.Equal(t, "r1", r1.name)

	_, ok = Resource[MockResource2](app)
	assert.False(t, ok)
}

func TestApp_StepRunsStagesInOrder(t *testing.T) {
	app := newApp()
	var calls []string
	for _, stage := range app.stages {
		name := stage.Name
		app.UseSystem(System(func(cmd *Commands) {
			calls = append(calls, name)
		}).InStage(stage))
	}

	require.NoError(t, app.Step())
	assert.Equal(t, []string{"Prelude", "PreUpdate", "Update", "PostUpdate", "Render", "Finale"}, calls)
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_SystemInjectsResources(t *testing.T) {
	app := newApp()
	app.addResources(NewMockResource1("injected"))

	var got string
	app.UseSystem(System(func(r *MockResource1) {
		got = r.name
	}).InStage(Update))

	require.NoError(t, app.Step())
	assert.Equal(t, "injected", got)
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := newApp()
	app.UseSystem(System(func(r *MockResource2) {}).InStage(Update))

	assert.Panics(t, func() { _ = app.Step() })
}

func TestApp_DeferredCommandsApplyBetweenStages(t *testing.T) {
	app := newApp()
	counter := 0
	var seenInUpdate, seenInPostUpdate int

	app.UseSystem(System(func(cmd *Commands) {
		cmd.Defer("increment", func(app *App) error {
			counter++
			return nil
		})
		seenInUpdate = counter
	}).InStage(Update))
	app.UseSystem(System(func(cmd *Commands) {
		seenInPostUpdate = counter
	}).InStage(PostUpdate))

	require.NoError(t, app.Step())
	assert.Equal(t, 0, seenInUpdate)
	assert.Equal(t, 1, seenInPostUpdate)
	assert.Empty(t, app.pending)
}

func TestApp_FailStopsRun(t *testing.T) {
	app := newApp()
	boom := errors.New("boom")
	renders := 0

	app.UseSystem(System(func(cmd *Commands) {
		if cmd.app.Frame() == 3 {
			cmd.Fail(boom)
		}
	}).InStage(Update))
	app.UseSystem(System(func(cmd *Commands) {
		renders++
	}).InStage(Render))

	err := app.Run()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(3), app.Frame())
	assert.Equal(t, 2, renders, "the failing frame must not reach Render")
	assert.True(t, app.Stopped())
	assert.ErrorIs(t, app.Step(), boom)
}

func TestApp_FailingCommandFailsApp(t *testing.T) {
	app := newApp()
	boom := errors.New("bad command")

	app.UseSystem(System(func(cmd *Commands) {
		cmd.Defer("broken", func(app *App) error { return boom })
	}).InStage(Update))

	err := app.Step()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestApp_QuitEndsRun(t *testing.T) {
	app := newApp()
	app.UseSystem(System(func(cmd *Commands) {
		if cmd.app.Frame() == 5 {
			cmd.Quit()
		}
	}).InStage(Finale))

	require.NoError(t, app.Run())
	assert.Equal(t, uint64(5), app.Frame())
}
