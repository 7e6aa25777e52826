package cubefield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageNames(app *App) []string {
	names := make([]string, 0, len(app.stages))
	for _, s := range app.stages {
		names = append(names, s.Name)
	}
	return names
}

func TestUseStage(t *testing.T) {
	app := newApp()
	app.UseStage(Stage{Name: "Physics"}, AfterStage(Update))
	app.UseStage(Stage{Name: "Input"}, BeforeStage(PreUpdate))

	assert.Equal(t,
		[]string{"Prelude", "Input", "PreUpdate", "Update", "Physics", "PostUpdate", "Render", "Finale"},
		stageNames(app))

	ran := false
	app.UseSystem(System(func() { ran = true }).InStage(Stage{Name: "Physics"}))
	require.NoError(t, app.Step())
	assert.True(t, ran)
}

func TestUseStage_Panics(t *testing.T) {
	app := newApp()
	assert.PanicsWithValue(t, "Stage Missing not found", func() {
		app.UseStage(Stage{Name: "Extra"}, AfterStage(Stage{Name: "Missing"}))
	})
	assert.PanicsWithValue(t, "Stage Update already exists", func() {
		app.UseStage(Update, AfterStage(Render))
	})
}

func TestUseSystem_Panics(t *testing.T) {
	app := newApp()
	assert.PanicsWithValue(t, "Stage Missing doesn't exist", func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Missing"}))
	})
	assert.Panics(t, func() {
		app.UseSystem(System(42).InStage(Update))
	})
	assert.Panics(t, func() {
		app.UseSystem(System(func(n int) {}).InStage(Update))
	})
}
