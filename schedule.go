package cubefield

import (
	"fmt"
	"slices"
)

type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	Render     = Stage{Name: "Render"}
	Finale     = Stage{Name: "Finale"}
)

// DefaultStages is the frame layout every App starts with.
func DefaultStages() []Stage {
	return []Stage{Prelude, PreUpdate, Update, PostUpdate, Render, Finale}
}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

// System wraps a system function for scheduling. Systems default to the Update stage.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageBefore, target: s}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageAfter, target: s}
}

func (app *App) stageIndex(name string) int {
	for i, s := range app.stages {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// UseStage inserts a custom stage relative to an existing one.
func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	stageIdx := app.stageIndex(where.target.Name)
	if -1 == stageIdx {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if -1 != app.stageIndex(stage.Name) {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}

	insertAt := stageIdx
	if stageAfter == where.position {
		insertAt = stageIdx + 1
	}

	app.stages = slices.Insert(app.stages, insertAt, stage)
	app.systems[stage.Name] = make([]systemFn, 0)
	return app
}

// UseSystem appends the system to its stage. Systems of one stage run in registration order.
func (app *App) UseSystem(system systemScheduleBuilder) *App {
	systems, ok := app.systems[system.inStage.Name]
	if !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	validateSystem(system.system)
	app.systems[system.inStage.Name] = append(systems, system.system)
	return app
}
