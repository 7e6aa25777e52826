package cubefield

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Logger returns the App logger; never nil.
func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// Quit stops the App after the current frame.
func (cmd *Commands) Quit() {
	cmd.app.Quit()
}

// Fail aborts the current frame and stops the App with err.
func (cmd *Commands) Fail(err error) {
	cmd.app.fail(err)
}

// Defer queues fn to run when the current stage finishes.
func (cmd *Commands) Defer(name string, fn func(app *App) error) {
	cmd.app.pending = append(cmd.app.pending, deferredCommand{name: name, apply: fn})
}
