package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/gekko3d/cubefield"
	"github.com/spf13/cobra"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath string
	headless   bool
	frames     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cfg := cubefield.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:           "cubefield",
		Short:         "Animate a field of cubes moving inside a boundary",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveConfig(cmd, opts, cfg)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			if err := run(cmd.Context(), resolved, opts); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.BoolVar(&opts.headless, "headless", false, "run without a window")
	flags.IntVar(&opts.frames, "frames", 0, "stop after this many frames (0 runs until closed)")
	flags.IntVar(&cfg.Population, "cubes", cfg.Population, "number of cubes")
	flags.Float64Var(&cfg.Boundary, "boundary", cfg.Boundary, "half-extent of the boundary")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "partitions per motion tick")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 seeds from time)")
	flags.IntVar(&cfg.Window.Width, "width", cfg.Window.Width, "window width")
	flags.IntVar(&cfg.Window.Height, "height", cfg.Window.Height, "window height")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flags.Float32Var(&cfg.BoundaryTransition, "transition", cfg.BoundaryTransition, "boundary frame tween in seconds")

	return rootCmd
}

// resolveConfig loads the config file, if any, and applies the flags that were set explicitly.
func resolveConfig(cmd *cobra.Command, opts *options, flagCfg cubefield.Config) (cubefield.Config, error) {
	if opts.configPath == "" {
		return flagCfg, flagCfg.Validate()
	}
	cfg, err := cubefield.LoadConfig(opts.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("cubes") {
		cfg.Population = flagCfg.Population
	}
	if flags.Changed("boundary") {
		cfg.Boundary = flagCfg.Boundary
	}
	if flags.Changed("workers") {
		cfg.Workers = flagCfg.Workers
	}
	if flags.Changed("seed") {
		cfg.Seed = flagCfg.Seed
	}
	if flags.Changed("width") {
		cfg.Window.Width = flagCfg.Window.Width
	}
	if flags.Changed("height") {
		cfg.Window.Height = flagCfg.Window.Height
	}
	if flags.Changed("debug") {
		cfg.Debug = flagCfg.Debug
	}
	if flags.Changed("transition") {
		cfg.BoundaryTransition = flagCfg.BoundaryTransition
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg cubefield.Config, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	builder := cubefield.NewAppBuilder().
		UseModule(cubefield.LoggingModule{Debug: cfg.Debug}).
		UseModule(cubefield.TimeModule{})
	if !opts.headless {
		builder.UseModule(cubefield.ClientModule{Window: cfg.Window})
	}
	builder.
		UseModule(cubefield.CubeFieldModule{Config: cfg}).
		UseModule(cubefield.ControlsModule{})

	app := builder.Build()
	if vp, ok := cubefield.Resource[cubefield.Viewport](app); ok {
		defer vp.Surface.Release()
	}
	if err := app.Err(); err != nil {
		return err
	}

	for frame := 0; opts.frames == 0 || frame < opts.frames; frame++ {
		if ctx.Err() != nil {
			app.Logger().Infof("interrupted after %d frames", app.Frame())
			return nil
		}
		if err := app.Step(); err != nil {
			return err
		}
		if app.Stopped() {
			break
		}
	}
	app.Logger().Infof("stopped after %d frames", app.Frame())
	return nil
}
