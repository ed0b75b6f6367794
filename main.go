/*
Walker: a box man following a waypoint path over a chequered
terrain, rendered with OpenGL and watched through a free-fly camera.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/platform"
	"github.com/spaghettifunk/walker/engine/renderer/opengl"
	"github.com/spaghettifunk/walker/testbed"
)

const configFile = "assets/config.toml"

func loadConfig() *engine.ApplicationConfig {
	filename := configFile
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}
	config, err := engine.LoadConfig(filename)
	if err == nil {
		return config
	}
	if !os.IsNotExist(errors.Cause(err)) {
		core.LogFatal(err.Error())
	}
	core.LogWarn("config `%s` not found, using defaults", filename)
	return engine.DefaultApplicationConfig()
}

func main() {
	config := loadConfig()
	core.SetLogLevel(config.LogLevel())

	// capture sigterm and other system calls here
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	p, err := platform.New()
	if err != nil {
		core.LogFatal(err.Error())
	}
	backend := opengl.New(
		opengl.WithClearColor(config.ClearColor()),
		opengl.WithCullMode(config.CullMode()),
	)

	wg := testbed.NewWalkerGame(config)
	e, err := engine.New(wg.Game, p, backend)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal(err.Error())
	}

	// run engine
	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
