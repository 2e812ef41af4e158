// Package main provides the entry point for the preflight CLI.
//
// INITIALIZATION FLOW:
// 1. Command structure setup
// 2. Global and command flag configuration
// 3. Handler assignment linking commands to the validation engine
// 4. Settings loading and validation before any command runs
// 5. Execution with a signal-aware context; any failure exits non-zero
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/concave-dev/preflight/cmd/preflight/commands"
	"github.com/concave-dev/preflight/cmd/preflight/config"
	"github.com/concave-dev/preflight/cmd/preflight/handlers"
	pconfig "github.com/concave-dev/preflight/internal/config"
)

func init() {
	rootCmd := commands.RootCmd

	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	commands.SetupCommands()

	commands.SetupGlobalFlags(rootCmd, &config.Global.SettingsFile, &config.Global.LogLevel,
		&config.Global.LogFile, &config.Global.Output, &config.Global.Profile, &config.Global.Verbose, &config.Global.Timeout,
		&config.Global.Parallelism, &config.Global.CollectAll,
		pconfig.DefaultLogLevel, pconfig.DefaultProfile, pconfig.DefaultTimeout, pconfig.DefaultParallelism)

	validateCmd, defaultsCmd := commands.GetValidateCommands()
	commands.SetupValidateFlags(validateCmd, defaultsCmd, &config.Document.ConfigFile, &config.Document.SkipTests)

	renderCmd, versionCmd := commands.GetRenderCommands()
	commands.SetupRenderFlags(renderCmd, &config.Document.ConfigFile, &config.Render.Templates,
		&config.Render.OutDir, &config.Document.SkipTests)

	serveCmd := commands.GetServeCommand()
	commands.SetupServeFlags(serveCmd, &config.Serve.Bind, config.DefaultServeBind)

	validateCmd.RunE = handlers.HandleValidate
	defaultsCmd.RunE = handlers.HandleDefaults
	renderCmd.RunE = handlers.HandleRender
	serveCmd.RunE = handlers.HandleServe
	versionCmd.RunE = handlers.HandleVersion
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
