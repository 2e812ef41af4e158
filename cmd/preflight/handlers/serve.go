package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/concave-dev/preflight/cmd/preflight/config"
	"github.com/concave-dev/preflight/cmd/preflight/utils"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/server"
	"github.com/concave-dev/preflight/internal/validate"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// HandleServe runs the validation service until the command context ends.
func HandleServe(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}
	defer utils.CleanupLogFile()

	addr, err := validate.ParseBindAddress(config.Serve.Bind)
	if err != nil {
		logging.Error("Invalid bind address '%s': %v", config.Serve.Bind, err)
		return fmt.Errorf("invalid bind address - expected format: host:port (e.g., 127.0.0.1:8008)")
	}

	cfg := server.DefaultConfig()
	cfg.BindAddr = addr.Host
	cfg.BindPort = addr.Port
	cfg.Settings = config.Settings
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	srv := server.NewServer(cfg)
	if err := srv.Start(); err != nil {
		return err
	}

	<-commandContext(cmd).Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
