package serve

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/app"
	"github.com/gonz247/commentgenerator/internal/handlers"
	"github.com/gonz247/commentgenerator/internal/logger"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command, which runs the HTTP API until
// interrupted.
func Command(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), ctx.Config)
		},
	}
}

func run(parent context.Context, config config.Config) error {
	log := logger.New("serve").Function("run")

	application, err := app.NewWithConfig(config)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	server, err := handlers.NewServer(application)
	if err != nil {
		return log.Err("failed to build server", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%d", config.ServerPort)
		log.Info("Starting server", "address", address, "version", config.GeneralVersion)
		errs <- server.Listen(address)
	}()

	select {
	case err := <-errs:
		return log.Err("server stopped", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		return log.Err("failed to shut down server", err)
	}
	return nil
}
