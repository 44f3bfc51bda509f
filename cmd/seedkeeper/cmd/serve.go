package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/seedkeeper/internal/catalog"
	"github.com/solatis/seedkeeper/internal/core/api"
	"github.com/solatis/seedkeeper/internal/core/auth"
	"github.com/solatis/seedkeeper/internal/core/config"
	"github.com/solatis/seedkeeper/internal/core/db"
	"github.com/solatis/seedkeeper/internal/core/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start gRPC chest rule service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	serveCmd.Flags().Int("port", 50061, "gRPC server port")
	commandBindings["serve"] = config.FlagBindings{
		"server.host": "host",
		"server.port": "port",
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	database, queries, err := openDatabase(true)
	if err != nil {
		return err
	}
	defer database.Close()

	secrets, err := config.HMACSecrets()
	if err != nil {
		return fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no HMAC secrets configured (set %s environment variable)", config.EnvHMACSecret)
	}

	authenticator := auth.NewAuthenticator(secrets, queries, logger)
	cat := catalog.Default()

	service, err := api.NewChestService(cat, db.NewPresetRepository(queries, cat), logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg.Server, service, authenticator, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting seedkeeper chest service",
		zap.String("version", Version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Int("secrets", len(secrets)),
	)
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("shutting down gracefully", zap.String("signal", sig.String()))
		return grpcServer.Shutdown(ctx)
	}
}
