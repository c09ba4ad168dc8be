package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/config"
	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/pkg"
)

// runtime is what a command needs to touch the store.
type runtime struct {
	DB       *gorm.DB
	Services services.ServiceManager
	Close    func() error
}

// opener builds a runtime. Tests substitute one backed by sqlite.
type opener func(ctx context.Context, verbose bool) (*runtime, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the labctl root command.
func NewRootCommand(open opener) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "labctl",
		Short:         "Operator tooling for the lab reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts, open))
	cmd.AddCommand(NewCreateStaffCommand(opts, open))
	cmd.AddCommand(NewExportReportCommand(opts, open))

	return cmd
}

// openRuntime connects using the same configuration as the server. Events
// are not published from the CLI.
func openRuntime(ctx context.Context, verbose bool) (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}

	var archiver reports.Archiver = reports.NoopArchiver{}
	if cfg.S3.Enabled() {
		if archiver, err = reports.NewS3Archiver(ctx, cfg.S3); err != nil {
			return nil, err
		}
	}

	cm := cache.NewCacheManager(nil)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, CacheManager: cm})
	sm := services.NewServiceManager(services.Dependencies{
		Repo:     repo,
		Cache:    cm,
		Archiver: archiver,
		Logger:   logger,
	}, services.ConfigFromApp(cfg))
	if err := sm.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &runtime{DB: db, Services: sm, Close: repo.Close}, nil
}
