package main

import (
	"context"
	"log/slog"
	"os"

	"userauth/config"
	"userauth/internal/delivery"
	"userauth/internal/delivery/api"
	"userauth/internal/delivery/api/router/handler"
	"userauth/internal/domain/policy"
	"userauth/internal/infra/auth"
	logs "userauth/internal/infra/log"
	"userauth/internal/infra/metrics"
	"userauth/internal/infra/persistence/memory"
	"userauth/internal/infra/persistence/postgres"
	"userauth/internal/infra/pubsub"
	"userauth/internal/usecase/impl"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the account HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.NewFromFile(configFile)
			if err != nil {
				return err
			}

			app := fx.New(appOptions(cfg))
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()

			return nil
		},
	}
}

// appOptions assembles the dependency graph for cfg.
func appOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		injectInfra(cfg),
		injectRepo(cfg),
		injectService(cfg),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	)
}

func injectInfra(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			logs.New,
			context.Background,
		),
		pubsub.Module,
	)
}

func injectRepo(cfg *config.Config) fx.Option {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		return fx.Provide(
			memory.NewStore,
			memory.NewAccountRepository,
			memory.NewTransactionManager,
		)
	}

	return fx.Provide(
		postgres.New,
		postgres.NewAccountRepository,
		postgres.NewTransactionManager,
	)
}

func injectService(cfg *config.Config) fx.Option {
	opts := []fx.Option{
		fx.Provide(
			auth.NewBcryptHasherFromConfig,
			policy.NewValidator,
		),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, fx.Provide(
			metrics.New,
			metrics.NewRecorder,
		))
	}

	return fx.Options(opts...)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewAccountService,
	)
}

func injectHandler() fx.Option {
	return fx.Provide(
		handler.NewAccountHandler,
	)
}

func injectDelivery() fx.Option {
	return fx.Provide(
		fx.Annotate(
			api.NewServer,
			fx.ResultTags(`group:"deliveries"`),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
