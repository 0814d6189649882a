package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"ministryhub/cmd/buildCFG"
	"ministryhub/internal/api/api"
	"ministryhub/internal/auth"
	rabbitReader "ministryhub/internal/consumerWorker"
	"ministryhub/internal/importer"
	"ministryhub/internal/mailer"
	"ministryhub/internal/notify"
	"ministryhub/internal/rabbit"
	"ministryhub/internal/repo"
	"ministryhub/internal/service"
	"ministryhub/internal/youtube"
)

var version = "dev"

type options struct {
	configPath    string
	envFile       string
	migrationsDir string
}

func main() {
	zlog.Init()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("command failed")
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "ministryhub",
		Short:         "Ministry website backend: catalog, registrations, settings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file loaded before the config")
	root.PersistentFlags().StringVar(&opts.migrationsDir, "migrations", "migrations/postgres", "directory with *.up.sql/*.down.sql files")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newImportCmd(opts),
		newSeedCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the build version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}

// app holds what every subcommand needs: the loaded config and an open store.
type app struct {
	cfg  buildCFG.Getter
	log  *zerolog.Logger
	db   *dbpg.DB
	repo repo.Repository
}

func bootstrap(opts *options) (*app, error) {
	log := zlog.Logger

	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", opts.envFile, err)
	}

	cfg := config.New()
	if err := cfg.Load(opts.configPath, "", ""); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		return nil, fmt.Errorf("failed to build DB config: %w", err)
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		_ = db.Master.Close()
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}
	log.Info().Msg("Database connected successfully")

	return &app{cfg: cfg, log: &log, db: db, repo: repository}, nil
}

func (a *app) Close() {
	if err := a.db.Master.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close database")
	}
}

func (a *app) buildImporter() (*importer.Importer, []string, error) {
	yc := buildCFG.BuildYouTubeConfig(a.cfg, a.log)

	clientOpts := []youtube.Option{youtube.WithTimeout(yc.Timeout)}
	if yc.BaseURL != "" {
		clientOpts = append(clientOpts, youtube.WithBaseURL(yc.BaseURL))
	}
	client := youtube.NewClient(yc.APIKey, clientOpts...)

	categorizer := importer.NewDefaultCategorizer()
	if yc.CategoryRules != "" {
		c, err := importer.LoadCategorizer(yc.CategoryRules)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load category rules: %w", err)
		}
		categorizer = c
	}

	return importer.New(client, categorizer, yc.MaxPerQuery, a.log), yc.Queries, nil
}

func newServeCmd(opts *options) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate {
				if err := a.repo.MigrateUp(opts.migrationsDir); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply up migrations before serving")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	log := a.log
	serverCfg := buildCFG.BuildServerConfig(a.cfg, log)

	authManager, err := auth.NewManager(buildCFG.BuildAdminConfig(a.cfg, log), a.repo)
	if err != nil {
		return err
	}

	imp, phrases, err := a.buildImporter()
	if err != nil {
		return err
	}

	mail := mailer.New(buildCFG.BuildMailConfig(a.cfg, log), log)

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var (
		dispatcher *notify.Dispatcher
		reader     *rabbitReader.Reader
	)
	switch buildCFG.BuildNotifyTransport(a.cfg, log) {
	case notify.TransportRabbitMQ:
		rabbitCfg, err := buildCFG.BuildRabbitConfig(a.cfg, log)
		if err != nil {
			return fmt.Errorf("failed to load RabbitMQ config: %w", err)
		}
		rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer rmq.Close()

		dispatcher = notify.NewQueued(mail, rmq, log)
		reader = rabbitReader.NewReader(rmq, dispatcher.Deliver)
		reader.Start(workerCtx)
	default:
		dispatcher = notify.NewDirect(mail, log)
	}
	log.Info().Str("transport", dispatcher.Transport()).Msg("registration notifications ready")

	serviceInstance := service.NewService(a.repo, log, dispatcher, imp, authManager, service.Options{
		Phrases:      phrases,
		CookieSecure: serverCfg.CookieSecure,
	})
	router := api.NewRouters(&api.Routers{
		Service:     serviceInstance,
		Sessions:    authManager,
		StaticDir:   serverCfg.StaticDir,
		CORSOrigins: serverCfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + serverCfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	var runErr error
	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case runErr = <-serverErrChan:
		log.Error().Err(runErr).Msg("Server error")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}

	log.Info().Msg("Shutdown complete")
	return runErr
}

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every *.up.sql file in order",
			RunE: func(*cobra.Command, []string) error {
				a, err := bootstrap(opts)
				if err != nil {
					return err
				}
				defer a.Close()
				return a.repo.MigrateUp(opts.migrationsDir)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Apply every *.down.sql file in reverse order",
			RunE: func(*cobra.Command, []string) error {
				a, err := bootstrap(opts)
				if err != nil {
					return err
				}
				defer a.Close()
				return a.repo.MigrateDown(opts.migrationsDir)
			},
		},
	)
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	var phrases []string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import videos from YouTube into the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			imp, configured, err := a.buildImporter()
			if err != nil {
				return err
			}
			if len(phrases) == 0 {
				phrases = configured
			}

			summary, err := service.ImportVideos(cmd.Context(), a.repo, imp, phrases)
			if err != nil {
				return err
			}
			for _, f := range summary.Failures {
				a.log.Warn().Str("phrase", f.Phrase).Msg(f.Error)
			}
			a.log.Info().Int("added", summary.Added).Int("skipped", summary.Skipped).Msg("import finished")
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&phrases, "query", "q", nil, "search phrase (repeatable); defaults to youtube.queries")
	return cmd
}

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with sample videos and ministries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := service.SeedData(cmd.Context(), a.repo)
			if err != nil {
				return err
			}
			a.log.Info().Int("videos", resp.VideosCreated).Int("settings", resp.SettingsCreated).Msg(resp.Message)
			return nil
		},
	}
}
