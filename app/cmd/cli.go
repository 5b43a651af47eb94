package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharikirostov/balloon-store/app/configs"
	"github.com/sharikirostov/balloon-store/app/db/seeders"
	"github.com/sharikirostov/balloon-store/app/models/migrations"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/repositories/inmemory"
	"github.com/sharikirostov/balloon-store/app/routes"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func RunCli() {
	env := configs.LoadENV
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()

	cmd := &cli.Command{
		Name:   "balloon-store",
		Usage:  "Balloon storefront API and catalog tools",
		Action: func(ctx context.Context, c *cli.Command) error { return serve(ctx, env) },
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP API",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Info("migration complete")
					return nil
				},
			},
			{
				Name:  "import",
				Usage: "Import scraped products from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to the products JSON", Required: true},
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "merge, skip-existing or reset", Value: string(services.ImportMerge)},
					&cli.BoolFlag{Name: "dry-run", Usage: "normalize into memory without touching the database"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					mode, err := services.ParseImportMode(c.String("mode"))
					if err != nil {
						return err
					}

					var repos repositories.Set
					if c.Bool("dry-run") {
						repos = inmemory.NewStore().Set()
					} else {
						db, err := configs.OpenConnection(env)
						if err != nil {
							return err
						}
						repos = repositories.NewSet(db)
					}

					app, err := newContainer(env, repos)
					if err != nil {
						return err
					}
					result, err := app.Import.ImportFile(ctx, c.String("file"), mode)
					if err != nil {
						return err
					}
					fmt.Printf("Imported: %d\nSkipped: %d\nPrice adjusted: %d\nShape preserved: %d\n",
						result.Imported, result.Skipped, result.PriceAdjusted, result.ShapePreserved)
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "Write the catalog to an XLSX workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Value: "catalog.xlsx"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := databaseContainer(env)
					if err != nil {
						return err
					}
					f, err := os.Create(c.String("out"))
					if err != nil {
						return err
					}
					if err := app.Export.WriteCatalog(ctx, f); err != nil {
						_ = f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return err
					}
					log.Info("catalog exported", zap.String("file", c.String("out")))
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create an admin account, replacing one with the same email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name", Value: "Администратор"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := databaseContainer(env)
					if err != nil {
						return err
					}
					admin, err := app.Auth.ResetAdmin(ctx, services.RegisterInput{
						Email:    c.String("email"),
						Password: c.String("password"),
						Name:     c.String("name"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("Admin %s (%s) is ready\n", admin.Email, admin.ID)
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Create the starter category tree and, with ADMIN_EMAIL/ADMIN_PASSWORD set, an admin",
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := databaseContainer(env)
					if err != nil {
						return err
					}
					return seeders.DBSeed(ctx, app, seeders.AdminSeed{
						Email:    os.Getenv("ADMIN_EMAIL"),
						Password: os.Getenv("ADMIN_PASSWORD"),
						Name:     os.Getenv("ADMIN_NAME"),
					})
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate cart cookie signing and encryption keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "also write the keys to this file (must not exist)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					keys, err := configs.GenerateSessionKeys()
					if err != nil {
						return err
					}
					if err := keys.WriteEnv(os.Stdout); err != nil {
						return err
					}
					if out := c.String("out"); out != "" {
						if err := keys.SaveEnvFile(out); err != nil {
							return err
						}
						log.Info("session keys written", zap.String("file", out))
					}
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal("command failed", zap.Error(err))
	}
}

func newContainer(env configs.ENV, repos repositories.Set) (*services.Container, error) {
	rules, err := configs.LoadPricingRules(env.PricingRulesFile)
	if err != nil {
		return nil, err
	}
	notifier := services.NewTelegramNotifier(env.TelegramBotToken, env.TelegramChatID)
	return services.NewContainer(repos, env, rules, notifier), nil
}

func databaseContainer(env configs.ENV) (*services.Container, error) {
	db, err := configs.OpenConnection(env)
	if err != nil {
		return nil, err
	}
	return newContainer(env, repositories.NewSet(db))
}

func serve(ctx context.Context, env configs.ENV) error {
	log := logger.GetLogger()
	metrics.InitMetrics(env.MetricsPrefix)

	if env.AdminJWTSecret == "" {
		return errors.New("ADMIN_JWT_SECRET is not set")
	}
	keys, err := configs.LoadSessionKeysFromEnv(env)
	if err != nil {
		return err
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		return err
	}
	defer closeDB(db)

	app, err := newContainer(env, repositories.NewSet(db))
	if err != nil {
		return err
	}
	if env.TelegramBotToken == "" || env.TelegramChatID == "" {
		log.Warn("telegram credentials are not set, order and contact notifications will fail")
	}

	server := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           routes.NewRouter(app, env, keys),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr), zap.String("env", env.APP_ENV))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
