package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"freemusic/internal/config"
	"freemusic/internal/repository/sqlite"
	"freemusic/internal/service"
	"freemusic/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	app := &cli.Command{
		Name:  "freemusic",
		Usage: "local music catalog maintenance",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create missing tables and columns",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					env, err := buildEnv(ctx, logger, false)
					if err != nil {
						return err
					}
					defer env.close()
					return env.library.Init(ctx)
				},
			},
			{
				Name:  "sweep",
				Usage: "Delete audio blobs not referenced by any track",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					env, err := buildEnv(ctx, logger, true)
					if err != nil {
						return err
					}
					defer env.close()
					if err := env.library.Init(ctx); err != nil {
						return err
					}
					return env.library.ReconcileBlobs(ctx)
				},
			},
			{
				Name:      "promote",
				Usage:     "Grant the admin flag to an account",
				ArgsUsage: "<login>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return setAdmin(ctx, logger, cmd.Args().First(), true)
				},
			},
			{
				Name:      "demote",
				Usage:     "Revoke the admin flag from an account",
				ArgsUsage: "<login>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return setAdmin(ctx, logger, cmd.Args().First(), false)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("freemusic: %v", err)
	}
}

type env struct {
	library *service.Library
	close   func()
}

func buildEnv(ctx context.Context, logger *logrus.Logger, withStorage bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var blobs storage.Service
	if withStorage {
		blobs, err = buildStorage(ctx, cfg, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("setup storage: %w", err)
		}
	}

	library := service.NewLibrary(service.Config{
		DB:      db,
		Users:   sqlite.NewUserRepository(db),
		Artists: sqlite.NewArtistRepository(db),
		Albums:  sqlite.NewAlbumRepository(db),
		Tracks:  sqlite.NewTrackRepository(db),
		Genres:  sqlite.NewGenreRepository(db),
		Pending: sqlite.NewPendingBlobRepository(db),
		Blobs:   blobs,
		Logger:  logger,
	})

	return &env{
		library: library,
		close:   func() { db.Close() },
	}, nil
}

func setAdmin(ctx context.Context, logger *logrus.Logger, login string, isAdmin bool) error {
	if login == "" {
		return fmt.Errorf("login argument is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	users := sqlite.NewUserRepository(db)
	if err := users.Init(ctx); err != nil {
		return err
	}
	if err := users.SetAdmin(ctx, login, isAdmin); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"login": login, "admin": isAdmin}).Info("admin flag updated")
	return nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix), nil
}
