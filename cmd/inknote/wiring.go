package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"inknote/internal/ai"
	"inknote/internal/blobstore"
	"inknote/internal/config"
	"inknote/internal/export"
	"inknote/internal/intake"
	"inknote/internal/persist"
)

func openStore(ctx context.Context, cfg config.Config) (blobstore.Store, error) {
	store, err := blobstore.Open(ctx, blobstore.Options{
		Driver:      cfg.StoreDriver,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		GitDir:      cfg.GitDir,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return store, nil
}

func newPersister(store blobstore.Store, cfg config.Config, log zerolog.Logger) *persist.Adapter {
	return persist.New(store, cfg.DocumentKey, cfg.PersistDelay, log)
}

func newGateway(cfg config.Config, log zerolog.Logger) *ai.Gateway {
	completer := ai.NewCompleter(ai.OpenAIConfig{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	})
	if cfg.AIAPIKey == "" {
		log.Warn().Msg("no AI API key configured, refine and summarize keep text unchanged")
	}
	return ai.NewGateway(completer, log)
}

func newClipboard(cfg config.Config) intake.Clipboard {
	switch cfg.Clipboard {
	case "none", "off", "disabled":
		return intake.StaticClipboard{Err: intake.ErrClipboardDenied}
	default:
		return intake.SystemClipboard{}
	}
}

func newExporter(ctx context.Context, cfg config.Config, log zerolog.Logger) (*export.Service, error) {
	capturer := export.Chrome{ExecPath: cfg.ChromePath, Timeout: cfg.ExportTimeout}
	if cfg.S3Endpoint == "" {
		return export.NewService(capturer, nil, log), nil
	}

	sink, err := export.NewS3Sink(export.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return nil, err
	}
	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sink.EnsureBucket(bucketCtx); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("could not verify export bucket")
	}
	return export.NewService(capturer, sink, log), nil
}
