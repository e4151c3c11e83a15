package main

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ocireg/registry/config"
	"github.com/ocireg/registry/internal/api"
	"github.com/ocireg/registry/internal/auth"
	"github.com/ocireg/registry/internal/cache"
	"github.com/ocireg/registry/internal/hooks"
	"github.com/ocireg/registry/internal/logx"
	"github.com/ocireg/registry/internal/storage"
	"github.com/ocireg/registry/internal/version"
)

func setupAuth(cfg *config.Config) auth.Provider {
	if cfg.Auth.Mode == "allow-all" {
		return auth.AllowAll{}
	}
	users := make([]auth.StaticUser, 0, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		users = append(users, auth.StaticUser{Username: u.Username, Password: u.Password})
	}
	return auth.NewStaticUserList(users)
}

func setupCache(cfg *config.Config, log *logx.Logger) cache.TagCache {
	if cfg.Cache.Addr == "" {
		return cache.NoopTagCache{}
	}
	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return cache.NewRedisTagCache(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, ttl, log)
}

func setupHooks(ctx context.Context, cfg *config.Config, store storage.Store, log *logx.Logger) hooks.Sink {
	sinks := []hooks.Sink{hooks.NewLoggingSink(log)}

	if cfg.Backup.Provider != "" {
		secrets := config.LoadSecrets()
		backupCfg := hooks.BackupConfig{
			Provider:            cfg.Backup.Provider,
			AWSBucket:           cfg.Backup.AWS.Bucket,
			AWSRegion:           cfg.Backup.AWS.Region,
			AWSAccessKeyID:      secrets.AWSAccessKeyID,
			AWSSecretAccessKey:  secrets.AWSSecretAccessKey,
			GCPBucket:           cfg.Backup.GCP.Bucket,
			GCPCredentialsFile:  cfg.Backup.GCP.CredentialsFile,
			AzureStorageAccount: cfg.Backup.Azure.StorageAccount,
			AzureAccountKey:     secrets.AzureStorageAccountKey,
			AzureContainer:      cfg.Backup.Azure.Container,
		}

		backupSink, err := hooks.NewBackupSink(ctx, backupCfg, store, log)
		if err != nil {
			log.WithFunc().WithError(err).Fatal("failed to initialize backup sink")
		}
		if backupSink != nil {
			sinks = append(sinks, backupSink)
		}
	}

	return hooks.NewMultiHook(sinks...)
}

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	log := logx.New(logx.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Pretty: cfg.Logging.Pretty})

	log.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.Commit,
	}).Info("registry starting")

	tagCache := setupCache(cfg, log)
	store, err := storage.NewFilesystemStore(cfg.Storage.Path, tagCache, log)
	if err != nil {
		log.WithFunc().WithError(err).Fatal("failed to initialize storage")
	}

	authn := setupAuth(cfg)
	sink := setupHooks(context.Background(), cfg, store, log)

	handler := api.NewHandler(store, authn, sink, log)
	app := handler.Router()

	port := cfg.Server.Port
	if port == 0 {
		port = 5000
	}

	addr := ":" + strconv.Itoa(port)
	log.WithFunc().WithField("addr", addr).Info("listening")
	if err := app.Listen(addr); err != nil {
		log.WithFunc().WithError(err).Fatal("HTTP server failed")
	}
}
