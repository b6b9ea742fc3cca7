package cli

import (
	"context"
	"fmt"

	"github.com/justyntemme/skiff/internal/app"
	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/backend/cloud"
	"github.com/justyntemme/skiff/internal/backend/remote"
	"github.com/justyntemme/skiff/internal/config"
	"github.com/justyntemme/skiff/internal/log"
	"github.com/justyntemme/skiff/internal/safego"
	"github.com/justyntemme/skiff/internal/store"
	"github.com/justyntemme/skiff/internal/view"
)

// cloudProviders builds the configured read-only cloud providers.
func cloudProviders(ctx context.Context, cfg config.Config) ([]backend.CloudProvider, error) {
	s3cfg := cfg.Cloud.S3
	if !s3cfg.Enabled {
		return nil, nil
	}
	p, err := cloud.NewS3(ctx, cloud.Options{
		Region:          s3cfg.Region,
		Endpoint:        s3cfg.Endpoint,
		Profile:         s3cfg.Profile,
		UsePathStyle:    s3cfg.UsePathStyle,
		AccessKeyID:     s3cfg.AccessKeyID,
		SecretAccessKey: s3cfg.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}
	return []backend.CloudProvider{p}, nil
}

func backendOptions(cfg config.Config, settings backend.SettingsStore, providers []backend.CloudProvider) backend.Options {
	return backend.Options{
		StartPath:     cfg.Backend.StartPath,
		SearchDepth:   cfg.Backend.SearchDepth,
		UseTrash:      cfg.Behavior.UseTrash,
		WatchDebounce: cfg.Backend.WatchDebounce(),
		Settings:      settings,
		Providers:     providers,
	}
}

func appOptions(cfg config.Config) app.Options {
	mode, _ := view.ParseMode(cfg.UI.ViewMode)
	return app.Options{
		Mode:           mode,
		ShowHidden:     cfg.UI.ShowHidden,
		ConfirmDelete:  cfg.Behavior.ConfirmDelete,
		ConfirmExtract: cfg.Behavior.ConfirmExtract,
		ToastTTL:       cfg.UI.ToastTTL(),
	}
}

// openGateway connects to skiffd in remote mode, or starts an in-process
// backend over the sqlite settings store.
func openGateway(ctx context.Context, cfg config.Config) (backend.Gateway, func(), error) {
	if cfg.Backend.Mode == "remote" {
		c, err := remote.Dial(ctx, cfg.Backend.Address, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("connect %s: %w", cfg.Backend.Address, err)
		}
		log.Info("connected to %s", cfg.Backend.Address)
		return c, func() { c.Close() }, nil
	}

	db := store.NewDB()
	if err := db.Open(cfg.DBPath()); err != nil {
		return nil, nil, fmt.Errorf("open settings store: %w", err)
	}
	safego.Go(db.Start)

	providers, err := cloudProviders(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	sys := backend.NewSystem(backendOptions(cfg, db, providers))
	safego.Go(sys.Start)
	return sys, func() {
		sys.Close()
		db.Close()
	}, nil
}
