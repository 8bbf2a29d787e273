package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BhaveshVarma1/Nirmaan/internal/config"
	"github.com/BhaveshVarma1/Nirmaan/internal/logging"
	"github.com/BhaveshVarma1/Nirmaan/internal/storage"
	"github.com/BhaveshVarma1/Nirmaan/internal/task"
	"github.com/BhaveshVarma1/Nirmaan/internal/template"
)

// app is the wired engine shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	kv        storage.KV
	store     *task.Store
	templates *template.Catalogue
}

func loadConfig(f *rootFlags) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openApp(ctx context.Context, f *rootFlags) (*app, error) {
	cfg, logger, err := loadConfig(f)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(cfg.StorageConfig())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	rec := cfg.RecurrenceOptions()
	rec.Logger = logger.Named("recurrence")
	store := task.NewStore(task.Options{
		Storage:    kv,
		Key:        cfg.Storage.Key,
		Logger:     logger,
		Recurrence: rec,
	})
	if err := store.Load(ctx); err != nil {
		_ = kv.Close()
		return nil, err
	}

	templates, err := template.Load(cfg.Templates.Path)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return &app{cfg: cfg, logger: logger, kv: kv, store: store, templates: templates}, nil
}

// Close releases storage. The store persists each mutation as it happens, so
// nothing is written here.
func (a *app) Close() error {
	err := a.kv.Close()
	_ = a.logger.Sync()
	return err
}

// withApp opens the app, runs fn and closes the app, keeping the first error.
// It never writes the snapshot; commands that change tasks use withStore.
func withApp(ctx context.Context, f *rootFlags, fn func(*app) error) error {
	return runApp(ctx, f, false, fn)
}

// withStore is withApp for commands that mutate the store. After fn succeeds
// the snapshot is flushed once more so a failed write-through surfaces as the
// command's error.
func withStore(ctx context.Context, f *rootFlags, fn func(*app) error) error {
	return runApp(ctx, f, true, fn)
}

func runApp(ctx context.Context, f *rootFlags, flush bool, fn func(*app) error) (err error) {
	a, err := openApp(ctx, f)
	if err != nil {
		return err
	}
	defer func() {
		var ferr error
		if flush && err == nil {
			ferr = a.store.Flush(context.WithoutCancel(ctx))
		}
		if cerr := errors.Join(ferr, a.Close()); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
