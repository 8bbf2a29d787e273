// Package config loads nirmaan configuration from YAML and the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/BhaveshVarma1/Nirmaan/internal/recurrence"
	"github.com/BhaveshVarma1/Nirmaan/internal/storage"
)

type Config struct {
	Server     Server     `koanf:"server" yaml:"server"`
	Storage    Storage    `koanf:"storage" yaml:"storage"`
	Recurrence Recurrence `koanf:"recurrence" yaml:"recurrence"`
	Log        Log        `koanf:"log" yaml:"log"`
	Templates  Templates  `koanf:"templates" yaml:"templates"`
}

type Server struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

type Storage struct {
	// Backend is one of file, sqlite or memory.
	Backend string `koanf:"backend" yaml:"backend"`
	DataDir string `koanf:"data_dir" yaml:"data_dir"`
	Key     string `koanf:"key" yaml:"key"`
}

type Recurrence struct {
	DefaultHorizonMonths int `koanf:"default_horizon_months" yaml:"default_horizon_months"`
	MaxInstances         int `koanf:"max_instances" yaml:"max_instances"`
}

type Log struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

type Templates struct {
	Path string `koanf:"path" yaml:"path"`
}

func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Storage: Storage{
			Backend: storage.BackendFile,
			DataDir: "data",
			Key:     storage.SnapshotKey,
		},
		Recurrence: Recurrence{
			DefaultHorizonMonths: recurrence.DefaultHorizonMonths,
			MaxInstances:         recurrence.DefaultMaxInstances,
		},
		Log: Log{Level: "info", Format: "json"},
	}
}

// ApplyDefaults fills zero values from Default.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = d.Storage.DataDir
	}
	if c.Storage.Key == "" {
		c.Storage.Key = d.Storage.Key
	}
	if c.Recurrence.DefaultHorizonMonths == 0 {
		c.Recurrence.DefaultHorizonMonths = d.Recurrence.DefaultHorizonMonths
	}
	if c.Recurrence.MaxInstances == 0 {
		c.Recurrence.MaxInstances = d.Recurrence.MaxInstances
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Recurrence.DefaultHorizonMonths < 1 {
		return fmt.Errorf("recurrence.default_horizon_months: must be at least 1")
	}
	if c.Recurrence.MaxInstances < 1 {
		return fmt.Errorf("recurrence.max_instances: must be at least 1")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format: must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// StorageConfig converts the storage section for storage.Open.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{Backend: strings.ToLower(c.Storage.Backend), DataDir: c.Storage.DataDir}
}

func (c *Config) RecurrenceOptions() recurrence.Options {
	return recurrence.Options{
		HorizonMonths: c.Recurrence.DefaultHorizonMonths,
		MaxInstances:  c.Recurrence.MaxInstances,
	}
}
