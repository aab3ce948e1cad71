package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/config"
	"github.com/arlab/arlab/internal/llm"
	"github.com/arlab/arlab/internal/logging"
	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/store"
	"github.com/arlab/arlab/internal/store/pgstore"
	"github.com/arlab/arlab/internal/tutor"
)

// logMode selects where a command's logs go.
type logMode int

const (
	// logQuiet writes warnings and errors to stderr unless log.level says
	// otherwise.
	logQuiet logMode = iota
	// logService writes to stderr at the configured level.
	logService
	// logFile writes next to the database so the terminal UI stays clean.
	logFile
)

// deps is everything a command needs, built once from config and flags.
type deps struct {
	cfg      *config.Config
	logger   *logging.Logger
	catalog  *catalog.Catalog
	progress store.ProgressRepo
	attempts store.AttemptRepo
	events   store.EventRepo
	tracker  *progress.Tracker

	closers []func() error
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB.Driver = config.DriverSQLite
		cfg.DB.Path = p
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.UserID = u
	}
	return cfg, cfg.Validate()
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(cfg.Catalog.Path)
}

// setup loads config, opens the configured store and builds the tracker.
func setup(cmd *cobra.Command, mode logMode) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg}

	d.logger, err = newLogger(cfg, mode)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, func() error { d.logger.Sync(); return nil })

	d.catalog, err = loadCatalog(cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if err := d.openStore(); err != nil {
		d.Close()
		return nil, err
	}

	d.tracker = progress.NewTracker(d.progress, progress.Options{
		Attempts: d.attempts,
		Catalog:  d.catalog,
		Logger:   d.logger,
	})
	return d, nil
}

func (d *deps) openStore() error {
	switch d.cfg.DB.Driver {
	case config.DriverPostgres:
		pg, err := pgstore.Open(d.cfg.DB.DSN)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, pg.Close)
		d.progress, d.attempts, d.events = pg.ProgressRepo(), pg.AttemptRepo(), pg.EventRepo()
		d.logger.Debug("store opened", "driver", config.DriverPostgres)

	default:
		path, err := d.cfg.DBPath()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		d.closers = append(d.closers, st.Close)
		d.progress, d.attempts, d.events = st.ProgressRepo(), st.AttemptRepo(), st.EventRepo()
		d.logger.Debug("store opened", "driver", config.DriverSQLite, "path", path)
	}
	return nil
}

// tutor builds the explanation service. Without a usable LLM configuration
// it falls back to authored explanations.
func (d *deps) tutor(cmd *cobra.Command, announce bool) *tutor.Service {
	var provider llm.Provider
	if llmCfg, ok := d.cfg.LLMConfig(); ok {
		p, err := llm.NewProvider(cmd.Context(), llmCfg, d.events, d.logger)
		if err != nil {
			d.logger.Warn("llm provider unavailable", "error", err)
			if announce {
				fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
				fmt.Fprintln(os.Stderr, "Explanations will use the lesson's own text.")
			}
		} else {
			provider = p
		}
	}
	return tutor.NewService(provider, tutor.DefaultConfig(), d.logger)
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && d.logger != nil {
			d.logger.Warn("close", "error", err)
		}
	}
	d.closers = nil
}

func newLogger(cfg *config.Config, mode logMode) (*logging.Logger, error) {
	opts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if cfg.IsProd() {
		opts.Mode = "prod"
	}

	switch mode {
	case logQuiet:
		if opts.Level == "" {
			opts.Level = "warn"
		}
	case logFile:
		if opts.File == "" {
			if cfg.DB.Driver != config.DriverSQLite {
				return logging.Nop(), nil
			}
			path, err := cfg.DBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve log path: %w", err)
			}
			opts.File = filepath.Join(filepath.Dir(path), "arlab.log")
		}
	}
	return logging.New(opts)
}

// lesson looks up a lesson id from the command line.
func (d *deps) lesson(id string) (catalog.Lesson, error) {
	l, ok := d.catalog.Get(id)
	if !ok {
		return catalog.Lesson{}, fmt.Errorf("lesson %q not found (see 'arlab lessons list')", id)
	}
	return l, nil
}
