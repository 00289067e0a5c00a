package main

import (
	"fmt"
	"os"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/giphy"
	"github.com/pders01/gifr/internal/history"
	"github.com/pders01/gifr/internal/media"
	"github.com/pders01/gifr/internal/scroll"
	"github.com/pders01/gifr/internal/search"
	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/trending"
	"github.com/pders01/gifr/internal/tui"
	"github.com/pders01/gifr/internal/validation"
)

// runtime owns the single instance of every service for one process.
type runtime struct {
	cfg      *config.Config
	store    *storage.Store
	history  *history.Store
	client   *giphy.Client
	trending *trending.Controller
	search   *search.Controller
	scroll   *scroll.Cache
	launcher *media.Launcher
}

func setup(o rootOptions) (*runtime, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	ph := validation.NewPathHandler()

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	switch {
	case level == debuglog.LevelOff:
	case cfg.Log.File == "-":
		debuglog.SetOutput(level, os.Stderr)
	default:
		logPath, err := ph.LogPath(cfg.Log.File)
		if err != nil {
			return nil, fmt.Errorf("invalid log path: %w", err)
		}
		if err := debuglog.Setup(level, logPath); err != nil {
			return nil, err
		}
	}

	dbPath, err := ph.DBPath(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}
	store, err := storage.NewStoreWithTimeout(dbPath, cfg.Database.Timeout)
	if err != nil {
		return nil, err
	}

	if cfg.Giphy.APIKey == "" {
		fmt.Fprintln(os.Stderr, "warning: no Giphy API key configured (set giphy.api_key or GIFR_GIPHY_API_KEY)")
	}

	hist := history.Open(store.Slot(storage.HistorySlotKey))
	client := giphy.NewClient(cfg)

	sc, err := search.NewController(client, hist)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("building history index: %w", err)
	}

	debuglog.WithFields(map[string]interface{}{
		"db":      dbPath,
		"api_url": cfg.Giphy.APIURL,
		"history": hist.Len(),
	}).Infof("gifr started")

	return &runtime{
		cfg:      cfg,
		store:    store,
		history:  hist,
		client:   client,
		trending: trending.NewController(client),
		search:   sc,
		scroll:   scroll.NewCache(),
		launcher: media.NewLauncher(cfg),
	}, nil
}

func (rt *runtime) services() tui.Services {
	return tui.Services{
		Trending: rt.trending,
		Search:   rt.search,
		Scroll:   rt.scroll,
		Launcher: rt.launcher,
	}
}

func (rt *runtime) Close() {
	if err := rt.search.Close(); err != nil {
		debuglog.Warnf("closing history index: %v", err)
	}
	if err := rt.store.Close(); err != nil {
		debuglog.Warnf("closing database: %v", err)
	}
	_ = debuglog.Close()
}
