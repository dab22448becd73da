package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/audio"
	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/firestore"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/scores"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// app holds what every command shares: configuration, logger and the
// score stores.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	logFile *os.File
	local   *storage.Store
	remote  *firestore.Client
	board   *scores.Leaderboard
}

// logTarget selects where the logger writes. The TUI owns the terminal
// during play, so interactive commands log to a file.
type logTarget int

const (
	logToStderr logTarget = iota
	logToFile
)

// newApp loads the configuration, applies global flags and opens the stores.
func newApp(target logTarget) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagOffline {
		cfg.Remote.Enabled = false
	}

	a := &app{cfg: cfg}
	if err := a.setupLogger(target); err != nil {
		return nil, err
	}

	a.local, err = storage.Open(cfg.Storage.Path)
	if err != nil {
		a.close()
		return nil, err
	}

	opts := []scores.Option{
		scores.WithRemoteTimeout(cfg.Leaderboard.RemoteTimeout),
		scores.WithLogger(a.logger.With("component", "leaderboard")),
	}
	if cfg.Remote.Enabled {
		remote, err := firestore.New(context.Background(), firestore.Config{
			ProjectID:       cfg.Remote.ProjectID,
			DatabaseID:      cfg.Remote.DatabaseID,
			Collection:      cfg.Remote.Collection,
			CredentialsFile: config.ExpandHome(cfg.Remote.CredentialsFile),
			APIKey:          cfg.Remote.APIKey,
			Endpoint:        cfg.Remote.Endpoint,
			Timeout:         cfg.Remote.Timeout,
			Logger:          a.logger.With("component", "firestore"),
		})
		if err != nil {
			a.logger.Warn("online leaderboard disabled", "err", err)
		} else {
			a.remote = remote
			opts = append(opts, scores.WithRemote(remote))
		}
	}
	a.board = scores.NewLeaderboard(a.local, opts...)

	a.logger.Debug("ready", "db", cfg.Storage.Path, "online", a.board.Online())
	return a, nil
}

func (a *app) setupLogger(target logTarget) error {
	level, err := log.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.cfg.Log.Level, err)
	}

	var w io.Writer = os.Stderr
	if target == logToFile {
		w = io.Discard
		if path := config.ExpandHome(a.cfg.Log.File); path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("cannot create log directory: %w", err)
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("cannot open log file: %w", err)
			}
			a.logFile = f
			w = f
		}
	}

	a.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake",
		Level:           level,
	})
	return nil
}

func (a *app) close() {
	if a.remote != nil {
		if err := a.remote.Close(); err != nil {
			a.logger.Debug("cannot close firestore client", "err", err)
		}
	}
	if a.local != nil {
		if err := a.local.Close(); err != nil {
			a.logger.Warn("cannot close scores database", "err", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// setup builds the TUI session setup for local play.
func (a *app) setup(difficulty, player string, sound bool) tui.Setup {
	rt := core.DefaultConfig()
	rt.Seed = flagSeed
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rt.ScreenW, rt.ScreenH = w, h
	}

	return tui.Setup{
		Config:     a.cfg,
		Difficulty: difficulty,
		Player:     a.localPlayer(player),
		Runtime:    rt,
		Store:      a.board,
		Stats:      a.local,
		Cues:       a.cues(sound),
		Logger:     a.logger,
	}
}

// localPlayer resolves the local identity: flag, then config, then OS user.
func (a *app) localPlayer(name string) tui.Player {
	if name == "" {
		name = a.cfg.Player.Name
	}
	if name == "" {
		name = "player"
		if u, err := user.Current(); err == nil && u.Username != "" {
			name = u.Username
		}
	}

	id := a.cfg.Player.ID
	if id == "" {
		id = "local:" + strings.ToLower(name)
	}
	return tui.Player{ID: id, Name: name}
}

func (a *app) cues(enabled bool) audio.Cues {
	if !enabled || !a.cfg.Sound.Enabled {
		return audio.Nop{}
	}
	p, err := audio.NewPlayer(a.cfg.Sound.Volume)
	if err != nil {
		a.logger.Warn("sound disabled", "err", err)
		return audio.Nop{}
	}
	return p
}
