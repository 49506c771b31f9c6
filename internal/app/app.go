package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jgivc/packfix/internal/adapter/termui"
	"github.com/jgivc/packfix/internal/common"
	"github.com/jgivc/packfix/internal/config"
	"github.com/jgivc/packfix/internal/service/batch"
	"github.com/jgivc/packfix/internal/service/patcher"
	"github.com/jgivc/packfix/internal/service/scanner"
	"github.com/spf13/afero"
)

// Options are the command line overrides on top of the config file.
type Options struct {
	ConfigPath string
	WorkDir    string
	NoBackup   bool
	AssumeYes  bool
	Plain      bool
}

type App struct {
	opts Options
	cfg  *config.Config
	log  *slog.Logger
}

func New(opts Options) *App {
	return &App{
		opts: opts,
	}
}

// Run executes one full batch and returns the process exit code: 0 on a
// clean run, 1 when at least one archive failed. Errors never abort the
// batch midway; they end up in the summary.
func (a *App) Run() int {
	a.cfg = config.MustLoad(a.opts.ConfigPath)
	if a.opts.WorkDir != "" {
		a.cfg.WorkDir = a.opts.WorkDir
	}

	logFile := a.setupLogger()
	if logFile != nil {
		defer logFile.Close()
	}

	caps := termui.DetectCaps()
	if a.opts.Plain {
		caps = termui.Caps{}
	}

	ui := termui.NewRenderer(os.Stdout, caps, a.cfg)
	ui.Banner(a.cfg.WorkDir)

	backups := true
	prompter := termui.NewPrompter(os.Stdin, os.Stdout, caps)
	switch {
	case a.opts.NoBackup:
		backups = false
	case !a.opts.AssumeYes:
		backups = prompter.ConfirmBackups()
	}

	if !a.opts.AssumeYes {
		prompter.Pause("Press Enter to start processing...")
	}

	fs := afero.NewOsFs()
	drv := batch.New(fs, a.cfg,
		scanner.NewWithFS(fs, a.cfg, a.log),
		patcher.NewWithFS(fs, a.cfg, backups, a.log),
		ui, a.log)

	ui.HideCursor()
	sum, err := drv.Run(a.cfg.WorkDir)
	ui.ShowCursor()

	if err != nil {
		if errors.Is(err, common.ErrNoArchivesFound) {
			fmt.Printf("No zip files found in %s\n", a.cfg.WorkDir)

			return 0
		}

		a.log.Error("Batch aborted", slog.Any("error", err))
		fmt.Printf("Cannot process %s: %s\n", a.cfg.WorkDir, err)

		return 1
	}

	ui.Summary(sum, backups)
	ui.Done()

	if !a.opts.AssumeYes {
		prompter.Pause("Press Enter to exit...")
	}

	if len(sum.Failed) > 0 {
		return 1
	}

	return 0
}

// setupLogger routes slog away from stdout, which belongs to the frame
// renderer. Without a configured log file everything is discarded.
func (a *App) setupLogger() *os.File {
	lo := &slog.HandlerOptions{}
	switch a.cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}

	var (
		w    io.Writer = io.Discard
		file *os.File
	)

	if a.cfg.LogFile != "" {
		f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("cannot open log file %s: %w", a.cfg.LogFile, err))
		}
		w = f
		file = f
	}

	a.log = slog.New(slog.NewTextHandler(w, lo))

	return file
}
