package batch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jgivc/packfix/internal/common"
	"github.com/jgivc/packfix/internal/config"
	"github.com/jgivc/packfix/internal/entity"
	"github.com/spf13/afero"
)

const (
	serviceName = "batch"
	archiveExt  = ".zip"

	maxMessageLen = 60
)

// Scanner decides archive eligibility without touching it.
type Scanner interface {
	Eligible(path string) bool
}

// Patcher rewrites one archive in place.
type Patcher interface {
	Patch(path string) (*entity.PatchResult, error)
}

// Frame is everything the reporting collaborator needs to render the
// state of the archive currently being processed.
type Frame struct {
	Index       int
	Total       int
	Archive     entity.Archive
	StatusLines []string
	State       *entity.ProgressState
}

func (f *Frame) push(line string) {
	f.StatusLines = append(f.StatusLines, line)
}

func (f *Frame) amend(line string) {
	if len(f.StatusLines) == 0 {
		f.StatusLines = []string{line}

		return
	}
	f.StatusLines[len(f.StatusLines)-1] = line
}

// Reporter consumes progress frames. The driver does not care how or
// whether they are rendered.
type Reporter interface {
	Frame(f *Frame)
}

// NopReporter discards all frames.
type NopReporter struct{}

func (NopReporter) Frame(*Frame) {}

// Driver walks the working directory and processes every archive in
// listing order, one at a time. A failure in one archive never stops
// the batch.
type Driver struct {
	fs      afero.Fs
	cfg     *config.Config
	scanner Scanner
	patcher Patcher
	rep     Reporter
	log     *slog.Logger
}

func New(fs afero.Fs, cfg *config.Config, scanner Scanner, patcher Patcher, rep Reporter, log *slog.Logger) *Driver {
	if rep == nil {
		rep = NopReporter{}
	}

	return &Driver{
		fs:      fs,
		cfg:     cfg,
		scanner: scanner,
		patcher: patcher,
		rep:     rep,
		log:     log.With(slog.String("service", serviceName)),
	}
}

// Run processes every candidate archive in dir and returns the batch
// summary. It fails only when the directory cannot be listed or holds
// no archives at all.
func (d *Driver) Run(dir string) (*entity.Summary, error) {
	archives, err := d.list(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list directory %s: %w", dir, err)
	}
	if len(archives) == 0 {
		return nil, common.ErrNoArchivesFound
	}

	sum := &entity.Summary{
		RunID:   uuid.NewString(),
		WorkDir: dir,
		Total:   len(archives),
	}
	state := entity.NewProgressState(d.cfg.UI.HistorySize)

	d.log.Info("Batch started", slog.String("run_id", sum.RunID), slog.Int("archives", sum.Total))

	for i, a := range archives {
		out := d.processOne(i+1, sum.Total, a, state)

		switch out.Status {
		case entity.StatusSkipped:
			sum.Skipped = append(sum.Skipped, out)
		case entity.StatusFailed:
			sum.Failed = append(sum.Failed, out)
		default:
			sum.Processed = append(sum.Processed, out)
			sum.TotalFixed += out.Fixed
		}
	}

	d.log.Info("Batch finished",
		slog.String("run_id", sum.RunID),
		slog.Int("processed", len(sum.Processed)),
		slog.Int("skipped", len(sum.Skipped)),
		slog.Int("failed", len(sum.Failed)),
		slog.Int("total_fixed", sum.TotalFixed))

	return sum, nil
}

func (d *Driver) processOne(idx, total int, a entity.Archive, state *entity.ProgressState) entity.Outcome {
	frame := &Frame{Index: idx, Total: total, Archive: a, State: state}
	d.rep.Frame(frame)

	frame.push("Checking for models...")
	d.rep.Frame(frame)

	if !d.scanner.Eligible(a.Path) {
		frame.amend("Checking for models... skipped")
		out := entity.Outcome{Archive: a, Status: entity.StatusSkipped}
		d.finish(frame, out)

		return out
	}

	frame.amend("Checking for models... ok")
	frame.push("Scanning & fixing...")
	d.rep.Frame(frame)

	res, err := d.patcher.Patch(a.Path)

	var out entity.Outcome
	switch {
	case err != nil:
		d.log.Error("Cannot patch archive", slog.String("archive", a.Name), slog.Any("error", err))
		out = entity.Outcome{Archive: a, Status: entity.StatusFailed, Message: shorten(err.Error())}
		frame.amend("Scanning & fixing... error: " + out.Message)
	case !res.Modified:
		out = entity.Outcome{Archive: a, Status: entity.StatusClean}
		frame.amend("Scanning & fixing... no issues")
	default:
		out = entity.Outcome{Archive: a, Status: entity.StatusFixed, Fixed: res.Fixed}
		frame.amend(fmt.Sprintf("Scanning & fixing... fixed %d file(s)", res.Fixed))
		frame.push("Writing fixed ZIP... ok")
		frame.push("Done")
	}

	d.finish(frame, out)

	return out
}

func (d *Driver) finish(frame *Frame, out entity.Outcome) {
	d.rep.Frame(frame)
	frame.State.Push(entity.HistoryItem{Index: frame.Index, Total: frame.Total, Outcome: out})
	d.rep.Frame(frame)
}

// list reads the directory once and keeps plain zip files, excluding
// previously created backups so they are never reprocessed.
func (d *Driver) list(dir string) ([]entity.Archive, error) {
	infos, err := afero.ReadDir(d.fs, dir)
	if err != nil {
		return nil, err
	}

	var archives []entity.Archive
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}

		name := fi.Name()
		if !strings.HasSuffix(name, archiveExt) {
			continue
		}
		if strings.HasPrefix(name, d.cfg.Patcher.BackupPrefix) {
			continue
		}

		archives = append(archives, entity.Archive{Name: name, Path: filepath.Join(dir, name)})
	}

	return archives, nil
}

func shorten(msg string) string {
	if len(msg) <= maxMessageLen {
		return msg
	}

	return msg[:maxMessageLen-3] + "..."
}
