package patcher

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"unicode/utf8"

	"github.com/jgivc/packfix/internal/common"
	"github.com/jgivc/packfix/internal/config"
	"github.com/jgivc/packfix/internal/entity"
	"github.com/jgivc/packfix/internal/util"
	"github.com/spf13/afero"
)

const (
	serviceName = "patcher"

	// The one fix this tool exists for. Not configurable.
	needle      = "#missing"
	replacement = "#0"
)

// entryBuf holds one archive entry in memory between read and rewrite.
// The header keeps the original container metadata (compression method,
// timestamps, attributes); sizes and CRC are recomputed on write.
type entryBuf struct {
	header *zip.FileHeader
	data   []byte
}

// Patcher rewrites #missing texture references inside model-definition
// entries and swaps the patched archive into place.
type Patcher struct {
	fs      afero.Fs
	cfg     *config.Config
	backups bool
	log     *slog.Logger
}

func New(cfg *config.Config, backups bool, log *slog.Logger) *Patcher {
	return NewWithFS(afero.NewOsFs(), cfg, backups, log)
}

func NewWithFS(fs afero.Fs, cfg *config.Config, backups bool, log *slog.Logger) *Patcher {
	return &Patcher{
		fs:      fs,
		cfg:     cfg,
		backups: backups,
		log:     log.With(slog.String("service", serviceName)),
	}
}

// Patch reads every entry of the archive into memory, rewrites the
// matching ones and atomically replaces the original file. When nothing
// needs fixing the archive is left completely untouched. Ordering
// guarantee: the backup, if requested, is durably written before the
// original can be removed.
func (p *Patcher) Patch(path string) (*entity.PatchResult, error) {
	entries, res, err := p.readAll(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read archive: %w", err)
	}

	if !res.Modified {
		return res, nil
	}

	if p.backups {
		if err := p.backup(path); err != nil {
			return nil, fmt.Errorf("cannot create backup: %w", err)
		}
	}

	if err := p.replace(path, entries); err != nil {
		return nil, err
	}

	p.log.Info("Archive patched", slog.String("path", path), slog.Int("fixed", res.Fixed))

	return res, nil
}

func (p *Patcher) readAll(path string) ([]entryBuf, *entity.PatchResult, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", common.ErrNotAnArchive, err)
	}

	res := &entity.PatchResult{}
	entries := make([]entryBuf, 0, len(r.File))

	for _, zf := range r.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open entry %s: %w", zf.Name, err)
		}

		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read entry %s: %w", zf.Name, err)
		}

		if p.cfg.Model.Target(zf.Name) {
			data = p.fix(zf.Name, data, res)
		}

		header := zf.FileHeader
		entries = append(entries, entryBuf{header: &header, data: data})
	}

	return entries, res, nil
}

// fix rewrites every #missing occurrence in a target entry. An entry
// that does not decode as UTF-8 is passed through untouched so that one
// malformed file cannot block fixing the rest; it is logged because
// silent skipping could mask corrupt upstream data.
func (p *Patcher) fix(name string, data []byte, res *entity.PatchResult) []byte {
	if !utf8.Valid(data) {
		p.log.Warn("Target entry is not valid UTF-8, passing through", slog.String("entry", name))

		return data
	}

	if !bytes.Contains(data, []byte(needle)) {
		return data
	}

	res.Modified = true
	res.Fixed++

	return bytes.ReplaceAll(data, []byte(needle), []byte(replacement))
}

// backup copies the original archive to its backup name, once. An
// existing backup is never overwritten: the first one keeps the true
// original across repeated runs.
func (p *Patcher) backup(path string) error {
	dir, name := filepath.Split(path)
	backupPath := filepath.Join(dir, p.cfg.Patcher.BackupPrefix+name)

	exists, err := afero.Exists(p.fs, backupPath)
	if err != nil {
		return err
	}
	if exists {
		p.log.Info("Backup already exists, keeping it", slog.String("path", backupPath))

		return nil
	}

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return err
	}

	if err := p.writeDurable(backupPath, data); err != nil {
		return fmt.Errorf("%w: %s", common.ErrBackupNotWritten, err)
	}

	copied, err := afero.ReadFile(p.fs, backupPath)
	if err != nil || util.ContentID(copied) != util.ContentID(data) {
		return fmt.Errorf("%w: backup verification failed for %s", common.ErrBackupNotWritten, backupPath)
	}

	p.log.Info("Backup created", slog.String("path", backupPath))

	return nil
}

func (p *Patcher) writeDurable(path string, data []byte) error {
	f, err := p.fs.Create(path)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()

		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

// replace builds the patched archive next to the original and swaps it
// into place. The swap is a single rename where the filesystem allows
// clobbering the destination; on filesystems that refuse (afero's
// MemMapFs among them) it falls back to remove-then-rename. In the
// fallback, a failure strictly between the remove and the rename leaves
// the temp file on disk: at that point it is the only copy of the data.
func (p *Patcher) replace(path string, entries []entryBuf) error {
	tmpPath := path + p.cfg.Patcher.TempSuffix

	if err := p.writeArchive(tmpPath, entries); err != nil {
		p.discard(tmpPath)

		return fmt.Errorf("cannot write temp archive: %w", err)
	}

	err := p.fs.Rename(tmpPath, path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, afero.ErrDestinationExists) {
		p.discard(tmpPath)

		return fmt.Errorf("cannot replace archive: %w", err)
	}

	if err := p.fs.Remove(path); err != nil {
		p.discard(tmpPath)

		return fmt.Errorf("cannot remove original archive: %w", err)
	}

	if err := p.fs.Rename(tmpPath, path); err != nil {
		p.log.Error("Replace failed after original was removed, temp file kept for manual recovery",
			slog.String("temp", tmpPath), slog.Any("error", err))

		return fmt.Errorf("cannot move %s into place: %w", tmpPath, err)
	}

	return nil
}

// writeArchive re-emits every entry in original order, preserving each
// entry's compression method and metadata from its header.
func (p *Patcher) writeArchive(path string, entries []entryBuf) error {
	f, err := p.fs.Create(path)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)
	for i := range entries {
		w, err := zw.CreateHeader(entries[i].header)
		if err != nil {
			zw.Close()
			f.Close()

			return fmt.Errorf("cannot write header for %s: %w", entries[i].header.Name, err)
		}

		if _, err := w.Write(entries[i].data); err != nil {
			zw.Close()
			f.Close()

			return fmt.Errorf("cannot write entry %s: %w", entries[i].header.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()

		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

func (p *Patcher) discard(tmpPath string) {
	if err := p.fs.Remove(tmpPath); err != nil && !errors.Is(err, afero.ErrFileNotFound) {
		p.log.Warn("Cannot remove temp file", slog.String("path", tmpPath), slog.Any("error", err))
	}
}
