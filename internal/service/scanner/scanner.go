package scanner

import (
	"archive/zip"
	"log/slog"

	"github.com/jgivc/packfix/internal/config"
	"github.com/spf13/afero"
)

const (
	serviceName = "scanner"
)

// Scanner decides whether an archive is worth patching at all. It only
// inspects entry names, never content.
type Scanner struct {
	fs  afero.Fs
	cfg *config.Config
	log *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *Scanner {
	return NewWithFS(afero.NewOsFs(), cfg, log)
}

func NewWithFS(fs afero.Fs, cfg *config.Config, log *slog.Logger) *Scanner {
	return &Scanner{
		fs:  fs,
		cfg: cfg,
		log: log.With(slog.String("service", serviceName)),
	}
}

// Eligible reports whether the archive contains at least one
// model-definition entry. A corrupt or unreadable archive is simply
// ineligible: the batch must continue unattended, so open failures are
// logged and swallowed here.
func (s *Scanner) Eligible(path string) bool {
	f, err := s.fs.Open(path)
	if err != nil {
		s.log.Debug("Cannot open archive", slog.String("path", path), slog.Any("error", err))

		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.log.Debug("Cannot stat archive", slog.String("path", path), slog.Any("error", err))

		return false
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		s.log.Debug("Cannot read archive, treating as ineligible", slog.String("path", path), slog.Any("error", err))

		return false
	}

	for _, zf := range r.File {
		if s.cfg.Model.Target(zf.Name) {
			return true
		}
	}

	return false
}
