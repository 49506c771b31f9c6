package scanner

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/jgivc/packfix/internal/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func writeZip(t *testing.T, fsys afero.Fs, path string, names ...string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("content"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, afero.WriteFile(fsys, path, buf.Bytes(), 0644))
}

func TestEligible(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()

	testCases := []struct {
		name     string
		entries  []string
		raw      []byte
		missing  bool
		eligible bool
	}{
		{
			name:     "model json present",
			entries:  []string{"assets/icon.png", "models/item/sword.json"},
			eligible: true,
		},
		{
			name:     "nested model json",
			entries:  []string{"assets/minecraft/models/item/sword.json"},
			eligible: true,
		},
		{
			name:    "no model entries",
			entries: []string{"assets/icon.png", "pack.mcmeta"},
		},
		{
			name:    "model dir but wrong extension",
			entries: []string{"models/item/sword.png"},
		},
		{
			name:    "json outside model dir",
			entries: []string{"models/block/stone.json"},
		},
		{
			name:    "empty archive",
			entries: []string{},
		},
		{
			name: "corrupt archive is soft skipped",
			raw:  []byte("definitely not a zip file"),
		},
		{
			name:    "missing file",
			missing: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			switch {
			case tc.missing:
				// Nothing on disk.
			case tc.raw != nil:
				require.NoError(t, afero.WriteFile(fsys, "/packs/pack.zip", tc.raw, 0644))
			default:
				writeZip(t, fsys, "/packs/pack.zip", tc.entries...)
			}

			s := NewWithFS(fsys, cfg, testLogger())
			require.Equal(t, tc.eligible, s.Eligible("/packs/pack.zip"))

			if !tc.missing {
				// Scanning never mutates.
				if tc.raw != nil {
					data, err := afero.ReadFile(fsys, "/packs/pack.zip")
					require.NoError(t, err)
					require.Equal(t, tc.raw, data)
				}
			}
		})
	}
}
