package termui

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jgivc/packfix/internal/config"
	"github.com/jgivc/packfix/internal/entity"
	"github.com/jgivc/packfix/internal/service/batch"
	"github.com/stretchr/testify/require"
)

func testRenderer(out *bytes.Buffer, caps Caps) *Renderer {
	cfg := &config.Config{}
	cfg.SetDefaults()

	return NewRenderer(out, caps, cfg)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short.zip", truncate("short.zip", 50))
	require.Equal(t, "exactly-ten", truncate("exactly-ten", 11))

	long := strings.Repeat("a", 60) + ".zip"
	got := truncate(long, 50)
	require.Len(t, got, 50)
	require.True(t, strings.HasSuffix(got, "..."))

	// Multibyte names are cut on rune boundaries, never mid-rune.
	wide := strings.Repeat("パ", 30) + ".zip"
	got = truncate(wide, 20)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, 20, utf8.RuneCountInString(got))
	require.Equal(t, strings.Repeat("パ", 17)+"...", got)
}

func TestProgressBar(t *testing.T) {
	var out bytes.Buffer
	r := testRenderer(&out, Caps{})

	require.Equal(t, "|"+strings.Repeat("-", 40)+"| 0.0%", r.progressBar(0, 0))
	require.Equal(t, "|"+strings.Repeat("#", 20)+strings.Repeat("-", 20)+"| 50.0%", r.progressBar(1, 2))
	require.Equal(t, "|"+strings.Repeat("#", 40)+"| 100.0%", r.progressBar(2, 2))
}

func TestFrameANSI(t *testing.T) {
	var out bytes.Buffer
	r := testRenderer(&out, Caps{ANSI: true})

	state := entity.NewProgressState(10)
	state.Push(entity.HistoryItem{
		Index: 1, Total: 3,
		Outcome: entity.Outcome{
			Archive: entity.Archive{Name: "done.zip"},
			Status:  entity.StatusFixed,
			Fixed:   2,
		},
	})

	r.Frame(&batch.Frame{
		Index:       2,
		Total:       3,
		Archive:     entity.Archive{Name: "pack.zip"},
		StatusLines: []string{"Checking for models... ok", "Scanning & fixing...", "Writing fixed ZIP... ok"},
		State:       state,
	})

	got := out.String()
	require.True(t, strings.HasPrefix(got, ansiHomeClear))
	require.Contains(t, got, "[2/3] Processing: pack.zip")
	require.Contains(t, got, "[1/3] done.zip | Fixed 2")
	require.Contains(t, got, "[?] Checking for models... ok")
	require.Contains(t, got, "[*] Scanning & fixing...")
	require.Contains(t, got, "[P] Writing fixed ZIP... ok")
	require.Contains(t, got, "66.7%")
}

func TestFramePlain(t *testing.T) {
	var out bytes.Buffer
	r := testRenderer(&out, Caps{})

	r.Frame(&batch.Frame{
		Index:       1,
		Total:       2,
		Archive:     entity.Archive{Name: "pack.zip"},
		StatusLines: []string{"Checking for models..."},
		State:       entity.NewProgressState(10),
	})

	got := out.String()
	require.NotContains(t, got, "\033[")
	require.Equal(t, "[1/2] pack.zip: [?] Checking for models...\n", got)
}

func TestDone(t *testing.T) {
	var out bytes.Buffer
	r := testRenderer(&out, Caps{})

	r.Done()
	require.Equal(t, "\n* All done!\n", out.String())
}

func TestSummary(t *testing.T) {
	var out bytes.Buffer
	r := testRenderer(&out, Caps{})

	sum := &entity.Summary{
		Total: 4,
		Processed: []entity.Outcome{
			{Archive: entity.Archive{Name: "pack.zip"}, Status: entity.StatusFixed, Fixed: 3},
			{Archive: entity.Archive{Name: "clean.zip"}, Status: entity.StatusClean},
		},
		Skipped: []entity.Outcome{
			{Archive: entity.Archive{Name: "empty.zip"}, Status: entity.StatusSkipped},
		},
		Failed: []entity.Outcome{
			{Archive: entity.Archive{Name: "broken.zip"}, Status: entity.StatusFailed, Message: "cannot read archive"},
		},
		TotalFixed: 3,
	}

	r.Summary(sum, true)

	got := out.String()
	require.Contains(t, got, "Total packs scanned: 4")
	require.Contains(t, got, "Processed: 2")
	require.Contains(t, got, "Skipped (no models): 1")
	require.Contains(t, got, "Failed: 1")
	require.Contains(t, got, "Total files fixed: 3")
	require.Contains(t, got, "pack.zip (3 file(s))")
	require.Contains(t, got, "clean.zip (clean)")
	require.Contains(t, got, "- empty.zip")
	require.Contains(t, got, "x broken.zip")
	require.Contains(t, got, "cannot read archive")
	require.Contains(t, got, "Backups saved with 'backup_' prefix")
	require.NotContains(t, got, "\033[")
}

func TestSummaryNoBackups(t *testing.T) {
	var out bytes.Buffer
	r := testRenderer(&out, Caps{})

	sum := &entity.Summary{
		Total:      1,
		Processed:  []entity.Outcome{{Archive: entity.Archive{Name: "pack.zip"}, Status: entity.StatusFixed, Fixed: 1}},
		TotalFixed: 1,
	}

	r.Summary(sum, false)
	require.Contains(t, out.String(), "No backups created")
}

func TestConfirmBackups(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "default is yes", input: "\n", want: true},
		{name: "no confirmed", input: "n\nyes\n", want: false},
		{name: "no then cancelled then yes", input: "n\nnope\ny\n", want: true},
		{name: "garbage then yes", input: "what\nY\n", want: true},
		{name: "input exhausted falls back to backups", input: "", want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tc.input), &out, Caps{})
			require.Equal(t, tc.want, p.ConfirmBackups())
		})
	}
}
