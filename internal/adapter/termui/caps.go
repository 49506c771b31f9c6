package termui

import (
	"os"
	"strings"
)

// Caps describes what the attached terminal can render. Detection is
// best effort and lives entirely on this side of the UI boundary; the
// core never consults it.
type Caps struct {
	ANSI  bool
	Emoji bool
}

// DetectCaps sniffs the environment for ANSI and emoji support.
func DetectCaps() Caps {
	return Caps{
		ANSI:  detectANSI(),
		Emoji: detectEmoji(),
	}
}

func detectANSI() bool {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}

	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// detectEmoji checks the locale for UTF-8, the same heuristic the
// terminal itself tends to use for wide glyph support.
func detectEmoji() bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := strings.ToLower(os.Getenv(key))
		if v == "" {
			continue
		}

		return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
	}

	return false
}
