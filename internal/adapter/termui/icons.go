package termui

// iconSet maps the display glyphs used across frames, prompts and the
// summary. The ASCII set is the fallback for terminals without a UTF-8
// locale.
type iconSet struct {
	Search  string
	Wrench  string
	Disk    string
	Package string
	Check   string
	Cross   string
	Skip    string
	Tick    string
	Circle  string
	Warning string
	Sparkle string
	Fill    string
}

var emojiIcons = iconSet{
	Search:  "\U0001F50D",
	Wrench:  "\U0001F527",
	Disk:    "\U0001F4BE",
	Package: "\U0001F4E6",
	Check:   "✅",
	Cross:   "❌",
	Skip:    "⏭️",
	Tick:    "✓",
	Circle:  "○",
	Warning: "⚠️",
	Sparkle: "✨",
	Fill:    "█",
}

var asciiIcons = iconSet{
	Search:  "[?]",
	Wrench:  "[*]",
	Disk:    "[B]",
	Package: "[P]",
	Check:   "[+]",
	Cross:   "[X]",
	Skip:    "[>]",
	Tick:    "OK",
	Circle:  "o",
	Warning: "[!]",
	Sparkle: "*",
	Fill:    "#",
}

func iconsFor(caps Caps) iconSet {
	if caps.Emoji {
		return emojiIcons
	}

	return asciiIcons
}
