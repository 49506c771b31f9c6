package main

import (
	"flag"
	"os"

	"github.com/jgivc/packfix/internal/app"
)

func main() {
	var opts app.Options

	flag.StringVar(&opts.ConfigPath, "c", "config.yml", "Path to config file")
	flag.StringVar(&opts.WorkDir, "d", "", "Directory with texture pack archives (default: current directory)")
	flag.BoolVar(&opts.NoBackup, "no-backup", false, "Do not create backups of original archives")
	flag.BoolVar(&opts.AssumeYes, "yes", false, "Skip interactive prompts, create backups")
	flag.BoolVar(&opts.Plain, "plain", false, "Plain output, no ANSI escapes or emoji")
	flag.Parse()

	os.Exit(app.New(opts).Run())
}
