package common

import "fmt"

var (
	ErrNoArchivesFound  = fmt.Errorf("no zip archives found")
	ErrNotAnArchive     = fmt.Errorf("not a valid zip archive")
	ErrBackupNotWritten = fmt.Errorf("backup not written")
)
