package entity

// Archive identifies one zip file picked up by the batch.
type Archive struct {
	Name string // File name within the working directory.
	Path string // Full path on disk.
}

// PatchResult is what a single patch run reports back to the driver.
type PatchResult struct {
	Modified bool
	Fixed    int
}
