package util

import (
	"crypto/sha1"
	"encoding/hex"
)

// ContentID returns a stable hex identifier for a blob of bytes.
func ContentID(data []byte) string {
	hasher := sha1.New()
	hasher.Write(data)

	return hex.EncodeToString(hasher.Sum(nil))
}
