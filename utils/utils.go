package utils

import (
	"compress/gzip"
	"os"
)

// ValidateTarball checks if a tarball file is valid and not corrupted
// Returns true if file exists and is a valid gzip file with size > 0
func ValidateTarball(filePath string) bool {
	// Check file exists and has non-zero size
	fileInfo, err := os.Stat(filePath)
	if err != nil || fileInfo.Size() == 0 {
		return false
	}

	// Attempt to open as gzip to verify it's not corrupted
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()

	// Try to create gzip reader (this is where corruption is detected)
	gzr, err := gzip.NewReader(file)
	if err != nil {
		return false
	}
	defer gzr.Close()

	return true
}
