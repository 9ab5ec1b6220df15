package shared

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// FileExists reports whether something exists at path.
//
// Errors other than "does not exist" are returned so callers can tell a
// missing file from an unreadable directory.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

var filenameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// SanitizeFilename strips characters that would turn a song name into a path.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(filenameReplacer.Replace(name))
}
