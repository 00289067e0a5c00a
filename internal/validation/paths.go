package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathHandler validates the on-disk locations gifr writes to.
type PathHandler struct {
	maxPathLength int
}

func NewPathHandler() *PathHandler {
	return &PathHandler{maxPathLength: 4096}
}

// DBPath validates a database file path, falling back to ~/.gifr.db, and
// makes sure its parent directory exists.
func (ph *PathHandler) DBPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".gifr.db")
	}
	return ph.filePath(userPath)
}

// LogPath validates a log file path, falling back to ~/.gifr/gifr.log.
func (ph *PathHandler) LogPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".gifr", "gifr.log")
	}
	return ph.filePath(userPath)
}

func (ph *PathHandler) filePath(path string) (string, error) {
	clean, err := ph.normalize(path)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", clean)
	}

	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}
	return clean, nil
}

func (ph *PathHandler) normalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > ph.maxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", ph.maxPathLength)
	}
	for _, char := range path {
		if char < 32 {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	if len(path) >= 2 && path[:2] == "~/" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		if component == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}
	return filepath.Clean(abs), nil
}
