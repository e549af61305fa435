package ext

import (
	"os"
	"path/filepath"
	"strings"
)

// ReplaceHomeDirWithTilde replaces the home directory in an absolute path with ~
func ReplaceHomeDirWithTilde(path string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return path
	}

	if path == homeDir || strings.HasPrefix(path, homeDir+string(filepath.Separator)) {
		return "~" + strings.TrimPrefix(path, homeDir)
	}
	return path
}
