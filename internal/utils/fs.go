package utils

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures the parent directory of path exists
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// DirExists returns true if path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// RepoName extracts the last path segment of a repository URL, suitable for
// naming temporary directories after the project.
//
// Examples:
//   - https://github.com/aave/aave-v3-core → aave-v3-core
//   - git@github.com:org/repo.git → repo
func RepoName(rawURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(rawURL, "/"), ".git")

	if u, err := url.Parse(trimmed); err == nil && u.Path != "" {
		if name := filepath.Base(u.Path); name != "." && name != "/" {
			return sanitizeDirName(name)
		}
	}

	// SSH-style URLs (git@host:org/repo) do not parse as URLs
	if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 && idx < len(trimmed)-1 {
		return sanitizeDirName(trimmed[idx+1:])
	}

	return "repo"
}

func sanitizeDirName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	if name == "" {
		return "repo"
	}
	return name
}
