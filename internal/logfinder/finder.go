// Package logfinder locates the game client log file.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnvLogPath is the environment variable naming the log file or its directory.
const EnvLogPath = "MATCHWATCH_LOG"

// Sentinel errors.
var (
	ErrLogNotFound = errors.New("log file not found")
	ErrNoLogFiles  = errors.New("no log files found")
)

// logPatterns are the file names considered log files inside a directory.
var logPatterns = []string{"*.log", "*.txt"}

// DefaultLogDirs returns candidate log directories in priority order.
// The client writes its log under the user's Documents folder.
func DefaultLogDirs() []string {
	home := os.Getenv("USERPROFILE")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home == "" {
		return nil
	}

	return []string{
		filepath.Join(home, "Documents", "CnCRemastered"),
		filepath.Join(home, "Documents", "My Games", "CnCRemastered"),
	}
}

// FindLogFile returns the log file to watch.
//
// Priority:
//  1. explicit (if non-empty)
//  2. MATCHWATCH_LOG environment variable
//  3. Auto-detect from DefaultLogDirs()
//
// Each candidate may name a file, used as-is, or a directory, in which case
// its most recently modified log file is returned.
// Returns ErrLogNotFound if no candidate resolves.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		path, err := resolve(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrLogNotFound, explicit, err)
		}
		return path, nil
	}

	if env := os.Getenv(EnvLogPath); env != "" {
		path, err := resolve(env)
		if err != nil {
			return "", fmt.Errorf("%w: %s environment variable: %w", ErrLogNotFound, EnvLogPath, err)
		}
		return path, nil
	}

	for _, dir := range DefaultLogDirs() {
		if path, err := resolve(dir); err == nil {
			return path, nil
		}
	}

	return "", ErrLogNotFound
}

// FindLatestLogFile returns the most recently modified log file in dir.
//
// Returns ErrNoLogFiles if no log files are found.
func FindLatestLogFile(dir string) (string, error) {
	var matches []string
	for _, pattern := range logPatterns {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", fmt.Errorf("globbing log files: %w", err)
		}
		matches = append(matches, m...)
	}

	type candidate struct {
		path string
		mod  int64
	}
	candidates := make([]candidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, candidate{m, info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", ErrNoLogFiles
	}

	// Newest first
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].mod > candidates[j].mod
	})
	return candidates[0].path, nil
}

// resolve turns a file or directory into a log file path with symlinks
// resolved.
func resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		// Fallback to the original path (permission issues, broken links)
		resolved = path
	}

	if !info.IsDir() {
		return resolved, nil
	}
	return FindLatestLogFile(resolved)
}
