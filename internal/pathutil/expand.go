package pathutil

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Expand resolves environment variables and a leading "~" in a configured path.
func Expand(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}

	expanded := os.ExpandEnv(trimmed)
	if rest, ok := cutHome(expanded); ok {
		home, err := homeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		expanded = filepath.Join(home, rest)
	}

	return filepath.Clean(expanded), nil
}

// EnsureParent creates the parent directory of path with perm.
func EnsureParent(path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	return nil
}

func cutHome(path string) (string, bool) {
	if path == "~" {
		return "", true
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return rest, true
	}
	return "", false
}

func homeDir() (string, error) {
	candidates := make([]string, 0, 3)
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, home)
	}
	if current, err := user.Current(); err == nil {
		candidates = append(candidates, current.HomeDir)
	}
	candidates = append(candidates, os.Getenv("HOME"))

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, unresolved := cutHome(c); unresolved {
			continue
		}
		return c, nil
	}
	return "", fmt.Errorf("HOME is not set or not fully resolved")
}
