package resolver

import (
	"fmt"
	"os"
	"path/filepath"
)

// DocPathEnv names the environment variable consulted for the
// documentation directory when no flag or config value is given.
const DocPathEnv = "BIND_DOC_PATH"

// ResolvePath resolves a relative path by searching directories in order.
// Returns the first path that exists. Absolute paths are returned as-is.
func ResolvePath(relPath string, searchDirs []string) (string, error) {
	if filepath.IsAbs(relPath) {
		return relPath, nil
	}
	for _, dir := range searchDirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, relPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s not found in search directories: %v", relPath, searchDirs)
}

// ResolveDocDir finds the documentation directory using the resolution order:
// 1. Explicit path (flag or config), searched relative to searchDirs
// 2. BIND_DOC_PATH environment variable
// An empty result with a nil error means no documentation is configured.
func ResolveDocDir(explicit string, searchDirs []string) (string, error) {
	if explicit != "" {
		dir, err := ResolvePath(explicit, searchDirs)
		if err != nil {
			return "", fmt.Errorf("documentation directory: %w", err)
		}
		return checkDir(dir)
	}

	if envPath := os.Getenv(DocPathEnv); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("documentation directory not found at %s: %s", DocPathEnv, envPath)
		}
		return checkDir(envPath)
	}
	return "", nil
}

func checkDir(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return dir, nil
}

// ReadLicense returns the license text to prepend to every artifact.
// An empty path yields no license.
func ReadLicense(path string, searchDirs []string) (string, error) {
	if path == "" {
		return "", nil
	}
	full, err := ResolvePath(path, searchDirs)
	if err != nil {
		return "", fmt.Errorf("license file: %w", err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("reading license %s: %w", full, err)
	}
	return string(data), nil
}
