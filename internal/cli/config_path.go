package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"appaudit/internal/config"
	"appaudit/internal/spec"
)

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// resolveOutputDir picks the run output directory: an explicit override
// wins, otherwise the configured directory anchored at the project root.
func resolveOutputDir(configPath string, cfg spec.Config, override string) string {
	if override != "" {
		return override
	}
	dir := cfg.Audit.OutputDir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(config.ProjectRootFromConfigPath(configPath), dir)
}

// resolveStorePath anchors the configured store path at the project
// root. Empty when no store is configured.
func resolveStorePath(configPath string, cfg spec.Config) string {
	path := strings.TrimSpace(cfg.Store.Path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(config.ProjectRootFromConfigPath(configPath), path)
}
