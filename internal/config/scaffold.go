package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1

# Credentials are read from the environment:
#   APPAUDIT_MGMT_TOKEN          bearer token, or
#   APPAUDIT_MGMT_USER / APPAUDIT_MGMT_PASSWORD for a login exchange.
management:
  base_url: "https://apim.example.com/management"
  timeout_ms: 10000

search:
  base_url: "https://search.example.com"
  index: "gateway-requests"
  timeout_ms: 10000

audit:
  output_dir: ".appaudit/results"
  # filter: "team-"
  page_size: 20
  delay_ms: 200
  timeout_ms: 30000
  runtime: true
  window_hours: 720
  min_description: 30
  # disabled: ["APP-R00"]

store:
  # path: ".appaudit/audit.duckdb"
`

// Scaffold writes a starter config file, refusing to overwrite an
// existing one.
func Scaffold(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
