package cucumber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"appaudit/internal/cli"

	"github.com/cucumber/godog"
)

type featureState struct {
	projectDir  string
	configPath  string
	previousWD  string
	previousEnv map[string]*string
	servers     []func()
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	exitCode    int
	initialized bool
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^a project with a valid audit configuration$`, state.aProjectWithValidConfig)
	ctx.Step(`^an empty project directory$`, state.anEmptyProjectDirectory)
	ctx.Step(`^management credentials are available in the environment$`, state.managementCredentialsAreAvailable)
	ctx.Step(`^a management service with (\d+) registered applications$`, state.aManagementServiceWithApps)
	ctx.Step(`^the config is invalid$`, state.theConfigIsInvalid)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the output lists these commands:$`, state.theOutputListsCommands)
	ctx.Step(`^the output contains "([^"]+)"$`, state.theOutputContains)
	ctx.Step(`^the exit code is zero$`, state.theExitCodeIsZero)
	ctx.Step(`^the exit code is non-zero$`, state.theExitCodeIsNonZero)
	ctx.Step(`^the error message points to the invalid field$`, state.theErrorMessagePointsToInvalidField)
	ctx.Step(`^the config file exists$`, state.theConfigFileExists)
}

func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.previousEnv = map[string]*string{}
	s.servers = nil
	s.initialized = false
}

func (s *featureState) cleanup() {
	if s.previousWD != "" {
		_ = os.Chdir(s.previousWD)
	}
	for key, value := range s.previousEnv {
		if value == nil {
			_ = os.Unsetenv(key)
			continue
		}
		_ = os.Setenv(key, *value)
	}
	for _, closeServer := range s.servers {
		closeServer()
	}
	if s.projectDir != "" {
		_ = os.RemoveAll(s.projectDir)
	}
}

func (s *featureState) aProjectWithValidConfig() error {
	if err := s.anEmptyProjectDirectory(); err != nil {
		return err
	}
	return s.writeConfig(validConfigYAML())
}

func (s *featureState) anEmptyProjectDirectory() error {
	if s.initialized {
		return nil
	}
	dir, err := os.MkdirTemp("", "appaudit-feature-*")
	if err != nil {
		return fmt.Errorf("create temp project: %w", err)
	}
	s.projectDir = dir
	s.configPath = filepath.Join(dir, ".appaudit", "config.yml")

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	s.initialized = true
	return nil
}

func (s *featureState) managementCredentialsAreAvailable() error {
	return s.setEnv("APPAUDIT_MGMT_TOKEN", "test-token")
}

// aManagementServiceWithApps starts a fake management service holding
// the given number of applications and points the config at it.
func (s *featureState) aManagementServiceWithApps(count int) error {
	if err := s.aProjectWithValidConfig(); err != nil {
		return err
	}
	apps := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		apps = append(apps, map[string]any{
			"id":          fmt.Sprintf("app-%d", i+1),
			"name":        fmt.Sprintf("team-service-%d", i+1),
			"description": "Serves one of the smoke fixtures with a description long enough to comply.",
		})
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/applications", func(w http.ResponseWriter, r *http.Request) {
		page := map[string]any{
			"data": apps,
			"page": map[string]int{
				"current":        1,
				"size":           len(apps),
				"total_pages":    1,
				"total_elements": len(apps),
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	})
	server := httptest.NewServer(mux)
	s.servers = append(s.servers, server.Close)
	return s.writeConfig(configPointingAt(server.URL))
}

func (s *featureState) theConfigIsInvalid() error {
	if err := s.aProjectWithValidConfig(); err != nil {
		return err
	}
	return s.writeConfig(invalidConfigYAML())
}

func (s *featureState) iRunCommand(command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "appaudit" {
		args = args[1:]
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}

func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	output := s.stdout.String()
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			command := strings.TrimSpace(cell.Value)
			if command == "" {
				continue
			}
			if !strings.Contains(output, command) {
				return fmt.Errorf("expected command %q in output", command)
			}
		}
	}
	return nil
}

func (s *featureState) theOutputContains(snippet string) error {
	if !strings.Contains(s.stdout.String(), snippet) {
		return fmt.Errorf("expected output to contain %q, got %q", snippet, s.stdout.String())
	}
	return nil
}

func (s *featureState) theExitCodeIsZero() error {
	if s.exitCode != 0 {
		return fmt.Errorf("expected zero exit code, got %d (stderr: %s)", s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code")
	}
	return nil
}

func (s *featureState) theErrorMessagePointsToInvalidField() error {
	errOutput := s.stderr.String()
	if !strings.Contains(errOutput, "version") {
		return fmt.Errorf("expected error to mention version, got %q", errOutput)
	}
	return nil
}

func (s *featureState) theConfigFileExists() error {
	if s.configPath == "" {
		return fmt.Errorf("config path is not set")
	}
	if _, err := os.Stat(s.configPath); err != nil {
		return fmt.Errorf("expected config file: %w", err)
	}
	return nil
}

func (s *featureState) setEnv(key, value string) error {
	if s.previousEnv == nil {
		s.previousEnv = map[string]*string{}
	}
	if _, exists := s.previousEnv[key]; !exists {
		if current, ok := os.LookupEnv(key); ok {
			copy := current
			s.previousEnv[key] = &copy
		} else {
			s.previousEnv[key] = nil
		}
	}
	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("set env %s: %w", key, err)
	}
	return nil
}

func (s *featureState) writeConfig(contents string) error {
	if s.configPath == "" {
		return fmt.Errorf("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.configPath, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func validConfigYAML() string {
	return `version: 1

management:
  base_url: "https://apim.example.com/management"
  timeout_ms: 10000

search:
  base_url: "https://search.example.com"
  index: "gateway-requests"

audit:
  output_dir: ".appaudit/results"
  runtime: false
`
}

func invalidConfigYAML() string {
	return `version: 2

management:
  base_url: "https://apim.example.com/management"

search:
  base_url: "https://search.example.com"
  index: "gateway-requests"

audit:
  output_dir: ".appaudit/results"
`
}

func configPointingAt(managementURL string) string {
	return fmt.Sprintf(`version: 1

management:
  base_url: %q
  timeout_ms: 10000

search:
  base_url: "https://search.example.com"
  index: "gateway-requests"

audit:
  output_dir: ".appaudit/results"
  runtime: false
`, managementURL)
}
