//go:build cucumber

package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"appaudit/internal/audit"
	"appaudit/internal/ui/live"
)

// TestLiveUIScenarios runs the live UI feature scenarios.
func TestLiveUIScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "spec", "features", "output-live-ui.feature")
	suite := godog.TestSuite{
		Name:                "output-live-ui",
		ScenarioInitializer: InitializeLiveUIScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{featurePath},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeLiveUIScenario wires steps for live UI scenarios.
func InitializeLiveUIScenario(ctx *godog.ScenarioContext) {
	state := &liveUIScenarioState{}
	orig := isTerminal
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		isTerminal = func(io.Writer) bool { return state.isTTY }
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		isTerminal = orig
		return ctx, nil
	})

	ctx.Step(`^a TTY stdout$`, state.givenTTY)
	ctx.Step(`^stdout is not a TTY$`, state.givenNonTTY)
	ctx.Step(`^an audit over (\d+) discovered applications$`, state.givenDiscoveredApps)
	ctx.Step(`^the first application fails a criterion$`, state.whenFirstAppFails)
	ctx.Step(`^the run command decides how to render progress$`, state.whenDecide)
	ctx.Step(`^the live UI is chosen$`, state.thenLiveChosen)
	ctx.Step(`^plain output is chosen$`, state.thenPlainChosen)
	ctx.Step(`^the UI lists (\d+) application rows$`, state.thenRowCount)
	ctx.Step(`^the first row records the violation$`, state.thenFirstRowViolation)
}

type liveUIScenarioState struct {
	isTTY    bool
	decision uiModeDecision
	uiState  live.State
}

// reset clears scenario state.
func (s *liveUIScenarioState) reset() {
	s.isTTY = false
	s.decision = uiModeDecision{}
	s.uiState = live.State{}
}

// givenTTY marks stdout as a TTY.
func (s *liveUIScenarioState) givenTTY() error {
	s.isTTY = true
	return nil
}

// givenNonTTY marks stdout as non-TTY.
func (s *liveUIScenarioState) givenNonTTY() error {
	s.isTTY = false
	return nil
}

// givenDiscoveredApps seeds discovered application rows.
func (s *liveUIScenarioState) givenDiscoveredApps(count int) error {
	now := time.Now()
	s.uiState.Criteria = []string{"APP-DF01", "APP-DF02"}
	for i := 0; i < count; i++ {
		s.uiState = live.Reduce(s.uiState, audit.AppEvent{
			Type:    audit.EventAppDiscovered,
			AppID:   fmt.Sprintf("app-%d", i+1),
			AppName: fmt.Sprintf("Application %d", i+1),
			Index:   i,
		}, now)
	}
	return nil
}

// whenFirstAppFails walks the first row through a failing evaluation.
func (s *liveUIScenarioState) whenFirstAppFails() error {
	now := time.Now()
	s.uiState = live.Reduce(s.uiState, audit.AppEvent{
		Type: audit.EventAppEvaluating, AppID: "app-1", AppName: "Application 1",
	}, now)
	s.uiState = live.Reduce(s.uiState, audit.AppEvent{
		Type: audit.EventCriterionDone, AppID: "app-1", Reference: "APP-DF01", Complied: false,
	}, now)
	s.uiState = live.Reduce(s.uiState, audit.AppEvent{
		Type: audit.EventAppNonCompliant, AppID: "app-1",
	}, now)
	return nil
}

// whenDecide evaluates the UI mode decision for the scenario.
func (s *liveUIScenarioState) whenDecide() error {
	decision, err := resolveUIMode("auto", false, nil)
	if err != nil {
		return err
	}
	s.decision = decision
	return nil
}

// thenLiveChosen asserts the live UI is enabled.
func (s *liveUIScenarioState) thenLiveChosen() error {
	if !s.decision.useLive {
		return fmt.Errorf("expected the live UI to be chosen")
	}
	return nil
}

// thenPlainChosen asserts the live UI is disabled.
func (s *liveUIScenarioState) thenPlainChosen() error {
	if s.decision.useLive {
		return fmt.Errorf("expected plain output to be chosen")
	}
	return nil
}

// thenRowCount asserts the number of application rows.
func (s *liveUIScenarioState) thenRowCount(count int) error {
	if len(s.uiState.Rows) != count {
		return fmt.Errorf("expected %d rows, got %d", count, len(s.uiState.Rows))
	}
	return nil
}

// thenFirstRowViolation asserts the violation landed on the first row.
func (s *liveUIScenarioState) thenFirstRowViolation() error {
	if len(s.uiState.Rows) == 0 {
		return fmt.Errorf("expected rows")
	}
	row := s.uiState.Rows[0]
	if row.Status != audit.EventAppNonCompliant {
		return fmt.Errorf("expected non-compliant status, got %s", row.Status)
	}
	for _, violation := range row.Violations {
		if violation == "APP-DF01" {
			return nil
		}
	}
	return fmt.Errorf("expected APP-DF01 violation, got %v", row.Violations)
}
