package audit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"appaudit/internal/criteria"
	"appaudit/internal/mgmt"
	"appaudit/internal/search"
	"appaudit/internal/spec"
)

// RunDeps carries the injectable dependencies of a run. Zero fields are
// replaced with production defaults, so callers only set what they need
// to override.
type RunDeps struct {
	Mgmt     func(cfg spec.ManagementConfig) (ManagementClient, error)
	Search   func(cfg spec.SearchConfig) (criteria.EventSearcher, error)
	RunID    func() (string, error)
	Now      func() time.Time
	Sleep    sleepFunc
	Observer RunObserver
}

// RunParams selects what a run audits and where its outputs go.
type RunParams struct {
	// AppID audits a single application instead of discovering the
	// full inventory.
	AppID string
	// Filter narrows discovery to applications whose name or
	// description matches server-side.
	Filter string
	// OutputDir overrides the configured output directory.
	OutputDir string

	Deps RunDeps
}

func (deps RunDeps) withDefaults() RunDeps {
	if deps.Mgmt == nil {
		deps.Mgmt = defaultManagementClient
	}
	if deps.Search == nil {
		deps.Search = defaultSearchClient
	}
	if deps.RunID == nil {
		deps.RunID = NewRunID
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = sleepContext
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	return deps
}

func defaultManagementClient(cfg spec.ManagementConfig) (ManagementClient, error) {
	credentials, err := mgmt.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond}
	return mgmt.NewClient(cfg.BaseURL, credentials, httpClient)
}

func defaultSearchClient(cfg spec.SearchConfig) (criteria.EventSearcher, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond}
	return search.NewClient(cfg.BaseURL, httpClient)
}

// Run executes one audit: it authenticates against the management API,
// discovers the target applications, evaluates every enabled criterion
// against each of them concurrently, and returns the aggregated results.
// Any evaluator failure aborts the whole run.
func Run(ctx context.Context, cfg spec.Config, params RunParams) (Results, error) {
	deps := params.Deps.withDefaults()

	runID, err := deps.RunID()
	if err != nil {
		return Results{}, fmt.Errorf("generate run id: %w", err)
	}
	startedAt := deps.Now().UTC()

	runtimeEnabled := cfg.Audit.Runtime != nil && *cfg.Audit.Runtime
	defs := criteria.Enabled(runtimeEnabled, cfg.Audit.Disabled)
	if len(defs) == 0 {
		return Results{}, errors.New("audit: no criteria enabled")
	}

	client, err := deps.Mgmt(cfg.Management)
	if err != nil {
		return Results{}, err
	}
	if err := client.Login(ctx); err != nil {
		return Results{}, fmt.Errorf("login to management API: %w", err)
	}

	evalDeps := criteria.Deps{
		Index:          cfg.Search.Index,
		From:           startedAt.Add(-time.Duration(cfg.Audit.WindowHours) * time.Hour),
		To:             startedAt,
		MinDescription: cfg.Audit.MinDescription,
	}
	if runtimeEnabled {
		searcher, err := deps.Search(cfg.Search)
		if err != nil {
			return Results{}, err
		}
		evalDeps.Search = searcher
	}

	refs := make([]string, len(defs))
	for i, def := range defs {
		refs[i] = def.Reference
	}
	deps.Observer.OnRunStart(runID, refs)

	var apps []AppReport
	if params.AppID != "" {
		app, err := client.GetApplication(ctx, params.AppID)
		if err != nil {
			return Results{}, err
		}
		deps.Observer.OnAppEvent(AppEvent{Type: EventAppDiscovered, AppID: app.ID, AppName: app.Name})
		report, err := evaluateAppReport(ctx, app, defs, evalDeps, deps.Observer)
		if err != nil {
			return Results{}, err
		}
		apps = []AppReport{report}
	} else {
		apps, err = evaluateAll(ctx, client, cfg, params.Filter, defs, evalDeps, deps)
		if err != nil {
			return Results{}, err
		}
	}

	results := Results{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: deps.Now().UTC(),
		Filter:     params.Filter,
		AppID:      params.AppID,
		Runtime:    runtimeEnabled,
		Criteria:   criteriaInfo(defs),
		Apps:       apps,
		Summary:    summarize(defs, apps),
	}
	if runtimeEnabled {
		results.Window = &Window{From: evalDeps.From, To: evalDeps.To}
	}
	deps.Observer.OnRunEnd(results)
	return results, nil
}

type appJobResult struct {
	index  int
	report AppReport
	err    error
}

// evaluateAll streams the discovered applications and evaluates each one
// on its own goroutine. The discovery timeout bounds only the listing;
// evaluations already in flight run on the parent context and are always
// collected before the function returns. Reports are reassembled in
// discovery order.
func evaluateAll(ctx context.Context, client ManagementClient, cfg spec.Config, filter string, defs []criteria.Definition, evalDeps criteria.Deps, deps RunDeps) ([]AppReport, error) {
	discoveryParams := DiscoveryParams{
		Filter:   filter,
		PageSize: cfg.Audit.PageSize,
		Delay:    time.Duration(cfg.Audit.DelayMs) * time.Millisecond,
		Timeout:  time.Duration(cfg.Audit.TimeoutMs) * time.Millisecond,
	}
	discoveryCtx, cancel := context.WithTimeout(ctx, discoveryParams.Timeout)
	defer cancel()

	stream, terminal := discover(discoveryCtx, client, discoveryParams, deps.Sleep)

	resultCh := make(chan appJobResult)
	spawned := 0
	for app := range stream {
		idx := spawned
		spawned++
		current := app
		deps.Observer.OnAppEvent(AppEvent{Type: EventAppDiscovered, AppID: current.ID, AppName: current.Name, Index: idx})
		go func() {
			report, err := evaluateAppReport(ctx, current, defs, evalDeps, deps.Observer)
			resultCh <- appJobResult{index: idx, report: report, err: err}
		}()
	}
	discoveryErr := terminal()

	reports := make([]AppReport, spawned)
	var evalErr error
	for i := 0; i < spawned; i++ {
		jobResult := <-resultCh
		reports[jobResult.index] = jobResult.report
		if jobResult.err != nil && evalErr == nil {
			evalErr = jobResult.err
		}
	}
	if discoveryErr != nil {
		return nil, discoveryErr
	}
	if evalErr != nil {
		return nil, evalErr
	}
	return reports, nil
}
