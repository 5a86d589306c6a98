package audit

import (
	"context"
	"sort"

	"appaudit/internal/criteria"
	"appaudit/internal/mgmt"
)

// criterionJobResult captures the outcome of one criterion evaluation job.
type criterionJobResult struct {
	index  int
	result criteria.Result
	err    error
}

// evaluateApp fans out one evaluation task per enabled criterion, fans
// every outcome back in, and returns the results sorted ascending by
// reference regardless of completion order. The first evaluator failure
// is returned after all tasks have resolved.
func evaluateApp(ctx context.Context, app mgmt.Application, defs []criteria.Definition, deps criteria.Deps, observer RunObserver) ([]criteria.Result, error) {
	resultCh := make(chan criterionJobResult, len(defs))
	for index, def := range defs {
		idx := index
		definition := def
		go func() {
			complied, err := definition.Evaluate(ctx, app, deps)
			resultCh <- criterionJobResult{
				index: idx,
				result: criteria.Result{
					Reference:   definition.Reference,
					Description: definition.Description,
					Complied:    complied,
				},
				err: err,
			}
		}()
	}

	results := make([]criteria.Result, len(defs))
	var failure error
	for i := 0; i < len(defs); i++ {
		jobResult := <-resultCh
		results[jobResult.index] = jobResult.result
		if jobResult.err != nil {
			if failure == nil {
				failure = &EvaluatorError{
					Reference: jobResult.result.Reference,
					AppID:     app.ID,
					Err:       jobResult.err,
				}
			}
			continue
		}
		observer.OnAppEvent(AppEvent{
			Type:      EventCriterionDone,
			AppID:     app.ID,
			AppName:   app.Name,
			Reference: jobResult.result.Reference,
			Complied:  jobResult.result.Complied,
		})
	}
	if failure != nil {
		return nil, failure
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Reference < results[j].Reference
	})
	return results, nil
}

// evaluateAppReport evaluates one application and wraps the outcome in
// an AppReport, emitting observer events along the way.
func evaluateAppReport(ctx context.Context, app mgmt.Application, defs []criteria.Definition, deps criteria.Deps, observer RunObserver) (AppReport, error) {
	observer.OnAppEvent(AppEvent{Type: EventAppEvaluating, AppID: app.ID, AppName: app.Name})
	results, err := evaluateApp(ctx, app, defs, deps, observer)
	if err != nil {
		observer.OnAppEvent(AppEvent{Type: EventAppFailed, AppID: app.ID, AppName: app.Name, Error: err.Error()})
		return AppReport{}, err
	}
	report := AppReport{AppID: app.ID, AppName: app.Name, Results: results}
	eventType := EventAppCompliant
	if !report.Compliant() {
		eventType = EventAppNonCompliant
	}
	observer.OnAppEvent(AppEvent{Type: eventType, AppID: app.ID, AppName: app.Name})
	return report, nil
}
