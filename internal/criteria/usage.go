package criteria

import (
	"context"
	"fmt"

	"appaudit/internal/mgmt"
	"appaudit/internal/search"
)

// EventSearcher is the slice of the search client runtime criteria use.
type EventSearcher interface {
	SearchEvents(ctx context.Context, query search.Query) (search.Result, error)
}

// evaluateUsage asks the search index for events scoped to the
// application id within the run's window, requesting at most one event.
// Complies iff the reported total is greater than zero. This is the only
// evaluator with a network side effect.
func evaluateUsage(ctx context.Context, app mgmt.Application, deps Deps) (bool, error) {
	if deps.Search == nil {
		return false, fmt.Errorf("usage criterion needs a search client")
	}
	result, err := deps.Search.SearchEvents(ctx, search.Query{
		Index: deps.Index,
		From:  deps.From,
		To:    deps.To,
		Match: map[string]string{"application": app.ID},
		Size:  1,
	})
	if err != nil {
		return false, fmt.Errorf("query usage for application %s: %w", app.ID, err)
	}
	return result.Meta.Total > 0, nil
}
