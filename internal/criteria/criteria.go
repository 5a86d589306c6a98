package criteria

import (
	"context"
	"sort"
	"time"

	"appaudit/internal/mgmt"
)

// Definition is one catalog entry. The catalog is the single seam for
// adding, removing, or disabling criteria: no other component changes.
type Definition struct {
	// Reference is a short code unique across the catalog. It is both
	// the sort key and the report column id.
	Reference   string
	Description string
	// Runtime marks criteria resolved through the search index rather
	// than from the application's own attributes.
	Runtime  bool
	Enabled  bool
	Evaluate EvaluateFunc
}

// EvaluateFunc resolves one criterion for one application.
type EvaluateFunc func(ctx context.Context, app mgmt.Application, deps Deps) (bool, error)

// Deps carries the collaborators and run parameters evaluators may use.
// It is read-only after run start and shared across evaluation tasks.
type Deps struct {
	// Search answers runtime queries. Nil when runtime evaluation is
	// disabled for the run.
	Search EventSearcher
	// Index is the search index holding historical traffic events.
	Index string
	// From and To bound the runtime window, half-open [From, To).
	From time.Time
	To   time.Time
	// MinDescription is the minimum description length in characters.
	MinDescription int
}

// Result is the outcome of one (application, criterion) evaluation.
type Result struct {
	Reference   string `json:"reference"`
	Description string `json:"description"`
	Complied    bool   `json:"complied"`
}

// catalog is the process-wide criteria catalog, built once.
var catalog = []Definition{
	{
		Reference:   "APP-DF01",
		Description: "Name follows the naming convention",
		Enabled:     true,
		Evaluate:    evaluateNaming,
	},
	{
		Reference:   "APP-DF02",
		Description: "Description has at least the minimum length",
		Enabled:     true,
		Evaluate:    evaluateDescription,
	},
	{
		Reference:   "APP-R00",
		Description: "Traffic observed within the audit window",
		Runtime:     true,
		Enabled:     true,
		Evaluate:    evaluateUsage,
	},
}

// Catalog returns a copy of the full criteria catalog. Registration
// order is irrelevant; callers needing report order use Enabled.
func Catalog() []Definition {
	snapshot := make([]Definition, len(catalog))
	copy(snapshot, catalog)
	return snapshot
}

// Enabled returns the subset of criteria evaluated in a run: enabled
// entries, minus runtime entries when runtimeEnabled is false, minus any
// references listed in disabled. The result is sorted ascending by
// reference; report headers and rows share this exact order.
func Enabled(runtimeEnabled bool, disabled []string) []Definition {
	off := make(map[string]struct{}, len(disabled))
	for _, ref := range disabled {
		off[ref] = struct{}{}
	}
	selected := make([]Definition, 0, len(catalog))
	for _, def := range catalog {
		if !def.Enabled {
			continue
		}
		if def.Runtime && !runtimeEnabled {
			continue
		}
		if _, skip := off[def.Reference]; skip {
			continue
		}
		selected = append(selected, def)
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Reference < selected[j].Reference
	})
	return selected
}

// Known reports whether a reference names a catalog entry.
func Known(reference string) bool {
	for _, def := range catalog {
		if def.Reference == reference {
			return true
		}
	}
	return false
}
