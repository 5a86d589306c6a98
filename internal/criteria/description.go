package criteria

import (
	"context"
	"unicode/utf8"

	"appaudit/internal/mgmt"
)

// DefaultMinDescription is the minimum description length applied when
// no threshold is configured.
const DefaultMinDescription = 30

// minimumDescription returns the configured threshold, or the default.
func (d Deps) minimumDescription() int {
	if d.MinDescription > 0 {
		return d.MinDescription
	}
	return DefaultMinDescription
}

// evaluateDescription checks the description length in characters, not
// bytes. Pure, no side effects.
func evaluateDescription(_ context.Context, app mgmt.Application, deps Deps) (bool, error) {
	return utf8.RuneCountInString(app.Description) >= deps.minimumDescription(), nil
}
