package criteria

import (
	"context"
	"regexp"

	"appaudit/internal/mgmt"
)

// namePattern is the structural naming convention: an optional namespace
// block, one or more hyphen-joined words, and an optional two-letter
// country suffix, all separated by " - ". Case-sensitive.
var namePattern = regexp.MustCompile(`^(\w+(-\w+)* - )?\w+(-\w+)*( - [A-Z]{2})?$`)

// evaluateNaming checks the name against the naming convention. Pure,
// no side effects.
func evaluateNaming(_ context.Context, app mgmt.Application, _ Deps) (bool, error) {
	return namePattern.MatchString(app.Name), nil
}
