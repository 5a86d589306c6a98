package audit

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[2m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// VerboseObserver streams one line per progress event to the given
// writer. Writes are serialized so events from concurrent evaluations
// do not interleave mid-line.
type VerboseObserver struct {
	mu      sync.Mutex
	out     io.Writer
	noColor bool
}

func NewVerboseObserver(out io.Writer, noColor bool) *VerboseObserver {
	return &VerboseObserver{out: out, noColor: noColor}
}

func (o *VerboseObserver) paint(code, text string) string {
	if o.noColor {
		return text
	}
	return code + text + ansiReset
}

func (o *VerboseObserver) printf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.out, format+"\n", args...)
}

func (o *VerboseObserver) OnRunStart(runID string, criteriaRefs []string) {
	o.printf("%s run %s with criteria %s", o.paint(ansiCyan, "start"), runID, strings.Join(criteriaRefs, ", "))
}

func (o *VerboseObserver) OnAppEvent(event AppEvent) {
	switch event.Type {
	case EventAppDiscovered:
		o.printf("%s %s (%s)", o.paint(ansiDim, "discovered"), event.AppName, event.AppID)
	case EventAppEvaluating:
		o.printf("%s %s", o.paint(ansiDim, "evaluating"), event.AppName)
	case EventCriterionDone:
		verdict := o.paint(ansiGreen, "pass")
		if !event.Complied {
			verdict = o.paint(ansiYellow, "fail")
		}
		o.printf("%s %s %s", verdict, event.Reference, event.AppName)
	case EventAppCompliant:
		o.printf("%s %s", o.paint(ansiGreen, "compliant"), event.AppName)
	case EventAppNonCompliant:
		o.printf("%s %s", o.paint(ansiYellow, "non-compliant"), event.AppName)
	case EventAppFailed:
		o.printf("%s %s: %s", o.paint(ansiRed, "error"), event.AppName, event.Error)
	}
}

func (o *VerboseObserver) OnRunEnd(results Results) {
	o.printf("%s %d/%d applications compliant", o.paint(ansiCyan, "done"), results.Summary.AppsCompliant, results.Summary.AppsTotal)
}
