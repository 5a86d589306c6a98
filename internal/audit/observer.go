package audit

// AppEventType identifies a progress event emitted while a run executes.
type AppEventType string

const (
	EventAppDiscovered   AppEventType = "app_discovered"
	EventAppEvaluating   AppEventType = "app_evaluating"
	EventAppCompliant    AppEventType = "app_compliant"
	EventAppNonCompliant AppEventType = "app_non_compliant"
	EventAppFailed       AppEventType = "app_failed"
	EventCriterionDone   AppEventType = "criterion_done"
)

// AppEvent describes one progress update for a single application.
type AppEvent struct {
	Type      AppEventType
	AppID     string
	AppName   string
	Index     int
	Reference string
	Complied  bool
	Error     string
}

// RunObserver receives progress notifications during a run. Implementations
// must be safe for concurrent use; events for different applications may
// arrive interleaved.
type RunObserver interface {
	OnRunStart(runID string, criteriaRefs []string)
	OnAppEvent(event AppEvent)
	OnRunEnd(results Results)
}

type nopObserver struct{}

func (nopObserver) OnRunStart(string, []string) {}
func (nopObserver) OnAppEvent(AppEvent)         {}
func (nopObserver) OnRunEnd(Results)            {}
