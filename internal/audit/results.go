package audit

import (
	"time"

	"appaudit/internal/criteria"
)

// Results is the complete outcome of one audit run.
type Results struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Filter     string          `json:"filter,omitempty"`
	AppID      string          `json:"app_id,omitempty"`
	Runtime    bool            `json:"runtime"`
	Window     *Window         `json:"window,omitempty"`
	Criteria   []CriterionInfo `json:"criteria"`
	Apps       []AppReport     `json:"applications"`
	Summary    Summary         `json:"summary"`
}

// Window is the half-open [From, To) range runtime criteria query.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// CriterionInfo describes one evaluated criterion. The slice kept in
// Results is ascending by reference and shared by header and rows.
type CriterionInfo struct {
	Reference   string `json:"reference"`
	Description string `json:"description"`
	Runtime     bool   `json:"runtime"`
}

// AppReport pairs an application with its ordered compliance results.
// Created once all evaluators for the application have resolved, with
// results ascending by reference; never mutated afterwards.
type AppReport struct {
	AppID   string            `json:"app_id"`
	AppName string            `json:"app_name"`
	Results []criteria.Result `json:"results"`
}

// Compliant reports whether every criterion complied.
func (r AppReport) Compliant() bool {
	for _, result := range r.Results {
		if !result.Complied {
			return false
		}
	}
	return true
}

// Summary aggregates a run's compliance counts.
type Summary struct {
	AppsTotal      int              `json:"apps_total"`
	AppsCompliant  int              `json:"apps_compliant"`
	ComplianceRate float64          `json:"compliance_rate"`
	PerCriterion   []CriterionCount `json:"per_criterion"`
}

// CriterionCount counts compliant applications for one criterion.
type CriterionCount struct {
	Reference string `json:"reference"`
	Complied  int    `json:"complied"`
}

// criteriaInfo projects definitions into their report form.
func criteriaInfo(defs []criteria.Definition) []CriterionInfo {
	info := make([]CriterionInfo, 0, len(defs))
	for _, def := range defs {
		info = append(info, CriterionInfo{
			Reference:   def.Reference,
			Description: def.Description,
			Runtime:     def.Runtime,
		})
	}
	return info
}

// summarize computes the run summary from the collected reports.
func summarize(defs []criteria.Definition, apps []AppReport) Summary {
	summary := Summary{AppsTotal: len(apps)}
	counts := make(map[string]int, len(defs))
	for _, report := range apps {
		if report.Compliant() {
			summary.AppsCompliant++
		}
		for _, result := range report.Results {
			if result.Complied {
				counts[result.Reference]++
			}
		}
	}
	for _, def := range defs {
		summary.PerCriterion = append(summary.PerCriterion, CriterionCount{
			Reference: def.Reference,
			Complied:  counts[def.Reference],
		})
	}
	if summary.AppsTotal > 0 {
		summary.ComplianceRate = float64(summary.AppsCompliant) / float64(summary.AppsTotal)
	}
	return summary
}
