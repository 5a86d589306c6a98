package config

import (
	"fmt"
	"net/url"
	"strings"

	"appaudit/internal/criteria"
	"appaudit/internal/spec"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

// add records a new validation issue.
func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// result returns a ValidationError when issues are present.
func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config for correctness.
func Validate(cfg *spec.Config) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	validateManagement(cfg, collector.add)
	validateAudit(cfg, collector.add)
	if cfg.Audit.Runtime != nil && *cfg.Audit.Runtime {
		validateSearch(cfg, collector.add)
	}

	return collector.result()
}

func validateManagement(cfg *spec.Config, add func(field, message string)) {
	if strings.TrimSpace(cfg.Management.BaseURL) == "" {
		add("management.base_url", "is required")
	} else if !isAbsoluteURL(cfg.Management.BaseURL) {
		add("management.base_url", fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.Management.BaseURL))
	}
	if cfg.Management.TimeoutMs < 0 {
		add("management.timeout_ms", "must be >= 0")
	}
}

func validateSearch(cfg *spec.Config, add func(field, message string)) {
	if strings.TrimSpace(cfg.Search.BaseURL) == "" {
		add("search.base_url", "is required when audit.runtime is enabled")
	} else if !isAbsoluteURL(cfg.Search.BaseURL) {
		add("search.base_url", fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.Search.BaseURL))
	}
	if strings.TrimSpace(cfg.Search.Index) == "" {
		add("search.index", "is required when audit.runtime is enabled")
	}
	if cfg.Search.TimeoutMs < 0 {
		add("search.timeout_ms", "must be >= 0")
	}
}

func validateAudit(cfg *spec.Config, add func(field, message string)) {
	if strings.TrimSpace(cfg.Audit.OutputDir) == "" {
		add("audit.output_dir", "is required")
	}
	if cfg.Audit.PageSize < 1 {
		add("audit.page_size", "must be >= 1")
	}
	if cfg.Audit.DelayMs < 0 {
		add("audit.delay_ms", "must be >= 0")
	}
	if cfg.Audit.TimeoutMs < 1 {
		add("audit.timeout_ms", "must be >= 1")
	}
	if cfg.Audit.WindowHours < 1 {
		add("audit.window_hours", "must be >= 1")
	}
	if cfg.Audit.MinDescription < 1 {
		add("audit.min_description", "must be >= 1")
	}

	seen := map[string]struct{}{}
	for i, ref := range cfg.Audit.Disabled {
		field := fmt.Sprintf("audit.disabled[%d]", i)
		ref = strings.TrimSpace(ref)
		if ref == "" {
			add(field, "is required")
			continue
		}
		if !criteria.Known(ref) {
			add(field, fmt.Sprintf("unknown criterion %q", ref))
			continue
		}
		if _, dup := seen[ref]; dup {
			add(field, fmt.Sprintf("duplicate criterion %q", ref))
		}
		seen[ref] = struct{}{}
	}
}

// isAbsoluteURL reports whether value parses as an absolute http(s) URL.
func isAbsoluteURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
