package config

import (
	"appaudit/internal/criteria"
	"appaudit/internal/spec"
)

// Defaults applied by Normalize when a field is left unset.
const (
	DefaultPageSize      = 20
	DefaultDelayMs       = 200
	DefaultTimeoutMs     = 30000
	DefaultClientTimeout = 10000
	DefaultWindowHours   = 720
)

// Normalize fills unset config fields with their defaults. Explicit zero
// values for required numeric fields are treated as unset.
func Normalize(cfg *spec.Config) {
	if cfg.Management.TimeoutMs == 0 {
		cfg.Management.TimeoutMs = DefaultClientTimeout
	}
	if cfg.Search.TimeoutMs == 0 {
		cfg.Search.TimeoutMs = DefaultClientTimeout
	}
	if cfg.Audit.OutputDir == "" {
		cfg.Audit.OutputDir = DefaultOutputDir
	}
	if cfg.Audit.PageSize == 0 {
		cfg.Audit.PageSize = DefaultPageSize
	}
	if cfg.Audit.DelayMs == 0 {
		cfg.Audit.DelayMs = DefaultDelayMs
	}
	if cfg.Audit.TimeoutMs == 0 {
		cfg.Audit.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Audit.WindowHours == 0 {
		cfg.Audit.WindowHours = DefaultWindowHours
	}
	if cfg.Audit.MinDescription == 0 {
		cfg.Audit.MinDescription = criteria.DefaultMinDescription
	}
	if cfg.Audit.Runtime == nil {
		runtime := true
		cfg.Audit.Runtime = &runtime
	}
}
