package config

import (
	"appaudit/internal/spec"
)

// validConfig returns a minimal normalized config used by validation tests.
func validConfig() spec.Config {
	runtime := true
	return spec.Config{
		Version: 1,
		Management: spec.ManagementConfig{
			BaseURL:   "https://apim.example.com/management",
			TimeoutMs: 10000,
		},
		Search: spec.SearchConfig{
			BaseURL:   "https://search.example.com",
			Index:     "gateway-requests",
			TimeoutMs: 10000,
		},
		Audit: spec.AuditConfig{
			OutputDir:      "./out",
			PageSize:       20,
			DelayMs:        200,
			TimeoutMs:      30000,
			Runtime:        &runtime,
			WindowHours:    720,
			MinDescription: 30,
		},
	}
}
