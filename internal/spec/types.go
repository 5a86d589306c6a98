package spec

type Config struct {
	Version    int              `yaml:"version"`
	Management ManagementConfig `yaml:"management"`
	Search     SearchConfig     `yaml:"search"`
	Audit      AuditConfig      `yaml:"audit"`
	Store      StoreConfig      `yaml:"store"`
}

type ManagementConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type SearchConfig struct {
	BaseURL   string `yaml:"base_url"`
	Index     string `yaml:"index"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type AuditConfig struct {
	OutputDir      string   `yaml:"output_dir"`
	Filter         string   `yaml:"filter"`
	PageSize       int      `yaml:"page_size"`
	DelayMs        int      `yaml:"delay_ms"`
	TimeoutMs      int      `yaml:"timeout_ms"`
	Runtime        *bool    `yaml:"runtime"`
	WindowHours    int      `yaml:"window_hours"`
	MinDescription int      `yaml:"min_description"`
	Disabled       []string `yaml:"disabled"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}
