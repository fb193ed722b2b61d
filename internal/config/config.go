// internal/config/config.go
package config

// Provider kinds.
const (
	KindComponents = "components"
	KindIndicator  = "indicator"
	KindPresence   = "presence"
	KindRSS        = "rss"
)

// RSS windows.
const (
	WindowAll   = "all"
	WindowToday = "today"
)

type Config struct {
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Providers  []ProviderConfig `yaml:"providers" validate:"required,min=1,dive"`
}

// ---- AGGREGATOR ----

type AggregatorConfig struct {
	TimeoutMs    int    `yaml:"timeout_ms" validate:"gte=0"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" validate:"gte=0"`
	MaxRedirects int    `yaml:"max_redirects" validate:"gte=0"`
	UserAgent    string `yaml:"user_agent"`
}

// ---- PROVIDER ----

type ProviderConfig struct {
	ID       string `yaml:"id" validate:"required"`
	Kind     string `yaml:"kind" validate:"required,oneof=components indicator presence rss"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`

	// components
	Allow         []string `yaml:"allow"`
	ComponentLink string   `yaml:"component_link"`

	// indicator (one fetch per region)
	Regions []RegionConfig `yaml:"regions" validate:"dive"`

	// presence
	Markers []string `yaml:"markers"`

	// rss
	Window string `yaml:"window" validate:"omitempty,oneof=all today"`
}

// ---- REGION ----

type RegionConfig struct {
	ID       string `yaml:"id" validate:"required"`
	Endpoint string `yaml:"endpoint" validate:"required,url"`
}
