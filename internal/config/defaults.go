// internal/config/defaults.go
package config

// Built-in aggregator defaults.
const (
	DefaultTimeoutMs    = 10000
	DefaultMaxBodyBytes = 4 << 20
	DefaultMaxRedirects = 10
	DefaultUserAgent    = "status-aggregator/1.0"
)

// GitHubComponents is the fixed set of GitHub components shown on the dashboard.
var GitHubComponents = []string{
	"Git Operations", "Webhooks", "API Requests", "Issues", "Pull Requests",
	"Actions", "Packages", "Pages", "Codespaces", "Copilot",
}

// DatadogRegions lists the regional Datadog status pages, in display order.
var DatadogRegions = []RegionConfig{
	{ID: "EU", Endpoint: "https://status.datadoghq.eu/api/v2/status.json"},
	{ID: "US3", Endpoint: "https://status.us3.datadoghq.com/api/v2/status.json"},
	{ID: "US5", Endpoint: "https://status.us5.datadoghq.com/api/v2/status.json"},
	{ID: "AP1", Endpoint: "https://status.ap1.datadoghq.com/api/v2/status.json"},
	{ID: "GovCloud", Endpoint: "https://status.ddog-gov.com/api/v2/status.json"},
	{ID: "AP2", Endpoint: "https://status.ap2.datadoghq.com/api/v2/status.json"},
}

// Default returns the built-in provider set, already normalized.
func Default() *Config {
	regions := make([]RegionConfig, len(DatadogRegions))
	copy(regions, DatadogRegions)

	allow := make([]string, len(GitHubComponents))
	copy(allow, GitHubComponents)

	cfg := &Config{
		Providers: []ProviderConfig{
			{
				ID:       "github",
				Kind:     KindComponents,
				Endpoint: "https://www.githubstatus.com/api/v2/components.json",
				Allow:    allow,
			},
			{
				ID:       "azure",
				Kind:     KindPresence,
				Endpoint: "https://azure.status.microsoft/en-us/status/feed/",
				Markers:  []string{"<entry>"},
			},
			{
				ID:       "aws",
				Kind:     KindPresence,
				Endpoint: "https://status.aws.amazon.com/rss/all.rss",
				Markers:  []string{"<item>"},
			},
			{
				ID:      "datadog",
				Kind:    KindIndicator,
				Regions: regions,
			},
			{
				ID:       "jira",
				Kind:     KindComponents,
				Endpoint: "https://jira-software.status.atlassian.com/api/v2/components.json",
			},
			{
				ID:       "jsm",
				Kind:     KindComponents,
				Endpoint: "https://jira-service-management.status.atlassian.com/api/v2/components.json",
			},
			{
				ID:       "prisma",
				Kind:     KindComponents,
				Endpoint: "https://www.prisma-status.com/api/v2/components.json",
			},
			{
				ID:            "grafana",
				Kind:          KindComponents,
				Endpoint:      "https://status.grafana.com/api/v2/components.json",
				ComponentLink: "https://status.grafana.com/components/{id}",
			},
			{
				ID:       "okta",
				Kind:     KindRSS,
				Endpoint: "https://feeds.feedburner.com/OktaTrustRSS",
				Window:   WindowAll,
			},
			{
				ID:       "cleverbridge",
				Kind:     KindRSS,
				Endpoint: "https://status.cleverbridge.com/history.rss",
				Window:   WindowToday,
			},
		},
	}

	Normalize(cfg)
	return cfg
}
