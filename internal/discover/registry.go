package discover

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all discovery sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// FetchConfig defines HTTP fetching configuration for a source.
type FetchConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"` // Default: 30
	MaxRetries     int     `yaml:"max_retries,omitempty"`     // Default: 3
	RateLimitRPS   float64 `yaml:"rate_limit_rps,omitempty"`  // Requests per second, default: 1.0
	ProxyURL       string  `yaml:"proxy_url,omitempty"`
	AcceptLanguage string  `yaml:"accept_language,omitempty"`
	UseCrawler     bool    `yaml:"use_crawler,omitempty"` // Use the colly crawler instead of plain HTTP
}

// SourceConfig defines a single discovery source. Keywords bias the
// classifier toward records that mention the phrases this organization
// uses to announce opportunities.
type SourceConfig struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"` // "agency", "foundation", "company", "society"
	Region   string   `yaml:"region,omitempty"`
	Country  string   `yaml:"country,omitempty"`
	Seeds    []string `yaml:"seed_urls"`
	Keywords []string `yaml:"keywords,omitempty"`

	// HTTP fetching configuration
	Fetch FetchConfig `yaml:"fetch,omitempty"`

	MaxRecords int `yaml:"max_records,omitempty"` // Cap per page, default: 50
}

// LoadRegistry reads the embedded sources.yaml and returns a Registry.
// The path parameter is a filesystem fallback for local development.
func LoadRegistry(path string) (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	// Expand environment variables within the YAML content (e.g. ${API_KEY})
	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}

// Get returns the source with the given id.
func (r *Registry) Get(id string) (SourceConfig, error) {
	for _, s := range r.Sources {
		if s.ID == id {
			return s, nil
		}
	}
	return SourceConfig{}, fmt.Errorf("source %q not found in registry", id)
}
