package env

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the client needs to reach the testing platform:
// where the API lives, how to authenticate, and which program/institution
// context to apply to outgoing requests by default.
type Config struct {
	// BaseURL is the root of the platform REST API, without a trailing slash.
	BaseURL string
	// TokenURL is the OAuth2 token endpoint for the client_credentials grant.
	TokenURL string
	// ClientID and ClientSecret identify this integration to the platform.
	ClientID     string
	ClientSecret string
	// Scope is the requested OAuth2 scope (optional).
	Scope string
	// DefaultProgramID is merged into requests that take a programId.
	DefaultProgramID string
	// ProgramInstitutionID is merged into institution-scoped requests (optional).
	ProgramInstitutionID string
	// RequestTimeout bounds each HTTP call. Defaults to 30s.
	RequestTimeout time.Duration
}

// requiredKeys are the settings Load refuses to proceed without.
var requiredKeys = []string{"baseUrl", "tokenUrl", "clientId", "clientSecret", "defaultProgramId"}

// ConfigError reports every required setting that is still absent after all
// sources (defaults, config file, environment) were consulted.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("env: missing required settings: %s (set them in the config file or via EDSCOPE_* variables)",
		strings.Join(e.Missing, ", "))
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	BaseURL              string `yaml:"baseUrl"`
	TokenURL             string `yaml:"tokenUrl"`
	ClientID             string `yaml:"clientId"`
	ClientSecret         string `yaml:"clientSecret"`
	Scope                string `yaml:"scope"`
	DefaultProgramID     string `yaml:"defaultProgramId"`
	ProgramInstitutionID string `yaml:"programInstitutionId"`
	RequestTimeout       string `yaml:"requestTimeout"`
}

// Load builds a Config by layering sources: built-in defaults, then the YAML
// config file at path (skipped when path is empty and ignored when absent),
// then EDSCOPE_* environment variables. Later layers win.
//
// Load fails with a *ConfigError naming every missing required setting rather
// than stopping at the first one.
func Load(path string) (*Config, error) {
	cfg := &Config{
		RequestTimeout: 30 * time.Second,
	}

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnviron(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("env: reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("env: parsing %s: %w", path, err)
	}

	setIfPresent(&cfg.BaseURL, fc.BaseURL)
	setIfPresent(&cfg.TokenURL, fc.TokenURL)
	setIfPresent(&cfg.ClientID, fc.ClientID)
	setIfPresent(&cfg.ClientSecret, fc.ClientSecret)
	setIfPresent(&cfg.Scope, fc.Scope)
	setIfPresent(&cfg.DefaultProgramID, fc.DefaultProgramID)
	setIfPresent(&cfg.ProgramInstitutionID, fc.ProgramInstitutionID)

	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("env: invalid requestTimeout %q in %s: %w", fc.RequestTimeout, path, err)
		}
		cfg.RequestTimeout = d
	}

	return nil
}

func applyEnviron(cfg *Config) error {
	setIfPresent(&cfg.BaseURL, os.Getenv("EDSCOPE_BASE_URL"))
	setIfPresent(&cfg.TokenURL, os.Getenv("EDSCOPE_TOKEN_URL"))
	setIfPresent(&cfg.ClientID, os.Getenv("EDSCOPE_CLIENT_ID"))
	setIfPresent(&cfg.ClientSecret, os.Getenv("EDSCOPE_CLIENT_SECRET"))
	setIfPresent(&cfg.Scope, os.Getenv("EDSCOPE_SCOPE"))
	setIfPresent(&cfg.DefaultProgramID, os.Getenv("EDSCOPE_PROGRAM_ID"))
	setIfPresent(&cfg.ProgramInstitutionID, os.Getenv("EDSCOPE_INSTITUTION_ID"))

	if raw := os.Getenv("EDSCOPE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("env: invalid EDSCOPE_TIMEOUT %q: %w", raw, err)
		}
		cfg.RequestTimeout = d
	}

	return nil
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	present := map[string]string{
		"baseUrl":          c.BaseURL,
		"tokenUrl":         c.TokenURL,
		"clientId":         c.ClientID,
		"clientSecret":     c.ClientSecret,
		"defaultProgramId": c.DefaultProgramID,
	}

	var missing []string
	for _, key := range requiredKeys {
		if present[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ConfigError{Missing: missing}
	}

	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

// Lookup resolves a contextual setting by its injection key. The parameter
// injector uses these keys in auto-inject maps; credentials are deliberately
// not reachable this way.
func (c *Config) Lookup(key string) (string, bool) {
	switch key {
	case "defaultProgramId":
		return c.DefaultProgramID, c.DefaultProgramID != ""
	case "programInstitutionId":
		return c.ProgramInstitutionID, c.ProgramInstitutionID != ""
	case "baseUrl":
		return c.BaseURL, c.BaseURL != ""
	case "scope":
		return c.Scope, c.Scope != ""
	default:
		return "", false
	}
}
