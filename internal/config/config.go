package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Ref sources
const (
	RefSourceScript  = "script"
	RefSourceLocal   = "local"
	RefSourceCompare = "compare"
)

// Reconciliation strategies
const (
	StrategyClosedSet   = "closed-set"
	StrategyRunBoundary = "run-boundary"
)

// Association modes
const (
	AssociationPages   = "pages"
	AssociationCommits = "commits"
)

// Result orders
const (
	OrderRefs = "refs"
	OrderPage = "page"
)

// MaxPerPage is the largest page size the GitHub REST API accepts
const MaxPerPage = 100

// DefaultMaxRetries applies when github.max_retries is absent; 0 disables retries
const DefaultMaxRetries = 3

// Config is read once at startup and passed by value to every component.
type Config struct {
	Organization      string   `yaml:"organization"`
	Token             string   `yaml:"token"`
	Projects          []string `yaml:"projects"`
	IntegrationBranch string   `yaml:"integration_branch"`
	StagingRef        string   `yaml:"staging_ref"`
	ProductionRef     string   `yaml:"production_ref"`
	Workflow          string   `yaml:"workflow"`
	DispatchRef       string   `yaml:"dispatch_ref"`
	ApprovalToken     string   `yaml:"approval_token"`
	Timezone          string   `yaml:"timezone"`

	Refs      RefsConfig      `yaml:"refs"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	GitHub    GitHubConfig    `yaml:"github"`
	Log       LogConfig       `yaml:"log"`
}

// RefsConfig selects how the staging/production diff is obtained
type RefsConfig struct {
	Source   string `yaml:"source"`
	Script   string `yaml:"script"`
	ReposDir string `yaml:"repos_dir"`
	MaxDepth int    `yaml:"max_depth"`
	Fetch    bool   `yaml:"fetch"` // fetch tags before walking a local checkout
}

// ReconcileConfig selects the reconciliation algorithm
type ReconcileConfig struct {
	Strategy    string `yaml:"strategy"`
	Association string `yaml:"association"`
	Order       string `yaml:"order"`
}

// GitHubConfig holds API settings
type GitHubConfig struct {
	BaseURL    string `yaml:"base_url"`
	WebURL     string `yaml:"web_url"`
	PerPage    int    `yaml:"per_page"`
	Sort       string `yaml:"sort"`
	MaxRetries int    `yaml:"max_retries"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads the configuration file, applies environment overrides and defaults, and validates.
// An empty path searches the default locations.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load(".env")

	cfg := Config{GitHub: GitHubConfig{MaxRetries: DefaultMaxRetries}}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		// an explicit max_retries: 0 disables retries, only an absent one takes the default
		var retries struct {
			GitHub struct {
				MaxRetries *int `yaml:"max_retries"`
			} `yaml:"github"`
		}
		if err := yaml.Unmarshal(raw, &retries); err == nil && retries.GitHub.MaxRetries == nil {
			cfg.GitHub.MaxRetries = DefaultMaxRetries
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// SearchPaths lists the locations checked when no --config flag is given
func SearchPaths() []string {
	paths := []string{"config.yaml", "config.json"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "promote", "config.yaml"))
	}
	return paths
}

func findConfigFile() string {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		} else if !errors.Is(err, fs.ErrNotExist) {
			return p
		}
	}
	return ""
}

func (c *Config) applyEnv() {
	c.Organization = getEnv("PROMOTE_ORGANIZATION", c.Organization)
	c.Token = getEnv("PROMOTE_TOKEN", getEnv("GITHUB_TOKEN", c.Token))
	c.Log.Level = getEnv("PROMOTE_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("PROMOTE_LOG_FORMAT", c.Log.Format)
	c.Reconcile.Strategy = getEnv("PROMOTE_STRATEGY", c.Reconcile.Strategy)
	c.GitHub.MaxRetries = getEnvAsInt("PROMOTE_MAX_RETRIES", c.GitHub.MaxRetries)
}

func (c *Config) applyDefaults() {
	setDefault(&c.IntegrationBranch, "main")
	setDefault(&c.StagingRef, "staging")
	setDefault(&c.ProductionRef, "production")
	setDefault(&c.Workflow, "deploy-to-production.yml")
	setDefault(&c.DispatchRef, c.StagingRef)
	setDefault(&c.ApprovalToken, "approved")
	setDefault(&c.Timezone, "Local")

	setDefault(&c.Refs.Source, RefSourceScript)
	setDefault(&c.Refs.Script, "./fetch-new-refs.sh")
	setDefault(&c.Refs.ReposDir, ".")
	if c.Refs.MaxDepth <= 0 {
		c.Refs.MaxDepth = 5000
	}

	setDefault(&c.Reconcile.Strategy, StrategyClosedSet)
	setDefault(&c.Reconcile.Association, AssociationPages)
	setDefault(&c.Reconcile.Order, OrderRefs)

	setDefault(&c.GitHub.WebURL, "https://github.com")
	setDefault(&c.GitHub.Sort, "updated")
	if c.GitHub.PerPage <= 0 || c.GitHub.PerPage > MaxPerPage {
		c.GitHub.PerPage = MaxPerPage
	}
	if c.GitHub.MaxRetries < 0 {
		c.GitHub.MaxRetries = 0
	}

	setDefault(&c.Log.Level, "warn")
	setDefault(&c.Log.Format, "text")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required (set it in the config file, PROMOTE_TOKEN or GITHUB_TOKEN)")
	}
	if err := oneOf("refs.source", c.Refs.Source, RefSourceScript, RefSourceLocal, RefSourceCompare); err != nil {
		return err
	}
	if err := oneOf("reconcile.strategy", c.Reconcile.Strategy, StrategyClosedSet, StrategyRunBoundary); err != nil {
		return err
	}
	if err := oneOf("reconcile.association", c.Reconcile.Association, AssociationPages, AssociationCommits); err != nil {
		return err
	}
	if err := oneOf("reconcile.order", c.Reconcile.Order, OrderRefs, OrderPage); err != nil {
		return err
	}
	if err := oneOf("log.format", c.Log.Format, "text", "json"); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone merge times are rendered in
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q: must be one of %v", field, value, allowed)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
