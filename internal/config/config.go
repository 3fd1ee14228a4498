package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"seo-tag-analyzer/internal/crawler"
)

const (
	defaultAddr          = ":8080"
	defaultReadTimeout   = 10 * time.Second
	defaultWriteTimeout  = 60 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultFetchTimeout  = 10 * time.Second
	defaultDialTimeout   = 5 * time.Second
	defaultFetchMaxBytes = 5 * 1024 * 1024
	defaultStorePath     = "seo.db"
	defaultLogLevel      = "info"

	// EnvConfigFile names the YAML file consulted when WithFile is not given.
	EnvConfigFile = "SEO_CONFIG_FILE"

	defaultDotEnv = ".env"
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Server ServerConfig
	Fetch  FetchConfig
	Store  StoreConfig
	Log    LogConfig
	MCP    MCPConfig
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FetchConfig bounds outbound page retrieval.
type FetchConfig struct {
	Timeout     time.Duration
	DialTimeout time.Duration
	MaxBytes    int64
	UserAgent   string
}

type StoreConfig struct {
	Path string
}

type LogConfig struct {
	Level string
}

type MCPConfig struct {
	Enabled bool
}

// ValidationError lists configuration fields that are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	file         string
	fileSet      bool
	dotEnv       string
	dotEnvSet    bool
	envMap       map[string]string
	useSystemEnv bool
}

// WithFile reads overrides from a YAML file. An empty path disables the file.
func WithFile(path string) Option {
	return func(o *loaderOptions) {
		o.file = path
		o.fileSet = true
	}
}

// WithDotEnv reads KEY=value pairs from a dotenv file. An empty path
// disables it. Without this option ".env" is read when the system
// environment is in use.
func WithDotEnv(path string) Option {
	return func(o *loaderOptions) {
		o.dotEnv = path
		o.dotEnvSet = true
	}
}

// WithEnvMap injects explicit values that take precedence over the
// process environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv stops Load from consulting os.LookupEnv.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles configuration from defaults, an optional YAML file, a
// dotenv file, environment variables and explicit overrides, in increasing
// precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}
	if !options.dotEnvSet && options.useSystemEnv {
		options.dotEnv = defaultDotEnv
	}
	dotEnvValues, err := loadDotEnv(options.dotEnv)
	if err != nil {
		return Config{}, err
	}

	lookupEnv := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		value, ok := dotEnvValues[key]
		return value, ok
	}

	path := options.file
	if !options.fileSet {
		path, _ = lookupEnv(EnvConfigFile)
	}
	fileValues, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := lookupEnv(key); ok {
			return value, true
		}
		value, ok := fileValues[key]
		return value, ok
	}

	var invalid []string
	cfg := Config{
		Server: ServerConfig{
			Addr:         stringWithDefault(lookup, "SEO_SERVER_ADDR", defaultAddr),
			ReadTimeout:  durationWithDefault(lookup, "SEO_SERVER_READ_TIMEOUT", defaultReadTimeout, &invalid),
			WriteTimeout: durationWithDefault(lookup, "SEO_SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &invalid),
			IdleTimeout:  durationWithDefault(lookup, "SEO_SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &invalid),
		},
		Fetch: FetchConfig{
			Timeout:     durationWithDefault(lookup, "SEO_FETCH_TIMEOUT", defaultFetchTimeout, &invalid),
			DialTimeout: durationWithDefault(lookup, "SEO_FETCH_DIAL_TIMEOUT", defaultDialTimeout, &invalid),
			MaxBytes:    int64WithDefault(lookup, "SEO_FETCH_MAX_BYTES", defaultFetchMaxBytes, &invalid),
			UserAgent:   stringWithDefault(lookup, "SEO_FETCH_USER_AGENT", crawler.DefaultUserAgent),
		},
		Store: StoreConfig{
			Path: stringWithDefault(lookup, "SEO_STORE_PATH", defaultStorePath),
		},
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "SEO_LOG_LEVEL", defaultLogLevel)),
		},
		MCP: MCPConfig{
			Enabled: boolWithDefault(lookup, "SEO_MCP_ENABLED", true),
		},
	}

	if err := cfg.validate(invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate(invalid []string) error {
	fields := append([]string(nil), invalid...)
	if strings.TrimSpace(c.Server.Addr) == "" {
		fields = append(fields, "Server.Addr")
	}
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"Server.ReadTimeout", c.Server.ReadTimeout},
		{"Server.WriteTimeout", c.Server.WriteTimeout},
		{"Server.IdleTimeout", c.Server.IdleTimeout},
		{"Fetch.Timeout", c.Fetch.Timeout},
		{"Fetch.DialTimeout", c.Fetch.DialTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			fields = append(fields, d.name)
		}
	}
	if c.Fetch.MaxBytes <= 0 {
		fields = append(fields, "Fetch.MaxBytes")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		fields = append(fields, "Store.Path")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		fields = append(fields, "Log.Level")
	}
	if len(fields) > 0 {
		return &ValidationError{fields: dedupe(fields)}
	}
	return nil
}

type fileConfig struct {
	Server struct {
		Addr         string `yaml:"addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
		IdleTimeout  string `yaml:"idle_timeout"`
	} `yaml:"server"`
	Fetch struct {
		Timeout     string `yaml:"timeout"`
		DialTimeout string `yaml:"dial_timeout"`
		MaxBytes    string `yaml:"max_bytes"`
		UserAgent   string `yaml:"user_agent"`
	} `yaml:"fetch"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	MCP struct {
		Enabled string `yaml:"enabled"`
	} `yaml:"mcp"`
}

// loadDotEnv parses a dotenv file without touching the process
// environment. A missing file is not an error.
func loadDotEnv(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to parse %s: %w", path, err)
	}
	return values, nil
}

// loadFile flattens the YAML file into the same keys the environment uses.
// A missing file is not an error.
func loadFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: unable to parse %s: %w", path, err)
	}

	values := map[string]string{
		"SEO_SERVER_ADDR":          fc.Server.Addr,
		"SEO_SERVER_READ_TIMEOUT":  fc.Server.ReadTimeout,
		"SEO_SERVER_WRITE_TIMEOUT": fc.Server.WriteTimeout,
		"SEO_SERVER_IDLE_TIMEOUT":  fc.Server.IdleTimeout,
		"SEO_FETCH_TIMEOUT":        fc.Fetch.Timeout,
		"SEO_FETCH_DIAL_TIMEOUT":   fc.Fetch.DialTimeout,
		"SEO_FETCH_MAX_BYTES":      fc.Fetch.MaxBytes,
		"SEO_FETCH_USER_AGENT":     fc.Fetch.UserAgent,
		"SEO_STORE_PATH":           fc.Store.Path,
		"SEO_LOG_LEVEL":            fc.Log.Level,
		"SEO_MCP_ENABLED":          fc.MCP.Enabled,
	}
	for k, v := range values {
		if strings.TrimSpace(v) == "" {
			delete(values, k)
		}
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration, invalid *[]string) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			*invalid = append(*invalid, key)
			return fallback
		}
		return d
	}
	return fallback
}

func int64WithDefault(lookup func(string) (string, bool), key string, fallback int64, invalid *[]string) int64 {
	if value, ok := lookup(key); ok && value != "" {
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			*invalid = append(*invalid, key)
			return fallback
		}
		return parsed
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
