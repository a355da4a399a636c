// Package config provides configuration loading for the resolver library
// using Viper. Configuration is loaded from YAML files with automatic
// environment variable binding.
//
// Environment variables use the RESOLVER prefix and underscore-separated
// keys:
//   - RESOLVER_RESOLVER_NAMESERVERS -> resolver.nameservers (comma-separated)
//   - RESOLVER_RESOLVER_TIMEOUT -> resolver.timeout
//   - RESOLVER_LOGGING_LEVEL -> logging.level
package config

import (
	"os"
	"strings"
)

// ResolverConfig mirrors resolver.Options in a form viper/YAML can bind to.
type ResolverConfig struct {
	Nameservers       []string `yaml:"nameservers"          mapstructure:"nameservers"`
	UseTCP            bool     `yaml:"use_tcp"              mapstructure:"use_tcp"`
	Timeout           string   `yaml:"timeout"              mapstructure:"timeout"`
	TCPTimeout        string   `yaml:"tcp_timeout"          mapstructure:"tcp_timeout"`
	MaxRetries        int      `yaml:"max_retries"          mapstructure:"max_retries"`
	PoolSize          int      `yaml:"pool_size"            mapstructure:"pool_size"`
	NSRandom          bool     `yaml:"ns_random"            mapstructure:"ns_random"`
	Domain            string   `yaml:"domain"               mapstructure:"domain"`
	SearchList        []string `yaml:"search_list"          mapstructure:"search_list"`
	CacheMaxEntries   int      `yaml:"cache_max_entries"    mapstructure:"cache_max_entries"`
	StrictQueryMode   bool     `yaml:"strict_query_mode"    mapstructure:"strict_query_mode"`
	DNSSEC            bool     `yaml:"dnssec"               mapstructure:"dnssec"`
	DNSSECADFlag      bool     `yaml:"dnssec_ad_flag"       mapstructure:"dnssec_ad_flag"`
	DNSSECCDFlag      bool     `yaml:"dnssec_cd_flag"       mapstructure:"dnssec_cd_flag"`
	DNSSECPayloadSize int      `yaml:"dnssec_payload_size"  mapstructure:"dnssec_payload_size"`
	Recurse           bool     `yaml:"recurse"              mapstructure:"recurse"`
	RateLimit         float64  `yaml:"rate_limit"           mapstructure:"rate_limit"`
	RateBurst         int      `yaml:"rate_burst"           mapstructure:"rate_burst"`
}

// AuthConfig names a TSIG key or SIG(0) signing identity used for dynamic
// updates and zone transfers. Either may be left zero-valued when auth is
// not needed.
type AuthConfig struct {
	TSIGKeyName   string `yaml:"tsig_key_name"   mapstructure:"tsig_key_name"`
	TSIGAlgorithm string `yaml:"tsig_algorithm"  mapstructure:"tsig_algorithm"`
	TSIGSecretB64 string `yaml:"tsig_secret"     mapstructure:"tsig_secret"`
	Sig0KeyID     string `yaml:"sig0_key_id"     mapstructure:"sig0_key_id"`
}

// CookieConfig controls RFC 7873 DNS Cookie behavior.
type CookieConfig struct {
	Enabled        bool   `yaml:"enabled"          mapstructure:"enabled"`
	SecretRotation string `yaml:"secret_rotation"  mapstructure:"secret_rotation"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `yaml:"level"             mapstructure:"level"             json:"level"`
	Structured       bool              `yaml:"structured"        mapstructure:"structured"        json:"structured"`
	StructuredFormat string            `yaml:"structured_format" mapstructure:"structured_format" json:"structured_format"`
	IncludePID       bool              `yaml:"include_pid"       mapstructure:"include_pid"       json:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields"      mapstructure:"extra_fields"      json:"extra_fields,omitempty"`
}

// MetricsConfig controls the Prometheus metrics registration surface.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"    mapstructure:"enabled"`
	Namespace string `yaml:"namespace"  mapstructure:"namespace"`
}

// Config is the root configuration structure.
type Config struct {
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Auth     AuthConfig     `yaml:"auth"     mapstructure:"auth"`
	Cookie   CookieConfig   `yaml:"cookie"   mapstructure:"cookie"`
	Logging  LoggingConfig  `yaml:"logging"  mapstructure:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"  mapstructure:"metrics"`
}

// ResolveConfigPath determines the config file path from flag or environment.
func ResolveConfigPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if v := strings.TrimSpace(os.Getenv("RESOLVER_CONFIG")); v != "" {
		return v
	}
	return ""
}

// Load loads configuration from a YAML file with environment variable
// overrides. This is the main entry point for loading configuration.
//
// Configuration priority (highest to lowest):
//  1. Environment variables (RESOLVER_*)
//  2. Config file values
//  3. Default values
func Load(path string) (*Config, error) {
	return loadFromSource(path)
}
