// Package config provides configuration loading and validation for the
// resolver library.
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Environment variables (RESOLVER_* prefix)
//  2. YAML config file (if specified)
//  3. Hardcoded defaults
//
// Environment variables are mapped from RESOLVER_CATEGORY_SETTING format,
// e.g., RESOLVER_RESOLVER_TIMEOUT maps to resolver.timeout in YAML.
//
// Load() fills empty fields with defaults and truncates the nameserver list
// to resolver.MaxUpstreams; it rejects no values. Duration strings are
// parsed, and reported if invalid, by Config.ToOptions.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/corvidns/resolver/internal/resolver"
)

// initConfig sets up the config loader with defaults, env binding, and config file.
func initConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	// Uses RESOLVER_ prefix: RESOLVER_RESOLVER_TIMEOUT -> resolver.timeout
	v.SetEnvPrefix("RESOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("resolver.nameservers", []string{"8.8.8.8:53"})
	v.SetDefault("resolver.use_tcp", false)
	v.SetDefault("resolver.timeout", "3s")
	v.SetDefault("resolver.tcp_timeout", "5s")
	v.SetDefault("resolver.max_retries", 3)
	v.SetDefault("resolver.pool_size", 256)
	v.SetDefault("resolver.ns_random", false)
	v.SetDefault("resolver.search_list", []string{})
	v.SetDefault("resolver.cache_max_entries", 20000)
	v.SetDefault("resolver.strict_query_mode", false)
	v.SetDefault("resolver.dnssec", false)
	v.SetDefault("resolver.dnssec_ad_flag", false)
	v.SetDefault("resolver.dnssec_cd_flag", false)
	v.SetDefault("resolver.dnssec_payload_size", 1232)
	v.SetDefault("resolver.recurse", true)
	v.SetDefault("resolver.rate_limit", 0.0)
	v.SetDefault("resolver.rate_burst", 1)

	v.SetDefault("cookie.enabled", false)
	v.SetDefault("cookie.secret_rotation", "24h")

	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.structured", false)
	v.SetDefault("logging.structured_format", "json")
	v.SetDefault("logging.include_pid", false)
	v.SetDefault("logging.extra_fields", map[string]string{})

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "resolver")
}

// loadFromSource loads configuration from file and environment.
func loadFromSource(configPath string) (*Config, error) {
	v, err := initConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	loadResolverConfig(v, cfg)
	loadAuthConfig(v, cfg)
	loadCookieConfig(v, cfg)
	loadLoggingConfig(v, cfg)
	loadMetricsConfig(v, cfg)

	if err := normalizeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadResolverConfig(v *viper.Viper, cfg *Config) {
	cfg.Resolver.Nameservers = getStringSliceOrSplit(v, "resolver.nameservers")
	cfg.Resolver.UseTCP = v.GetBool("resolver.use_tcp")
	cfg.Resolver.Timeout = v.GetString("resolver.timeout")
	cfg.Resolver.TCPTimeout = v.GetString("resolver.tcp_timeout")
	cfg.Resolver.MaxRetries = v.GetInt("resolver.max_retries")
	cfg.Resolver.PoolSize = v.GetInt("resolver.pool_size")
	cfg.Resolver.NSRandom = v.GetBool("resolver.ns_random")
	cfg.Resolver.Domain = v.GetString("resolver.domain")
	cfg.Resolver.SearchList = getStringSliceOrSplit(v, "resolver.search_list")
	cfg.Resolver.CacheMaxEntries = v.GetInt("resolver.cache_max_entries")
	cfg.Resolver.StrictQueryMode = v.GetBool("resolver.strict_query_mode")
	cfg.Resolver.DNSSEC = v.GetBool("resolver.dnssec")
	cfg.Resolver.DNSSECADFlag = v.GetBool("resolver.dnssec_ad_flag")
	cfg.Resolver.DNSSECCDFlag = v.GetBool("resolver.dnssec_cd_flag")
	cfg.Resolver.DNSSECPayloadSize = v.GetInt("resolver.dnssec_payload_size")
	cfg.Resolver.Recurse = v.GetBool("resolver.recurse")
	cfg.Resolver.RateLimit = v.GetFloat64("resolver.rate_limit")
	cfg.Resolver.RateBurst = v.GetInt("resolver.rate_burst")
}

func loadAuthConfig(v *viper.Viper, cfg *Config) {
	cfg.Auth.TSIGKeyName = v.GetString("auth.tsig_key_name")
	cfg.Auth.TSIGAlgorithm = v.GetString("auth.tsig_algorithm")
	cfg.Auth.TSIGSecretB64 = v.GetString("auth.tsig_secret")
	cfg.Auth.Sig0KeyID = v.GetString("auth.sig0_key_id")
}

func loadCookieConfig(v *viper.Viper, cfg *Config) {
	cfg.Cookie.Enabled = v.GetBool("cookie.enabled")
	cfg.Cookie.SecretRotation = v.GetString("cookie.secret_rotation")
}

func loadLoggingConfig(v *viper.Viper, cfg *Config) {
	cfg.Logging.Level = strings.ToUpper(v.GetString("logging.level"))
	cfg.Logging.Structured = v.GetBool("logging.structured")
	cfg.Logging.StructuredFormat = v.GetString("logging.structured_format")
	cfg.Logging.IncludePID = v.GetBool("logging.include_pid")
	cfg.Logging.ExtraFields = v.GetStringMapString("logging.extra_fields")
}

func loadMetricsConfig(v *viper.Viper, cfg *Config) {
	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.Namespace = v.GetString("metrics.namespace")
}

// getStringSliceOrSplit handles both slice and comma-separated string values.
func getStringSliceOrSplit(v *viper.Viper, key string) []string {
	if slice := v.GetStringSlice(key); len(slice) > 0 {
		result := make([]string, 0, len(slice))
		for _, s := range slice {
			for _, p := range strings.Split(s, ",") {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
		}
		return result
	}
	if s := v.GetString(key); s != "" {
		parts := strings.Split(s, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return nil
}

// normalizeConfig fills defaults for empty fields and truncates the
// nameserver list; it rejects no values and always returns nil.
func normalizeConfig(cfg *Config) error {
	if len(cfg.Resolver.Nameservers) == 0 {
		cfg.Resolver.Nameservers = []string{"8.8.8.8:53"}
	}
	if len(cfg.Resolver.Nameservers) > resolver.MaxUpstreams {
		cfg.Resolver.Nameservers = cfg.Resolver.Nameservers[:resolver.MaxUpstreams]
	}
	if cfg.Resolver.MaxRetries <= 0 {
		cfg.Resolver.MaxRetries = resolver.DefaultMaxRetries
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "resolver"
	}
	if cfg.Resolver.DNSSECPayloadSize <= 0 {
		cfg.Resolver.DNSSECPayloadSize = 1232
	}
	return nil
}

// ToOptions converts the loaded configuration into a resolver.Options,
// parsing duration strings. An unparsable duration is returned as an error;
// the Options returned with it keep the resolver default for that field.
func (c *Config) ToOptions() (resolver.Options, error) {
	opts := resolver.DefaultOptions()
	opts.Nameservers = c.Resolver.Nameservers
	opts.UseTCP = c.Resolver.UseTCP
	opts.MaxRetries = c.Resolver.MaxRetries
	opts.PoolSize = c.Resolver.PoolSize
	opts.NSRandom = c.Resolver.NSRandom
	opts.Domain = c.Resolver.Domain
	opts.SearchList = c.Resolver.SearchList
	opts.CacheMaxEntries = c.Resolver.CacheMaxEntries
	opts.StrictQueryMode = c.Resolver.StrictQueryMode
	opts.DNSSEC = c.Resolver.DNSSEC
	opts.DNSSECADFlag = c.Resolver.DNSSECADFlag
	opts.DNSSECCDFlag = c.Resolver.DNSSECCDFlag
	opts.DNSSECPayloadSize = c.Resolver.DNSSECPayloadSize
	opts.Recurse = c.Resolver.Recurse
	opts.EnableCookies = c.Cookie.Enabled
	opts.RateLimit = c.Resolver.RateLimit
	opts.RateBurst = c.Resolver.RateBurst

	if c.Resolver.Timeout != "" {
		d, err := time.ParseDuration(c.Resolver.Timeout)
		if err != nil {
			return opts, errors.New("resolver.timeout: " + err.Error())
		}
		opts.Timeout = d
	}
	if c.Resolver.TCPTimeout != "" {
		d, err := time.ParseDuration(c.Resolver.TCPTimeout)
		if err != nil {
			return opts, errors.New("resolver.tcp_timeout: " + err.Error())
		}
		opts.TCPTimeout = d
	}
	return opts, nil
}
