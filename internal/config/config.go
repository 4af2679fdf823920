// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	AdminAPIKey string `yaml:"admin_api_key"`
	// ClaimBaseURL is the externally hosted claim page; the code id is
	// appended as a ?code= query parameter when building QR payloads.
	ClaimBaseURL string `yaml:"claim_base_url"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ChainConfig configures the direct JSON-RPC minting back-end.
type ChainConfig struct {
	RPCURL          string `yaml:"rpc_url"`
	PrivateKey      string `yaml:"private_key"` // hex, 0x prefix optional
	ContractAddress string `yaml:"contract_address"`
}

// RelayConfig configures the custodial mint-relay back-end.
type RelayConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type LimitsConfig struct {
	BatchMax       int `yaml:"batch_max"`        // max codes per create request
	ListMax        int `yaml:"list_max"`         // max codes per list request
	ClaimPerMinute int `yaml:"claim_per_minute"` // per-IP claim rate limit
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Chain    ChainConfig    `yaml:"chain"`
	Relay    RelayConfig    `yaml:"relay"`
	Limits   LimitsConfig   `yaml:"limits"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Limits.BatchMax <= 0 {
		cfg.Limits.BatchMax = 200
	}
	if cfg.Limits.ListMax <= 0 {
		cfg.Limits.ListMax = 500
	}
	if cfg.Limits.ClaimPerMinute <= 0 {
		cfg.Limits.ClaimPerMinute = 30
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Server.ClaimBaseURL == "" {
		return nil, errors.New("server.claim_base_url is required")
	}
	if !dev && cfg.Chain.RPCURL == "" && cfg.Relay.BaseURL == "" {
		return nil, errors.New("no minting back-end configured: set chain.rpc_url or relay.base_url")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// Readiness reports the presence of each required external configuration
// value without revealing it. Served by the /readyz endpoint.
func (c *Config) Readiness() map[string]bool {
	return map[string]bool{
		"database_url":           c.Database.URL != "",
		"claim_base_url":         c.Server.ClaimBaseURL != "",
		"admin_api_key":          c.Server.AdminAPIKey != "",
		"chain_rpc_url":          c.Chain.RPCURL != "",
		"chain_private_key":      c.Chain.PrivateKey != "",
		"chain_contract_address": c.Chain.ContractAddress != "",
		"relay_base_url":         c.Relay.BaseURL != "",
		"relay_api_key":          c.Relay.APIKey != "",
		"redis_url":              c.Redis.URL != "",
	}
}

// Ready is true when some minting back-end is fully configured along with
// the store and claim page. Redis is optional (rate limiting only).
func (c *Config) Ready() bool {
	chainOK := c.Chain.RPCURL != "" && c.Chain.PrivateKey != "" && c.Chain.ContractAddress != ""
	relayOK := c.Relay.BaseURL != "" && c.Relay.APIKey != ""
	minterOK := chainOK || relayOK || c.Runtime.Dev
	return c.Database.URL != "" && c.Server.ClaimBaseURL != "" && minterOK
}
