// Package config loads the engine daemon's configuration from file and
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full daemon configuration.
type Config struct {
	// Engine settings
	Authority    string `mapstructure:"authority"`
	FeeRecipient string `mapstructure:"fee_recipient"`
	NativeDenom  string `mapstructure:"native_denom"`
	UtilityDenom string `mapstructure:"utility_denom"`

	// Engine parameters (basis points / durations)
	SwapFeeBps              uint64        `mapstructure:"swap_fee_bps"`
	ProtocolFeeShareBps     uint64        `mapstructure:"protocol_fee_share_bps"`
	PriceImpactThresholdBps uint64        `mapstructure:"price_impact_threshold_bps"`
	BreakerCooldown         time.Duration `mapstructure:"breaker_cooldown"`

	// API server settings
	APIHost         string        `mapstructure:"api_host"`
	APIPort         string        `mapstructure:"api_port"`
	RateLimitRPS    int           `mapstructure:"rate_limit_rps"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("authority", "")
	v.SetDefault("fee_recipient", "")
	v.SetDefault("native_denom", "ushard")
	v.SetDefault("utility_denom", "uspark")

	v.SetDefault("swap_fee_bps", 30)
	v.SetDefault("protocol_fee_share_bps", 5000)
	v.SetDefault("price_impact_threshold_bps", 2000)
	v.SetDefault("breaker_cooldown", time.Hour)

	v.SetDefault("api_host", "0.0.0.0")
	v.SetDefault("api_port", "8080")
	v.SetDefault("rate_limit_rps", 100)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetDefault("log_level", "info")
}

// Load reads configuration from the given file (optional) and SHARDEX_*
// environment variables, with sane defaults for everything else.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SHARDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.NativeDenom == "" || c.UtilityDenom == "" {
		return fmt.Errorf("native_denom and utility_denom are required")
	}
	if c.NativeDenom == c.UtilityDenom {
		return fmt.Errorf("native_denom and utility_denom must differ")
	}
	if c.SwapFeeBps >= 10000 {
		return fmt.Errorf("swap_fee_bps %d must be below 10000", c.SwapFeeBps)
	}
	if c.ProtocolFeeShareBps > 10000 {
		return fmt.Errorf("protocol_fee_share_bps %d must be at most 10000", c.ProtocolFeeShareBps)
	}
	if c.APIPort == "" {
		return fmt.Errorf("api_port is required")
	}
	return nil
}
