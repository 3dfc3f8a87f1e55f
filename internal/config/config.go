// Package config loads simulation settings from defaults, an optional YAML
// file, and ECONSIM_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	NumHouseholds int `mapstructure:"num_households" validate:"min=0"`
	NumFirms      int `mapstructure:"num_firms" validate:"min=0"`
	NumBanks      int `mapstructure:"num_banks" validate:"min=1"`

	DaysInMonth int `mapstructure:"days_in_month" validate:"min=1"`
	Days        int `mapstructure:"days" validate:"min=0"`

	GoodsPrice float64 `mapstructure:"goods_price" validate:"gt=0"`
	WageRate   float64 `mapstructure:"wage_rate" validate:"gt=0"`

	TargetRate      float64 `mapstructure:"target_rate" validate:"gte=0"`
	LendingSpread   float64 `mapstructure:"lending_spread" validate:"gte=0"`
	PriceWindow     int     `mapstructure:"price_window" validate:"min=1"`
	CouponFrequency int     `mapstructure:"coupon_frequency" validate:"min=1"`

	Seed int64 `mapstructure:"seed"`
	Real bool  `mapstructure:"real"`

	MetricsAddr string `mapstructure:"metrics_addr" validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("num_households", 1000)
	v.SetDefault("num_firms", 50)
	v.SetDefault("num_banks", 5)
	v.SetDefault("days_in_month", 21)
	v.SetDefault("days", 252)
	v.SetDefault("goods_price", 27)
	v.SetDefault("wage_rate", 1470)
	v.SetDefault("target_rate", 2)
	v.SetDefault("lending_spread", 0.25)
	v.SetDefault("price_window", 50)
	v.SetDefault("coupon_frequency", 2)
	v.SetDefault("seed", 0)
	v.SetDefault("real", true)
	v.SetDefault("metrics_addr", ":9102")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ECONSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
