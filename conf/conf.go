package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/hodei-artifacts/hodei/internal/authz"
	"github.com/hodei-artifacts/hodei/internal/log"
	"github.com/hodei-artifacts/hodei/internal/metrics"
	"github.com/hodei-artifacts/hodei/internal/org"
	"github.com/hodei-artifacts/hodei/internal/tracing"
)

// Config is the root configuration, loaded from hodei.yml and the
// HODEI_-prefixed environment.
type Config struct {
	Name string `conf:"name" yaml:"name" json:"name"`

	Log     log.Config     `conf:"log" yaml:"log" json:"log"`
	Trace   tracing.Config `conf:"trace" yaml:"trace" json:"trace"`
	Authz   authz.Config   `conf:"authz" yaml:"authz" json:"authz"`
	Org     org.Config     `conf:"org" yaml:"org" json:"org"`
	Metrics metrics.Config `conf:"metrics" yaml:"metrics" json:"metrics"`
}

// Load reads the configuration. A missing config file is not an error; the
// environment and defaults are enough to run.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("hodei")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.hodei")
	v.AddConfigPath("/etc/hodei")

	v.SetEnvPrefix("HODEI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	config := Config{Name: "hodei"}

	err := v.Unmarshal(&config,
		func(dc *mapstructure.DecoderConfig) { dc.TagName = "conf" },
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)),
	)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}
