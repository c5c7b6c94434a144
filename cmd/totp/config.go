package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeremyhahn/go-totp/pkg/otp"
)

const envPrefix = "TOTP"

// config is resolved from flags, TOTP_* environment variables and an
// optional config file, in that order of precedence.
type config struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	Digits      uint   `mapstructure:"digits"`
	Discrepancy uint   `mapstructure:"discrepancy"`
	LogLevel    string `mapstructure:"log-level"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return config{}, fmt.Errorf("bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c config) engine(logger *zap.Logger) (*otp.Engine, error) {
	if c.Digits == 0 {
		return nil, fmt.Errorf("%w: digits must be between 1 and %d", otp.ErrInvalidConfig, otp.MaxDigits)
	}
	return otp.NewEngine(otp.EngineConfig{
		Digits:      c.Digits,
		Discrepancy: otp.Window(c.Discrepancy),
		Logger:      logger,
	})
}

func (c config) logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.DisableStacktrace = true
	return zc.Build()
}

func (c config) requireSecret() (string, error) {
	if c.Secret == "" {
		return "", fmt.Errorf("%w: secret is required (--secret or %s_SECRET)", otp.ErrInvalidConfig, envPrefix)
	}
	return c.Secret, nil
}
