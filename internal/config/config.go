package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

var ErrNegativeDuration = errors.New("durations must not be negative")

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090" validate:"required,numeric"`
	Redis    Redis  `yaml:"redis"`
	Game     Game   `yaml:"game"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379" validate:"omitempty,numeric"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:events" validate:"required_if=Enabled true"`
}

type Game struct {
	ThinkingDelay      time.Duration `yaml:"thinking-delay" env:"GAME_THINKING_DELAY" env-default:"500ms"`
	WinnerDisplay      time.Duration `yaml:"winner-display" env:"GAME_WINNER_DISPLAY" env-default:"3s"`
	MistakeProbability float64       `yaml:"mistake-probability" env:"GAME_MISTAKE_PROBABILITY" env-default:"0.4" validate:"gte=0,lte=1"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the config file, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.Game.ThinkingDelay < 0 || config.Game.WinnerDisplay < 0 {
		return nil, fmt.Errorf("invalid config: %w", ErrNegativeDuration)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
