package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "config.yml"

type Config struct {
	LogLevel    string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string      `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort  string      `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7777"`
	Redis       Redis       `yaml:"redis"`
	Game        Game        `yaml:"game"`
	Leaderboard Leaderboard `yaml:"leaderboard"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB   int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Game struct {
	// TTL - how long an untouched game is kept; 0 keeps it forever.
	TTL time.Duration `yaml:"ttl" env:"GAME_TTL" env-default:"24h"`
}

type Leaderboard struct {
	Size int `yaml:"size" env:"LEADERBOARD_SIZE" env-default:"10"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads the yaml file and overrides it with environment variables.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath
	}

	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
