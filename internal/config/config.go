package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    string  `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis      Redis   `yaml:"redis"`
	Session    Session `yaml:"session"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Session struct {
	TTL               time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	ComputerMoveDelay time.Duration `yaml:"computer-move-delay" env:"COMPUTER_MOVE_DELAY" env-default:"500ms"`
	RoundResetDelay   time.Duration `yaml:"round-reset-delay" env:"ROUND_RESET_DELAY" env-default:"2s"`
}

// Load - reads the config file, environment variables take precedence.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Storage != StorageMemory && config.Storage != StorageRedis {
		return nil, fmt.Errorf("unknown storage %q, expected %q or %q", config.Storage, StorageMemory, StorageRedis)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
