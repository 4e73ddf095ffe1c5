package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"3000"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	GridSize   int    `yaml:"grid-size" env:"GRID_SIZE" env-default:"19"`
	StaticDir  string `yaml:"static-dir" env:"STATIC_DIR" env-default:"build"`
	CORSOrigin string `yaml:"cors-origin" env:"CORS_ORIGIN" env-default:"*"`
	Redis      Redis  `yaml:"redis" env-prefix:"REDIS_"`
}

type Redis struct {
	Enabled     bool          `yaml:"enabled" env:"ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"PORT" env-default:"6379"`
	Channel     string        `yaml:"channel" env:"CHANNEL" env-default:"connect6:snapshots"`
	SnapshotKey string        `yaml:"snapshot-key" env:"SNAPSHOT_KEY" env-default:"connect6:snapshot"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"SNAPSHOT_TTL" env-default:"1h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Default - returns the configuration built from defaults and environment only.
func Default() (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
