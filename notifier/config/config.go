package config

import (
	"log"
	"sync"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/pkg/logger"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Kafka kafka.Config `yaml:"kafka"`
	Group string       `yaml:"group" envconfig:"NOTIFIER_GROUP" default:"notifier"`
	Log   logger.Log   `yaml:"log"`
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		if len(config.Kafka.Addrs) == 0 {
			log.Fatal("NewConfig ", "KAFKA_ADDRS is required")
		}
		cfg = &config
	})

	return cfg
}
