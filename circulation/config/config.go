package config

import (
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/service"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/pkg/logger"
	"github.com/Astemirdum/library-circulation/pkg/postgres"
	"github.com/Astemirdum/library-circulation/pkg/tracing"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"CIRCULATION_HTTP_HOST"`
	Port         string        `yaml:"port" envconfig:"CIRCULATION_HTTP_PORT" default:"8060"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server   HTTPServer     `yaml:"server"`
	Storage  string         `yaml:"storage" envconfig:"STORAGE"`
	Database postgres.DB    `yaml:"db"`
	Kafka    kafka.Config   `yaml:"kafka"`
	Tracing  tracing.Config `yaml:"tracing"`
	Policy   service.Policy `yaml:"policy"`
	Log      logger.Log     `yaml:"log"`
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
		if err := config.validate(); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
