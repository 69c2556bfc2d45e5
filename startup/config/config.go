package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	OpenSpaceDBHost string
	OpenSpaceDBPort string
	CacheHost       string
	CachePort       string
	JaegerAddress   string
}

func NewConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            os.Getenv("OPENSPACE_SERVICE_PORT"),
		OpenSpaceDBHost: os.Getenv("OPENSPACE_DB_HOST"),
		OpenSpaceDBPort: os.Getenv("OPENSPACE_DB_PORT"),
		CacheHost:       os.Getenv("OPENSPACE_CACHE_HOST"),
		CachePort:       os.Getenv("OPENSPACE_CACHE_PORT"),
		JaegerAddress:   os.Getenv("JAEGER_ADDRESS"),
	}
}
