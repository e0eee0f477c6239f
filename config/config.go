// Package config loads service settings and machine profiles.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/mastercactapus/gcbounds/volume"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr     string
	DataDir  string
	LogLevel string

	// Profile is the default machine profile; empty means none.
	Profile string
}

// Load reads settings from the environment, after loading .env if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:     getEnv("GCBOUNDS_ADDR", ":9091"),
		DataDir:  getEnv("GCBOUNDS_DATA_DIR", "./data"),
		LogLevel: getEnv("GCBOUNDS_LOG_LEVEL", "info"),
		Profile:  getEnv("GCBOUNDS_PROFILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// LoadProfile reads a YAML machine profile. Unknown keys are an error.
func LoadProfile(path string) (volume.Descriptor, error) {
	var d volume.Descriptor

	fd, err := os.Open(path)
	if err != nil {
		return d, errors.Wrap(err, "open profile")
	}
	defer fd.Close()

	dec := yaml.NewDecoder(fd)
	dec.KnownFields(true)
	err = dec.Decode(&d)
	if err != nil {
		return d, errors.Wrapf(err, "parse profile %s", path)
	}

	return d, nil
}
