package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings. Fields tagged
// `required` make Load fail when the variable is absent, so missing
// configuration is a startup error rather than a runtime one.
//
// Example:
//
//	type Config struct {
//	    Port       int    `env:"HTTP_PORT" envDefault:"8080"`
//	    AuthSecret string `env:"AUTH_SECRET,required"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
