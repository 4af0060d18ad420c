package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load fills the configuration struct from environment variables based on
// `env`/`envDefault` field tags. The default .env file is loaded once per
// process, best effort: a missing file is not an error.
//
// Load parses the environment on every call. The toolkit's configs are
// small and constructed explicitly, so there is no per-type cache.
//
// Example:
//
//	type Config struct {
//		DefaultLimit int `env:"LISTER_DEFAULT_LIMIT" envDefault:"10"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Use it for configuration
// the application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
