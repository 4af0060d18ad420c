// Package config loads configuration structs from environment variables via
// `env`/`envDefault` struct tags, with optional .env file support.
//
// The toolkit's packages ship Config structs tagged for this loader (see
// lister.Config); hosts either fill them explicitly or call Load once at
// startup:
//
//	var cfg lister.Config
//	config.MustLoad(&cfg)
//	l := lister.NewFromConfig(cfg)
package config
