package lister

// Config holds lister configuration.
type Config struct {
	// DefaultLimit is the page size used when neither defaults nor
	// persistence provide one.
	DefaultLimit int `env:"LISTER_DEFAULT_LIMIT" envDefault:"10"`

	// StoragePrefix namespaces persisted keys in the Store.
	StoragePrefix string `env:"LISTER_STORAGE_PREFIX" envDefault:"lister"`

	// RememberLimit persists the current page size across resets.
	RememberLimit bool `env:"LISTER_REMEMBER_LIMIT" envDefault:"true"`

	// RememberSorts persists the current sort order across resets.
	RememberSorts bool `env:"LISTER_REMEMBER_SORTS" envDefault:"true"`
}

// DefaultConfig returns the default lister configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:  10,
		StoragePrefix: "lister",
		RememberLimit: true,
		RememberSorts: true,
	}
}

// NewFromConfig creates a Lister from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Lister {
	configOpts := []Option{WithConfig(cfg)}
	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}
