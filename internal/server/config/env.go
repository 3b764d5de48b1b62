package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// parseEnv overlays values from the environment. Fields carry no default
// tags, so variables that are unset leave the current values in place.
func parseEnv(config *Config) {
	if err := envconfig.Process(context.Background(), config); err != nil {
		panic(err)
	}
}
