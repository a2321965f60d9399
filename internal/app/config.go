package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	Addr string `env:"GLOAMDELVE_ADDR" envDefault:":8080"`

	Seed        string `env:"GLOAMDELVE_SEED" envDefault:"gloamdelve"`
	DepthCount  int    `env:"GLOAMDELVE_DEPTHS" envDefault:"26"`
	LevelWidth  int    `env:"GLOAMDELVE_LEVEL_WIDTH" envDefault:"79"`
	LevelHeight int    `env:"GLOAMDELVE_LEVEL_HEIGHT" envDefault:"29"`

	LogSinks    []string `env:"GLOAMDELVE_LOG_SINKS" envSeparator:"," envDefault:"console"`
	LogJSONPath string   `env:"GLOAMDELVE_LOG_JSON_PATH" envDefault:"events.ndjson"`
	EventDBPath string   `env:"GLOAMDELVE_EVENT_DB" envDefault:"events.db"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
