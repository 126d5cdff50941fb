package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RepositoryPath string // hcl namespace dumps
	OverridesPath  string // <Namespace>.hcl and <Namespace>.go units

	// Namespace is the namespace to describe; Attributes, when set, limits
	// the output to those attributes.
	Namespace  string
	Attributes []string

	Prefixes  []string
	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RepositoryPath == "" {
		return nil, errors.New("RepositoryPath is a required configuration field and cannot be empty")
	}
	if cfg.Namespace == "" {
		return nil, errors.New("Namespace is a required configuration field and cannot be empty")
	}
	if cfg.LogLevel != "" {
		if _, ok := logLevels[cfg.LogLevel]; !ok {
			return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
		}
	}
	if cfg.LogFormat != "" && cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	for _, p := range cfg.Prefixes {
		if p == "" {
			return nil, errors.New("Prefixes cannot contain an empty prefix")
		}
	}

	return &cfg, nil
}
