package config

import (
	"fmt"
)

// QueueConfig configures the AMQP publisher used to notify downstream
// services about settled withdrawals. Publishing is optional; when
// disabled the rest of the service runs unchanged.
type QueueConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Url           string `mapstructure:"url"`
	QueueUser     string `mapstructure:"user"`
	QueuePassword string `mapstructure:"password"`
	QueueName     string `mapstructure:"queue-name"`
}

func (cfg *QueueConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Url == "" {
		return fmt.Errorf("missing queue url")
	}

	if cfg.QueueUser == "" {
		return fmt.Errorf("missing queue user")
	}

	if cfg.QueuePassword == "" {
		return fmt.Errorf("missing queue password")
	}

	if cfg.QueueName == "" {
		return fmt.Errorf("missing queue name")
	}

	return nil
}
