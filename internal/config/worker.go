package config

import (
	"fmt"
)

// WorkerConfig drives the periodic reconciliation cycle.
type WorkerConfig struct {
	// IntervalSeconds is the fixed delay between cycle starts. A cycle
	// that is still running when the next tick fires is not overlapped;
	// the tick is skipped.
	IntervalSeconds int `mapstructure:"interval-seconds"`
}

func (cfg *WorkerConfig) Validate() error {
	if cfg.IntervalSeconds <= 0 {
		return fmt.Errorf("worker interval must be a positive integer")
	}
	return nil
}
