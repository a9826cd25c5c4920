package integrationtest

import (
	"sync"

	"github.com/humanbelnik/kinofav/core/internal/config"
)

var (
	cfg     *config.Config
	cfgOnce sync.Once
)

// getConfig reads the environment only; go test owns the command line flags.
func getConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg = config.FromEnv()
	})
	return cfg
}
