package logcfg

import (
	"os"

	logs "github.com/danmuck/smplog"
)

const envConfigPath = "LISTBENCH_LOG_CONFIG"

// Load returns the smplog configuration for a binary. An explicit path wins,
// then $LISTBENCH_LOG_CONFIG, then the local candidates; defaults otherwise.
func Load(explicit string) logs.Config {
	candidates := make([]string, 0, 4)
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	if path := os.Getenv(envConfigPath); path != "" {
		candidates = append(candidates, path)
	}
	candidates = append(candidates,
		"./smplog.config.toml",
		"./local/smplog.config.toml",
	)

	for _, path := range candidates {
		if cfg, err := logs.ConfigFromFile(path); err == nil {
			return cfg
		}
	}

	return logs.DefaultConfig()
}
