package cli

import (
	"github.com/bookmarkd/bookmarkd/internal/config"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// cmdEnv bundles the opened store and compiled repository config a command
// runs against.
type cmdEnv struct {
	store *store.Store
	cfg   *config.RepoConfig
}

// openEnv opens the database and loads the repo config. An empty config
// path compiles the default configuration (no scratch namespace, no ACLs).
func openEnv(dbPath, configPath string) (*cmdEnv, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
	}

	return &cmdEnv{store: st, cfg: cfg}, nil
}

func (e *cmdEnv) Close() error {
	return e.store.Close()
}
