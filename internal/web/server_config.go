package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "OVERLAY_LISTEN"
	EnvDevMode    = "OVERLAY_DEV"
)

// ServerConfig contains settings for running the preview server.
// An empty ListenAddr disables it.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr, ok := os.LookupEnv(EnvListenAddr)
	if !ok {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
