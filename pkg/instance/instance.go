package instance

import (
	"os"

	"github.com/angelmondragon/gestor-pedidos/pkg/env"
)

// ID returns the process identifier attached to log lines: GESTOR_INSTANCE_ID,
// then the platform DYNO name, then the hostname.
func ID() string {
	if id := env.Get("GESTOR_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "api-0"
}
