//go:build !windows

package environment

import (
	"os"
	"path/filepath"
)

// defaultEndpoint probes the conventional daemon sockets on POSIX hosts:
// the system socket first, then the rootless per-user socket.
func defaultEndpoint() (string, error) {
	candidates := []string{"/var/run/docker.sock"}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "docker.sock"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", ErrUnsupportedEnvironment
}
