// Package environment detects how to reach the container runtime on the
// current host. One binary serves every platform; only the daemon endpoint
// differs, so detection boils down to finding it.
package environment

import (
	"os"
	"runtime"

	"emperror.dev/errors"
)

// ErrUnsupportedEnvironment indicates no known daemon endpoint exists for
// this host. The message carries explicit guidance instead of guessing.
var ErrUnsupportedEnvironment = errors.Sentinel(
	"environment: no container runtime endpoint found for this platform; " +
		"set DOCKER_HOST (or pass --host) to the daemon's socket and run again",
)

// Environment describes the detected host runtime endpoint.
type Environment struct {
	// Platform is the host OS identifier (GOOS).
	Platform string

	// Endpoint is the daemon address to dial. Empty means the SDK default
	// for this platform applies (DOCKER_HOST was set by the operator).
	Endpoint string
}

// Detect resolves the runtime endpoint for this host. An explicit override
// wins, then DOCKER_HOST, then the platform's default socket if it exists.
func Detect(override string) (Environment, error) {
	env := Environment{Platform: runtime.GOOS}

	if override != "" {
		env.Endpoint = override
		return env, nil
	}
	if os.Getenv("DOCKER_HOST") != "" {
		return env, nil
	}

	endpoint, err := defaultEndpoint()
	if err != nil {
		return Environment{}, err
	}
	env.Endpoint = endpoint
	return env, nil
}
