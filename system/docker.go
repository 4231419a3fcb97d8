package system

import (
	"context"

	"github.com/docker/docker/client"
)

// DockerInformation is a condensed view of the daemon used for the debug
// startup line and the usage report header.
type DockerInformation struct {
	Version         string `json:"version"`
	APIVersion      string `json:"api_version"`
	Driver          string `json:"storage_driver"`
	Containers      int    `json:"containers"`
	Running         int    `json:"containers_running"`
	Stopped         int    `json:"containers_stopped"`
	Images          int    `json:"images"`
	DockerRootDir   string `json:"root_dir"`
	OperatingSystem string `json:"operating_system"`
}

// GetDockerInfo queries the daemon's version and info endpoints.
func GetDockerInfo(ctx context.Context, c *client.Client) (DockerInformation, error) {
	version, err := c.ServerVersion(ctx)
	if err != nil {
		return DockerInformation{}, err
	}
	info, err := c.Info(ctx)
	if err != nil {
		return DockerInformation{}, err
	}
	return DockerInformation{
		Version:         version.Version,
		APIVersion:      version.APIVersion,
		Driver:          info.Driver,
		Containers:      info.Containers,
		Running:         info.ContainersRunning,
		Stopped:         info.ContainersStopped,
		Images:          info.Images,
		DockerRootDir:   info.DockerRootDir,
		OperatingSystem: info.OperatingSystem,
	}, nil
}
