package runtime

import (
	"context"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/cenkalti/backoff/v4"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"

	"github.com/dockmop/dockmop/system"
)

// Docker is the Client implementation backed by the Docker Engine API.
type Docker struct {
	cli     *client.Client
	timeout time.Duration
}

// NewDocker connects to the daemon, honoring DOCKER_HOST and an optional
// explicit host override. The initial ping is retried briefly with backoff
// so a daemon that is still starting up does not count as unavailable.
func NewDocker(ctx context.Context, host string, timeout time.Duration) (*Docker, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, errors.WrapIf(ErrRuntimeUnavailable, err.Error())
	}

	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if _, err := cli.Ping(pctx); err != nil {
			return err
		}
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		_ = cli.Close()
		return nil, errors.WrapIf(ErrRuntimeUnavailable, err.Error())
	}

	return &Docker{cli: cli, timeout: timeout}, nil
}

func (d *Docker) Close() error {
	return d.cli.Close()
}

func (d *Docker) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

// List implements Client. Reference counts for volumes, networks and images
// are derived from a container listing taken in the same snapshot, since the
// Engine API does not report them on the list endpoints themselves.
func (d *Docker) List(ctx context.Context, kind Kind, filter Filter) ([]Handle, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()

	switch kind {
	case KindContainer:
		return d.listContainers(ctx, filter)
	case KindVolume:
		return d.listVolumes(ctx)
	case KindNetwork:
		return d.listNetworks(ctx)
	case KindImage:
		return d.listImages(ctx)
	}
	return nil, &QueryError{Kind: kind, Err: errors.New("unknown resource kind")}
}

func (d *Docker) listContainers(ctx context.Context, filter Filter) ([]Handle, error) {
	opts := container.ListOptions{All: true, Size: true}
	if filter.Status != "" {
		opts.Filters = filters.NewArgs(filters.Arg("status", filter.Status))
	}
	list, err := d.cli.ContainerList(ctx, opts)
	if err != nil {
		return nil, d.queryError(KindContainer, err)
	}

	handles := make([]Handle, 0, len(list))
	for _, c := range list {
		handles = append(handles, Handle{
			Kind:      KindContainer,
			ID:        c.ID,
			Name:      containerName(c.Names),
			Status:    c.State,
			SizeBytes: c.SizeRw,
			CreatedAt: time.Unix(c.Created, 0),
		})
	}
	return handles, nil
}

func (d *Docker) listVolumes(ctx context.Context) ([]Handle, error) {
	resp, err := d.cli.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, d.queryError(KindVolume, err)
	}
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, d.queryError(KindVolume, err)
	}

	refs := make(map[string]int)
	for _, c := range containers {
		for _, m := range c.Mounts {
			if m.Name != "" {
				refs[m.Name]++
			}
		}
	}

	handles := make([]Handle, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		created, _ := time.Parse(time.RFC3339, v.CreatedAt)
		handles = append(handles, Handle{
			Kind:      KindVolume,
			ID:        v.Name,
			Name:      v.Name,
			SizeBytes: SizeUnknown,
			CreatedAt: created,
			RefCount:  refs[v.Name],
		})
	}
	return handles, nil
}

func (d *Docker) listNetworks(ctx context.Context) ([]Handle, error) {
	list, err := d.cli.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, d.queryError(KindNetwork, err)
	}
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, d.queryError(KindNetwork, err)
	}

	refs := make(map[string]int)
	for _, c := range containers {
		if c.NetworkSettings == nil {
			continue
		}
		for name := range c.NetworkSettings.Networks {
			refs[name]++
		}
	}

	handles := make([]Handle, 0, len(list))
	for _, nw := range list {
		handles = append(handles, Handle{
			Kind:      KindNetwork,
			ID:        nw.ID,
			Name:      nw.Name,
			SizeBytes: SizeUnknown,
			CreatedAt: nw.Created,
			RefCount:  refs[nw.Name],
		})
	}
	return handles, nil
}

func (d *Docker) listImages(ctx context.Context) ([]Handle, error) {
	list, err := d.cli.ImageList(ctx, image.ListOptions{All: false})
	if err != nil {
		return nil, d.queryError(KindImage, err)
	}
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, d.queryError(KindImage, err)
	}

	refs := make(map[string]int)
	for _, c := range containers {
		refs[c.ImageID]++
	}

	handles := make([]Handle, 0, len(list))
	for _, img := range list {
		handles = append(handles, Handle{
			Kind:      KindImage,
			ID:        img.ID,
			Name:      imageName(img.ID, img.RepoTags),
			SizeBytes: img.Size,
			CreatedAt: time.Unix(img.Created, 0),
			RefCount:  refs[img.ID],
			Tagged:    imageTagged(img.RepoTags),
		})
	}
	return handles, nil
}

// Remove implements Client. An object that disappeared between listing and
// removal is success with zero reclaimed bytes, which makes repeated or
// concurrent runs of the tool safe.
func (d *Docker) Remove(ctx context.Context, h Handle) (int64, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()

	var err error
	switch h.Kind {
	case KindContainer:
		err = d.cli.ContainerRemove(ctx, h.ID, container.RemoveOptions{})
	case KindVolume:
		err = d.cli.VolumeRemove(ctx, h.ID, false)
	case KindNetwork:
		err = d.cli.NetworkRemove(ctx, h.ID)
	case KindImage:
		_, err = d.cli.ImageRemove(ctx, h.ID, image.RemoveOptions{PruneChildren: true})
	default:
		err = errors.New("unknown resource kind")
	}
	return removalOutcome(h, err)
}

// removalOutcome maps a removal response to the idempotent contract.
func removalOutcome(h Handle, err error) (int64, error) {
	if err == nil {
		if h.SizeBytes > 0 {
			return h.SizeBytes, nil
		}
		return 0, nil
	}
	if cerrdefs.IsNotFound(err) || client.IsErrNotFound(err) {
		return 0, nil
	}
	return 0, &RemovalError{Handle: h, Err: err}
}

// Usage implements Client using the daemon's system-wide disk usage
// endpoint, aggregated the same way `docker system df` does.
func (d *Docker) Usage(ctx context.Context) (system.UsageSnapshot, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()

	du, err := d.cli.DiskUsage(ctx, types.DiskUsageOptions{})
	if err != nil {
		if client.IsErrConnectionFailed(err) {
			return system.UsageSnapshot{}, errors.WrapIf(ErrRuntimeUnavailable, err.Error())
		}
		// Older daemons cannot compute usage. Report zeroes, not failure.
		return system.UsageSnapshot{}, nil
	}

	var snap system.UsageSnapshot
	snap.ContainersTotal = len(du.Containers)
	for _, c := range du.Containers {
		snap.ContainersSize += c.SizeRootFs
	}
	snap.ImagesTotal = len(du.Images)
	snap.ImagesSize = du.LayersSize
	for _, img := range du.Images {
		if img.Containers > 0 {
			snap.ImagesActive++
		}
	}
	snap.VolumesTotal = len(du.Volumes)
	for _, v := range du.Volumes {
		if v.UsageData != nil && v.UsageData.Size > 0 {
			snap.VolumesSize += v.UsageData.Size
		}
	}
	for _, bc := range du.BuildCache {
		if !bc.Shared {
			snap.BuildCacheSize += bc.Size
		}
	}
	return snap, nil
}

// Info returns a condensed view of the daemon for debug output.
func (d *Docker) Info(ctx context.Context) (system.DockerInformation, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()
	return system.GetDockerInfo(ctx, d.cli)
}

// PruneBuildCache implements Client.
func (d *Docker) PruneBuildCache(ctx context.Context) (int64, error) {
	ctx, cancel := d.callCtx(ctx)
	defer cancel()

	report, err := d.cli.BuildCachePrune(ctx, types.BuildCachePruneOptions{All: true})
	if err != nil {
		return 0, errors.Wrap(err, "runtime: pruning build cache")
	}
	return int64(report.SpaceReclaimed), nil
}

// queryError folds connection loss into the fatal unavailable error and
// everything else into a per-kind query error.
func (d *Docker) queryError(kind Kind, err error) error {
	if client.IsErrConnectionFailed(err) {
		return errors.WrapIf(ErrRuntimeUnavailable, err.Error())
	}
	return &QueryError{Kind: kind, Err: err}
}

func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

func imageTagged(repoTags []string) bool {
	for _, tag := range repoTags {
		if tag != "" && tag != "<none>:<none>" {
			return true
		}
	}
	return false
}

func imageName(id string, repoTags []string) string {
	for _, tag := range repoTags {
		if tag != "" && tag != "<none>:<none>" {
			return tag
		}
	}
	short := strings.TrimPrefix(id, "sha256:")
	if len(short) > 12 {
		short = short[:12]
	}
	return short
}
