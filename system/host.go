package system

import (
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// HostDisk describes one physical partition of the host.
type HostDisk struct {
	Device     string `json:"device"`
	Mountpoint string `json:"mountpoint"`
	TotalSpace uint64 `json:"total_space"`
	UsedSpace  uint64 `json:"used_space"`
}

// HostDiskUsage collects usage of real host partitions, skipping pseudo
// filesystems and counting each physical device once. Shown next to the
// runtime's own usage numbers so the operator can judge how much cleaning
// up is worth.
func HostDiskUsage() ([]HostDisk, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var disks []HostDisk
	for _, partition := range partitions {
		if strings.HasPrefix(partition.Fstype, "tmpfs") ||
			strings.HasPrefix(partition.Fstype, "devtmpfs") ||
			strings.HasPrefix(partition.Fstype, "overlay") ||
			strings.HasPrefix(partition.Fstype, "squashfs") ||
			partition.Fstype == "" {
			continue
		}
		if seen[partition.Device] {
			continue
		}
		usage, err := disk.Usage(partition.Mountpoint)
		if err != nil {
			continue
		}
		seen[partition.Device] = true
		disks = append(disks, HostDisk{
			Device:     partition.Device,
			Mountpoint: partition.Mountpoint,
			TotalSpace: usage.Total,
			UsedSpace:  usage.Used,
		})
	}
	return disks, nil
}
