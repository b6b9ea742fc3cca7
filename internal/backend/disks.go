package backend

import (
	"context"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/shirou/gopsutil/disk"
)

// listDisks reports physical partitions with their free space and size.
func listDisks(ctx context.Context) ([]DiskEntry, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(parts))
	disks := make([]DiskEntry, 0, len(parts))
	for _, p := range parts {
		if seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			debug.Log(debug.BACKEND, "listDisks: usage %q: %v", p.Mountpoint, err)
			continue
		}
		if usage.Total == 0 {
			continue
		}
		disks = append(disks, describeDisk(p.Device, p.Mountpoint, usage.Free, usage.Total))
	}

	sort.Slice(disks, func(i, j int) bool { return disks[i].Path < disks[j].Path })
	return disks, nil
}

func describeDisk(device, mountpoint string, free, total uint64) DiskEntry {
	return DiskEntry{
		Name:     device,
		Path:     mountpoint,
		Load:     humanize.Bytes(free),
		Capacity: humanize.Bytes(total),
	}
}
