package fsutil

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// FreeBytes returns the free space on the filesystem holding path.
func FreeBytes(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get disk usage for %s: %w", path, err)
	}
	return usage.Free, nil
}
