package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// DefaultWorkers returns the number of physical cores, or runtime.NumCPU when
// the platform does not report them.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

type MemoryInfo struct {
	ProcessRSS  uint64
	SystemUsed  uint64
	SystemTotal uint64
	UsedPercent float64
}

// Memory samples the resident set of this process and the system-wide usage.
func Memory() (MemoryInfo, error) {
	var info MemoryInfo

	vm, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("virtual memory: %w", err)
	}
	info.SystemUsed = vm.Used
	info.SystemTotal = vm.Total
	info.UsedPercent = vm.UsedPercent

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return info, fmt.Errorf("process: %w", err)
	}
	pm, err := proc.MemoryInfo()
	if err != nil {
		return info, fmt.Errorf("process memory: %w", err)
	}
	info.ProcessRSS = pm.RSS

	return info, nil
}

func (m MemoryInfo) String() string {
	return fmt.Sprintf("RSS %s | System %s / %s (%.1f%%)",
		FormatBytes(m.ProcessRSS), FormatBytes(m.SystemUsed), FormatBytes(m.SystemTotal), m.UsedPercent)
}

func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
