package utils

import (
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type SystemUsage struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// GetCPUUsage samples CPU usage over a short window
func GetCPUUsage(window time.Duration) float64 {
	percentage, err := cpu.Percent(window, false)
	if err != nil {
		slog.Warn("reading cpu usage", "error", err)
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}

func GetSystemUsage() SystemUsage {
	usage := SystemUsage{CPUPercent: GetCPUUsage(200 * time.Millisecond)}
	if vm, err := mem.VirtualMemory(); err == nil {
		usage.MemoryPercent = vm.UsedPercent
	} else {
		slog.Warn("reading memory usage", "error", err)
	}
	return usage
}
