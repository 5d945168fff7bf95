// Package sysinfo reports host and process metrics for the dashboard system panel
package sysinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Metrics describes the host and the running process
type Metrics struct {
	CPUCount      int     `json:"cpuCount"`
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heapAllocMb"`
	MemoryTotalGB float64 `json:"memoryTotalGb,omitempty"`
	MemoryUsedGB  float64 `json:"memoryUsedGb,omitempty"`
	MemoryFreeGB  float64 `json:"memoryFreeGb,omitempty"`
	UptimeSeconds float64 `json:"uptime"`
}

var started = time.Now()

// GetMetrics returns process metrics plus host memory when /proc/meminfo is readable.
// Host memory is left zero on other platforms.
func GetMetrics() Metrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	metrics := Metrics{
		CPUCount:      runtime.NumCPU(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(mem.HeapAlloc) / (1024 * 1024),
		UptimeSeconds: time.Since(started).Seconds(),
	}

	if f, err := os.Open("/proc/meminfo"); err == nil {
		defer f.Close()
		_ = readMemInfo(f, &metrics)
	}

	return metrics
}

// readMemInfo parses the /proc/meminfo format
func readMemInfo(r io.Reader, metrics *Metrics) error {
	var memTotal, memAvailable float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			memTotal = value / (1024 * 1024) // KB to GB
		case strings.HasPrefix(line, "MemAvailable:"):
			memAvailable = value / (1024 * 1024)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading meminfo: %w", err)
	}

	metrics.MemoryTotalGB = memTotal
	metrics.MemoryFreeGB = memAvailable
	metrics.MemoryUsedGB = memTotal - memAvailable
	return nil
}
