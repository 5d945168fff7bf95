package sysinfo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMemInfo(t *testing.T) {
	input := `MemTotal:        8388608 kB
MemFree:          524288 kB
MemAvailable:    2097152 kB
Buffers:               0 kB
`
	var m Metrics
	require.NoError(t, readMemInfo(strings.NewReader(input), &m))

	assert.InDelta(t, 8.0, m.MemoryTotalGB, 0.001)
	assert.InDelta(t, 2.0, m.MemoryFreeGB, 0.001)
	assert.InDelta(t, 6.0, m.MemoryUsedGB, 0.001)
}

func TestGetMetrics(t *testing.T) {
	m := GetMetrics()
	assert.Positive(t, m.CPUCount)
	assert.Positive(t, m.Goroutines)
	assert.GreaterOrEqual(t, m.UptimeSeconds, 0.0)
}
