package service

import (
	"time"

	"dtportal/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/atomic"
)

// Status is the host snapshot shown on the admin dashboard.
type Status struct {
	T        time.Time `json:"-"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Uptime uint64    `json:"uptime"`
	Loads  []float64 `json:"loads"`
}

// ServerService collects host status for the admin dashboard. Collection is
// guarded so overlapping requests reuse the last snapshot instead of
// sampling concurrently.
type ServerService struct {
	sampling   atomic.Bool
	lastStatus atomic.Pointer[Status]
}

// GetStatus returns a fresh host snapshot, or the previous one while a
// sample is already in flight.
func (s *ServerService) GetStatus() *Status {
	if !s.sampling.CompareAndSwap(false, true) {
		if last := s.lastStatus.Load(); last != nil {
			return last
		}
		return &Status{T: time.Now()}
	}
	defer s.sampling.Store(false)

	status := &Status{T: time.Now()}

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}
	if cores, err := cpu.Counts(false); err != nil {
		logger.Warning("get cpu cores count failed:", err)
	} else {
		status.CpuCores = cores
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	if uptime, err := host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = uptime
	}

	if avgState, err := load.Avg(); err != nil {
		logger.Warning("get load avg failed:", err)
	} else {
		status.Loads = []float64{avgState.Load1, avgState.Load5, avgState.Load15}
	}

	s.lastStatus.Store(status)
	return status
}
