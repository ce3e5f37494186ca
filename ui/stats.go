package ui

import (
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/hqnguyen/dk2hal/internal/errors"
	"github.com/hqnguyen/dk2hal/internal/logx"
)

// Stats is one sample of the values rendered by Bars3.
type Stats struct {
	CPU  float64 // percent, all cores combined
	Mem  float64 // percent of physical memory in use
	Temp float64 // degrees Celsius of the SoC sensor, 0 if unreadable
}

// Sample reads current CPU load, memory use, and SoC temperature. CPU load
// is measured against the previous Sample call; the first call reports usage
// since boot. A missing temperature sensor is not an error.
func Sample() (Stats, error) {
	var st Stats

	pct, err := cpu.Percent(0, false)
	if err != nil {
		return st, errors.Wrap(err, 0)
	}
	if len(pct) > 0 {
		st.CPU = pct[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return st, errors.Wrap(err, 0)
	}
	st.Mem = vm.UsedPercent

	st.Temp = readTemperature()
	return st, nil
}

// readTemperature prefers a CPU or SoC thermal zone, then falls back to the
// first sensor with a plausible reading.
func readTemperature() float64 {
	sensors, err := host.SensorsTemperatures()
	if err != nil || len(sensors) == 0 {
		return 0
	}
	for _, s := range sensors {
		key := strings.ToLower(s.SensorKey)
		if strings.Contains(key, `cpu`) || strings.Contains(key, `soc`) ||
			strings.Contains(key, `thermal`) {
			return s.Temperature
		}
	}
	for _, s := range sensors {
		if s.Temperature > 0 {
			return s.Temperature
		}
	}
	return 0
}

// ShowStats samples the system and renders the result. The sampled values
// are returned so callers can log or print them alongside the display.
func (s *Screen) ShowStats() (Stats, error) {
	if s == nil {
		return Stats{}, errors.NilReceiver()
	}
	st, err := Sample()
	if err != nil {
		return st, err
	}
	logx.Debug(`system stats sampled`, s.logger,
		`cpu`, st.CPU, `mem`, st.Mem, `temp`, st.Temp)
	return st, s.Bars3(st.CPU, st.Mem, st.Temp)
}
