// Package cpuspec inspects the host CPU so inference can be pinned to
// performance cores on hybrid architectures.
package cpuspec

import (
	"regexp"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// CPUSpec contains information about CPU specifications
type CPUSpec struct {
	BrandName        string
	PerformanceCores int
}

// GetCPUSpec returns CPU specifications including the number of performance cores
func GetCPUSpec() CPUSpec {
	brandName := cpuid.CPU.BrandName

	return CPUSpec{
		BrandName:        brandName,
		PerformanceCores: determinePerformanceCores(brandName),
	}
}

// GetOptimalThreadCount returns the recommended number of threads for
// classifier inference.
func (c CPUSpec) GetOptimalThreadCount() int {
	// Actual available CPU count matters in VMs and containers
	availableCPUs := runtime.NumCPU()

	// On hybrid architectures prefer the performance cores only
	if c.PerformanceCores > 0 {
		if c.PerformanceCores > availableCPUs {
			return availableCPUs
		}
		return c.PerformanceCores
	}

	return cpuid.CPU.LogicalCores
}

// intelPCores maps Intel 12th-14th gen desktop model numbers to P-core counts.
var intelPCores = map[string]int{
	"12900": 8, "12700": 8, "12600": 6, "12400": 6, "12100": 4,
	"13900": 8, "13700": 8, "13600": 6, "13500": 6, "13400": 6, "13100": 4,
	"14900": 8, "14700": 8, "14600": 6, "14400": 6, "14100": 4,
}

// applePCores maps Apple Silicon chips to performance core counts.
var applePCores = map[string]int{
	"m1": 4, "m1 pro": 8, "m1 max": 8, "m1 ultra": 16,
	"m2": 4, "m2 pro": 8, "m2 max": 12, "m2 ultra": 24,
	"m3": 4, "m3 pro": 8, "m3 max": 12, "m3 ultra": 24,
	"m4": 6, "m4 pro": 8, "m4 max": 12,
}

var (
	intelCoreRegex = regexp.MustCompile(`intel.*core.*i[3579]-(\d{5})`)
	appleRegex     = regexp.MustCompile(`(?i)apple\s+(m[1234]\s*(?:pro|max|ultra)?)\s*`)
)

func determinePerformanceCores(brandName string) int {
	brandName = strings.ToLower(brandName)

	if matches := intelCoreRegex.FindStringSubmatch(brandName); len(matches) > 1 {
		if cores, ok := intelPCores[matches[1]]; ok {
			return cores
		}
	}

	if matches := appleRegex.FindStringSubmatch(brandName); len(matches) > 1 {
		chip := strings.ToLower(strings.TrimSpace(matches[1]))
		if cores, ok := applePCores[chip]; ok {
			return cores
		}
	}

	// Unknown or non-hybrid CPU
	return 0
}
