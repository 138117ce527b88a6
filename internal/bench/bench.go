// Package bench times repeated engine runs and reports summary statistics.
// It replaces the teacher's hand-rolled min/max/average bookkeeping
// (cmd/gocnn-benchmark/reporter.go) with gonum/stat, and keeps the
// teacher's pprof CPU/heap profiling hooks.
package bench

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Result summarizes a series of timed engine runs, in milliseconds.
type Result struct {
	Iterations int
	MeanMS     float64
	StdDevMS   float64
	MinMS      float64
	MaxMS      float64
	TotalMS    float64
}

// Run times fn iterations times and returns summary statistics. fn is
// expected to execute one full engine.Run over a freshly prepared DRAM
// buffer, since Run mutates its input in place (§6) and is not safe to
// replay over the same buffer twice.
func Run(iterations int, fn func() error) (Result, error) {
	if iterations <= 0 {
		return Result{}, fmt.Errorf("bench: iterations must be positive, got %d", iterations)
	}

	samplesMS := make([]float64, iterations)
	min, max := 0.0, 0.0
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if err := fn(); err != nil {
			return Result{}, fmt.Errorf("bench: iteration %d: %w", i, err)
		}
		elapsed := time.Since(start).Seconds() * 1000
		samplesMS[i] = elapsed
		if i == 0 || elapsed < min {
			min = elapsed
		}
		if i == 0 || elapsed > max {
			max = elapsed
		}
	}

	mean, stddev := stat.MeanStdDev(samplesMS, nil)
	total := 0.0
	for _, s := range samplesMS {
		total += s
	}

	return Result{
		Iterations: iterations,
		MeanMS:     mean,
		StdDevMS:   stddev,
		MinMS:      min,
		MaxMS:      max,
		TotalMS:    total,
	}, nil
}

// Print writes a human-readable summary to stdout, in the teacher's
// reporter style.
func (r Result) Print() {
	fmt.Printf("Benchmark Results\n")
	fmt.Printf("=================\n\n")
	fmt.Printf("  Iterations: %d\n", r.Iterations)
	fmt.Printf("  Mean:       %.3f ms\n", r.MeanMS)
	fmt.Printf("  Std Dev:    %.3f ms\n", r.StdDevMS)
	fmt.Printf("  Min:        %.3f ms\n", r.MinMS)
	fmt.Printf("  Max:        %.3f ms\n", r.MaxMS)
	fmt.Printf("  Total:      %.3f ms\n", r.TotalMS)
}

// cpuProfile tracks the currently open CPU profile file, if any.
var cpuProfile *os.File

// StartCPUProfile begins writing a pprof CPU profile to filename.
func StartCPUProfile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("bench: failed to create CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("bench: failed to start CPU profiling: %w", err)
	}
	cpuProfile = f
	return nil
}

// StopCPUProfile stops and closes the currently open CPU profile, if any.
func StopCPUProfile() {
	if cpuProfile != nil {
		pprof.StopCPUProfile()
		cpuProfile.Close()
		cpuProfile = nil
	}
}

// WriteMemProfile forces a GC and writes a heap profile to filename.
func WriteMemProfile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("bench: failed to create memory profile file: %w", err)
	}
	defer f.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("bench: failed to write memory profile: %w", err)
	}
	return nil
}
