package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fpgacnn/internal/bench"
	"fpgacnn/internal/engine"
)

var (
	benchNetworkPath string
	benchWeightsPath string
	benchImagePath   string
	benchIterations  int
	benchNumPE       int
	cpuProfilePath   string
	memProfilePath   string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time repeated inference passes and report summary statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := prepare(benchNetworkPath, benchWeightsPath, benchImagePath)
		if err != nil {
			return fmt.Errorf("bench: %w", err)
		}

		if cpuProfilePath != "" {
			if err := bench.StartCPUProfile(cpuProfilePath); err != nil {
				return fmt.Errorf("bench: %w", err)
			}
			defer bench.StopCPUProfile()
		}

		cfg := engine.Config{NumPE: benchNumPE}
		result, err := bench.Run(benchIterations, func() error {
			dram := p.dram()
			return engine.Run(dram, uint32(len(p.layers)), p.weightsOffset, p.inputOffset, cfg)
		})
		if err != nil {
			return fmt.Errorf("bench: %w", err)
		}
		result.Print()

		if memProfilePath != "" {
			if err := bench.WriteMemProfile(memProfilePath); err != nil {
				return fmt.Errorf("bench: %w", err)
			}
		}
		return nil
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchNetworkPath, "network", "", "path to network description YAML (required)")
	benchCmd.Flags().StringVar(&benchWeightsPath, "weights", "", "path to packed weights binary (required)")
	benchCmd.Flags().StringVar(&benchImagePath, "image", "", "path to input image binary (required)")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 10, "number of timed iterations")
	benchCmd.Flags().IntVar(&benchNumPE, "num-pe", 1, "number of cooperating Processing Elements")
	benchCmd.Flags().StringVar(&cpuProfilePath, "cpu-profile", "", "write a CPU profile to this path")
	benchCmd.Flags().StringVar(&memProfilePath, "mem-profile", "", "write a heap profile to this path")
	benchCmd.MarkFlagRequired("network")
	benchCmd.MarkFlagRequired("weights")
	benchCmd.MarkFlagRequired("image")
}
