package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fpgacnn/internal/assets"
	"fpgacnn/internal/engine"
	"fpgacnn/internal/ops"
)

var (
	networkPath string
	weightsPath string
	imagePath   string
	numPE       int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one inference pass over an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := prepare(networkPath, weightsPath, imagePath)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		chOut, err := p.terminalChannelsOut()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		dram := p.dram()
		cfg := engine.Config{NumPE: numPE, Logger: logrus.StandardLogger()}
		if err := engine.Run(dram, uint32(len(p.layers)), p.weightsOffset, p.inputOffset, cfg); err != nil {
			return fmt.Errorf("run: %w", err)
		}

		logits := assets.ReadResult(dram, p.inputOffset, chOut)
		probs := ops.Softmax(logits)

		best := 0
		for i, v := range probs {
			if v > probs[best] {
				best = i
			}
		}

		fmt.Printf("predicted class: %d (p=%.4f)\n", best, probs[best])
		for i, v := range probs {
			fmt.Printf("  class %2d: %.4f\n", i, v)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&networkPath, "network", "", "path to network description YAML (required)")
	runCmd.Flags().StringVar(&weightsPath, "weights", "", "path to packed weights binary (required)")
	runCmd.Flags().StringVar(&imagePath, "image", "", "path to input image binary (required)")
	runCmd.Flags().IntVar(&numPE, "num-pe", 1, "number of cooperating Processing Elements")
	runCmd.MarkFlagRequired("network")
	runCmd.MarkFlagRequired("weights")
	runCmd.MarkFlagRequired("image")
}
