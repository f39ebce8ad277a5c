package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/qec-tools/mobiusdec/decode"
	"github.com/qec-tools/mobiusdec/dem"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "mobiusdec",
		Short: "Decode color-code quantum error-correction circuits via mobius matching",
		Long: `mobiusdec consumes a detector error model whose detectors carry color and
basis annotations in their 4th coordinate (RedX=0, GreenX=1, BlueX=2,
RedZ=3, GreenZ=4, BlueZ=5, ignored=-1) and predicts which logical
observables flipped in each shot of detection events.`,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging to stderr")

	logger := func() *zap.Logger {
		if verbose {
			l, err := zap.NewDevelopment()
			if err == nil {
				return l
			}
		}
		return zap.NewNop()
	}

	root.AddCommand(newPredictCmd(logger))
	root.AddCommand(newBenchmarkCmd(logger))
	root.AddCommand(newDescribeDecoderCmd(logger))
	return root
}

// loadDecoderOptions returns the default configuration, overlaid with a
// YAML options file when one is given.
func loadDecoderOptions(path string) (decode.DecoderConfigOptions, error) {
	options := decode.DefaultDecoderConfigOptions()
	if path == "" {
		return options, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return options, err
	}
	if err := yaml.Unmarshal(data, &options); err != nil {
		return options, err
	}
	return options, nil
}

// openInput returns the named file, or defaultTo when path is empty.
func openInput(path string, defaultTo *os.File) (io.Reader, func() error, error) {
	if path == "" {
		return defaultTo, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// openOutput returns the named file for writing, or defaultTo when path is
// empty.
func openOutput(path string, defaultTo *os.File) (io.Writer, func() error, error) {
	if path == "" {
		return defaultTo, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// readDemFile parses a detector error model from the named file.
func readDemFile(path string) (*dem.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return dem.Parse(string(data))
}
