package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qec-tools/mobiusdec/decode"
	"github.com/qec-tools/mobiusdec/dem"
)

func newDescribeDecoderCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		inPath      string
		demPath     string
		circuitPath string
		outPath     string
		optionsPath string
	)
	cmd := &cobra.Command{
		Use:   "describe_decoder",
		Short: "Describe the internal representations used to decode a given model",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer func() { _ = log.Sync() }()
			if circuitPath != "" {
				return fmt.Errorf("describe_decoder: --circuit requires a circuit simulator and is not supported; pass a detector error model via --in or --dem")
			}

			var text string
			switch {
			case demPath != "":
				data, err := os.ReadFile(demPath)
				if err != nil {
					return err
				}
				text = string(data)
			case inPath != "":
				data, err := os.ReadFile(inPath)
				if err != nil {
					return err
				}
				text = string(data)
			default:
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				text = string(data)
			}

			d, err := dem.Parse(text)
			if err != nil {
				return err
			}
			options, err := loadDecoderOptions(optionsPath)
			if err != nil {
				return err
			}
			// Coordinates make the described mobius model legible.
			options.IncludeCoordsInMobiusDem = true
			decoder, err := decode.FromDem(d, options)
			if err != nil {
				return err
			}
			if err := decoder.CheckInvariants(); err != nil {
				return err
			}

			out, closeOut, err := openOutput(outPath, os.Stdout)
			if err != nil {
				return err
			}
			defer func() { _ = closeOut() }()
			_, err = fmt.Fprintln(out, decoder.String())
			return err
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "where to read a detector error model from (defaults to stdin)")
	cmd.Flags().StringVar(&demPath, "dem", "", "alias for --in")
	cmd.Flags().StringVar(&circuitPath, "circuit", "", "where to read a circuit from (unsupported)")
	cmd.Flags().StringVar(&outPath, "out", "", "where to write output (defaults to stdout)")
	cmd.Flags().StringVar(&optionsPath, "options", "", "YAML file of decoder configuration options")
	return cmd
}
