package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qec-tools/mobiusdec/decode"
	"github.com/qec-tools/mobiusdec/shotio"
)

func newPredictCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		demPath     string
		inPath      string
		inFormat    string
		outPath     string
		outFormat   string
		appendObs   bool
		optionsPath string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict observable flips from detection event data",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer func() { _ = log.Sync() }()
			if demPath == "" {
				return fmt.Errorf("predict: --dem is required")
			}

			d, err := readDemFile(demPath)
			if err != nil {
				return err
			}
			options, err := loadDecoderOptions(optionsPath)
			if err != nil {
				return err
			}
			decoder, err := decode.FromDem(d, options)
			if err != nil {
				return err
			}

			numDets := int(d.CountDetectors())
			numObs := int(d.CountObservables())

			inFmt, err := shotio.ParseFormat(inFormat)
			if err != nil {
				return fmt.Errorf("--in_format %q: %w", inFormat, err)
			}
			outFmt, err := shotio.ParseFormat(outFormat)
			if err != nil {
				return fmt.Errorf("--out_format %q: %w", outFormat, err)
			}

			in, closeIn, err := openInput(inPath, os.Stdin)
			if err != nil {
				return err
			}
			defer func() { _ = closeIn() }()
			out, closeOut, err := openOutput(outPath, os.Stdout)
			if err != nil {
				return err
			}
			defer func() { _ = closeOut() }()

			bitsPerRecord := numDets
			if appendObs {
				bitsPerRecord += numObs
			}
			reader, err := shotio.NewReader(in, inFmt, bitsPerRecord)
			if err != nil {
				return err
			}
			writer, err := shotio.NewWriter(out, outFmt, numObs)
			if err != nil {
				return err
			}

			detBuf := make([]byte, shotio.BytesPerShot(bitsPerRecord))
			var predBuf [8]byte
			numShots := 0
			for {
				more, err := reader.Next(detBuf)
				if err != nil {
					return err
				}
				if !more {
					break
				}
				if appendObs {
					clearBitsFrom(detBuf, numDets)
				}
				prediction, err := decoder.DecodeDetectionEvents(detBuf)
				if err != nil {
					return err
				}
				binary.LittleEndian.PutUint64(predBuf[:], uint64(prediction))
				if err := writer.Write(predBuf[:]); err != nil {
					return err
				}
				numShots++
			}
			if err := writer.Flush(); err != nil {
				return err
			}
			log.Info("predict finished", zap.Int("num_shots", numShots))
			return nil
		},
	}
	cmd.Flags().StringVar(&demPath, "dem", "", "where to read the detector error model from")
	cmd.Flags().StringVar(&inPath, "in", "", "where to read detection event data (defaults to stdin)")
	cmd.Flags().StringVar(&inFormat, "in_format", "b8", "format of input detection event data (01|b8)")
	cmd.Flags().BoolVar(&appendObs, "in_includes_appended_observables", false, "input data includes observables as extra detectors to ignore")
	cmd.Flags().StringVar(&outPath, "out", "", "where to write predictions to (defaults to stdout)")
	cmd.Flags().StringVar(&outFormat, "out_format", "01", "format to use when writing predictions (01|b8)")
	cmd.Flags().StringVar(&optionsPath, "options", "", "YAML file of decoder configuration options")
	return cmd
}

// clearBitsFrom zeroes every bit at index >= firstBit.
func clearBitsFrom(buf []byte, firstBit int) {
	for k := firstBit; k < len(buf)*8; k++ {
		buf[k>>3] &^= 1 << (k & 7)
	}
}
