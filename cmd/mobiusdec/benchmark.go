package main

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/decode"
	"github.com/qec-tools/mobiusdec/shotio"
)

func newBenchmarkCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		demPath     string
		inPath      string
		inFormat    string
		obsInPath   string
		obsInFormat string
		outPath     string
		appendObs   bool
		optionsPath string
	)
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Print accuracy and timing statistics collected while decoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer func() { _ = log.Sync() }()
			timeConfigStarts := time.Now()

			if demPath == "" {
				return fmt.Errorf("benchmark: --dem is required")
			}
			if !appendObs && obsInPath == "" {
				return fmt.Errorf("benchmark: must specify --in_includes_appended_observables or --obs_in")
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

			var obsReader *shotio.Reader
			if obsInPath != "" {
				obsFmt, err := shotio.ParseFormat(obsInFormat)
				if err != nil {
					return fmt.Errorf("--obs_in_format %q: %w", obsInFormat, err)
				}
				obsIn, closeObs, err := openInput(obsInPath, nil)
				if err != nil {
					return err
				}
				defer func() { _ = closeObs() }()
				obsReader, err = shotio.NewReader(obsIn, obsFmt, numObs)
				if err != nil {
					return err
				}
			}

			detBuf := make([]byte, shotio.BytesPerShot(bitsPerRecord))
			obsBuf := make([]byte, shotio.BytesPerShot(numObs)+8)
			numMistakes := 0
			numShots := 0
			var numDetectionEvents uint64

			timeDecodingStarts := time.Now()
			for {
				more, err := reader.Next(detBuf)
				if err != nil {
					return err
				}
				if !more {
					break
				}
				var actual color.ObsMask
				if obsReader == nil {
					actual = extractBits(detBuf, numDets, numObs)
					clearBitsFrom(detBuf, numDets)
				} else {
					more, err := obsReader.Next(obsBuf)
					if err != nil {
						return err
					}
					if !more {
						return fmt.Errorf("benchmark: obs data ended before shot data ended")
					}
					actual = color.ObsMask(binary.LittleEndian.Uint64(obsBuf[:8]))
				}
				numDetectionEvents += popcount(detBuf)
				prediction, err := decoder.DecodeDetectionEvents(detBuf)
				if err != nil {
					return err
				}
				if prediction != actual {
					numMistakes++
				}
				numShots++
			}
			timeDecodingEnds := time.Now()

			setupSeconds := timeDecodingStarts.Sub(timeConfigStarts).Seconds()
			decodingSeconds := timeDecodingEnds.Sub(timeDecodingStarts).Seconds()
			totalDetectors := uint64(numDets) * uint64(numShots)

			mistakesPerShot := 0.0
			if numShots > 0 {
				mistakesPerShot = float64(numMistakes) / float64(numShots)
			}
			detectionFraction := 0.0
			if totalDetectors > 0 {
				detectionFraction = float64(numDetectionEvents) / float64(totalDetectors)
			}
			usPerShot := 0.0
			usPerEvent := 0.0
			if numShots > 0 {
				usPerShot = decodingSeconds * 1e6 / float64(numShots)
			}
			if numDetectionEvents > 0 {
				usPerEvent = decodingSeconds * 1e6 / float64(numDetectionEvents)
			}

			fmt.Fprintf(out, "                                num_shots = %d\n", numShots)
			fmt.Fprintf(out, "                             num_mistakes = %d\n", numMistakes)
			fmt.Fprintf(out, "                        mistakes_per_shot = %v\n", mistakesPerShot)
			fmt.Fprintf(out, "\n")
			fmt.Fprintf(out, "                     num_detection_events = %d\n", numDetectionEvents)
			fmt.Fprintf(out, "                   num_detectors_per_shot = %d\n", numDets)
			fmt.Fprintf(out, "                       detection_fraction = %v\n", detectionFraction)
			fmt.Fprintf(out, "\n")
			fmt.Fprintf(out, "                            setup_seconds = %v\n", setupSeconds)
			fmt.Fprintf(out, "                         decoding_seconds = %v\n", decodingSeconds)
			fmt.Fprintf(out, "           decoding_microseconds_per_shot = %v\n", usPerShot)
			fmt.Fprintf(out, "decoding_microseconds_per_detection_event = %v\n", usPerEvent)

			log.Info("benchmark finished",
				zap.Int("num_shots", numShots),
				zap.Int("num_mistakes", numMistakes),
				zap.Float64("decoding_seconds", decodingSeconds))
			return nil
		},
	}
	cmd.Flags().StringVar(&demPath, "dem", "", "where to read the detector error model from")
	cmd.Flags().StringVar(&inPath, "in", "", "where to read detection event data (defaults to stdin)")
	cmd.Flags().StringVar(&inFormat, "in_format", "01", "format of input detection event data (01|b8)")
	cmd.Flags().BoolVar(&appendObs, "in_includes_appended_observables", false, "observables are extra detectors in detection event data")
	cmd.Flags().StringVar(&obsInPath, "obs_in", "", "read actual observables from a separate file")
	cmd.Flags().StringVar(&obsInFormat, "obs_in_format", "01", "format of separate observable data (01|b8)")
	cmd.Flags().StringVar(&outPath, "out", "", "where to write results (defaults to stdout)")
	cmd.Flags().StringVar(&optionsPath, "options", "", "YAML file of decoder configuration options")
	return cmd
}

// extractBits pulls bits [firstBit, firstBit+count) of buf into a mask.
func extractBits(buf []byte, firstBit, count int) color.ObsMask {
	var mask color.ObsMask
	for k := 0; k < count; k++ {
		bit := firstBit + k
		if buf[bit>>3]&(1<<(bit&7)) != 0 {
			mask |= color.ObsMask(1) << k
		}
	}
	return mask
}

func popcount(buf []byte) uint64 {
	var n uint64
	for _, b := range buf {
		n += uint64(bits.OnesCount8(b))
	}
	return n
}
