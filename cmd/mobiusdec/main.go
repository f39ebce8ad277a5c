// Command mobiusdec decodes color-code circuits via mobius matching.
//
// Usage:
//
//	mobiusdec predict --dem model.dem --in shots.b8 --in_format b8 --out preds.01
//	mobiusdec benchmark --dem model.dem --in shots.01 --in_includes_appended_observables
//	mobiusdec describe_decoder --in model.dem
//	mobiusdec help
//
// Unknown commands print an error and a pointer to `mobiusdec --help` to
// stderr and exit non-zero; the usage text itself is not printed.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
