package graph

import (
	"fmt"
	"math"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/dem"
)

// colorBasisMapping translates the resolved 4th coordinate into a detector
// annotation: RedX=0, GreenX=1, BlueX=2, RedZ=3, GreenZ=4, BlueZ=5.
var colorBasisMapping = [6]color.ColorBasis{
	{Color: color.R, Basis: color.BasisX},
	{Color: color.G, Basis: color.BasisX},
	{Color: color.B, Basis: color.BasisX},
	{Color: color.R, Basis: color.BasisZ},
	{Color: color.G, Basis: color.BasisZ},
	{Color: color.B, Basis: color.BasisZ},
}

// detectorDeclToColorBasis resolves a detector declaration's annotation. A
// 4th coordinate of -1 marks the detector as ignored.
func detectorDeclToColorBasis(decl dem.DetectorDecl) (color.ColorBasis, error) {
	c := float64(-2)
	if len(decl.Coords) > 3 {
		c = decl.Coords[3]
	}
	r := int(c)
	if c < -1 || c > 5 || float64(r) != c {
		return color.ColorBasis{}, fmt.Errorf(
			"%w: expected all detectors to have at least 4 coordinates, with the 4th "+
				"identifying the basis and color "+
				"(RedX=0, GreenX=1, BlueX=2, RedZ=3, GreenZ=4, BlueZ=5), but got %q",
			ErrColorAnnotation, declInstrString(decl))
	}
	if r == -1 {
		return color.ColorBasis{Ignored: true}, nil
	}
	return colorBasisMapping[r], nil
}

func declInstrString(decl dem.DetectorDecl) string {
	var m dem.Model
	m.Instructions = []dem.Instruction{*decl.Instr}
	return m.String()
}

// CollectNodesFromDem walks the model and resolves the (color, basis,
// ignored) tag of every detector.
//
// If outMobiusDem is non-nil, two coordinate-annotated detector
// declarations are appended to it for every non-ignored detector: the
// resolved coordinates plus a trailing subgraph tag for each of the two
// doubled nodes. Repeat blocks are expanded.
func CollectNodesFromDem(d *dem.Model, outMobiusDem *dem.Model) ([]color.ColorBasis, error) {
	numDetectors := d.CountDetectors()
	if numDetectors > uint64(math.MaxUint32) {
		return nil, fmt.Errorf("%w: model has %d detectors", ErrDetectorTooLarge, numDetectors)
	}
	result := make([]color.ColorBasis, numDetectors)

	err := d.IterFlattenDetectors(func(decl dem.DetectorDecl) error {
		cb, err := detectorDeclToColorBasis(decl)
		if err != nil {
			return err
		}
		result[decl.ID] = cb
		if outMobiusDem == nil || cb.Ignored {
			return nil
		}

		var g0, g1 color.SubGraphCoord
		switch cb.Color {
		case color.R:
			g0, g1 = color.NotGreen, color.NotBlue
		case color.G:
			g0, g1 = color.NotRed, color.NotBlue
		case color.B:
			g0, g1 = color.NotRed, color.NotGreen
		}

		coords := append(append([]float64(nil), decl.Coords...), float64(g0))
		outMobiusDem.AppendDetector(coords, decl.ID*2+0)
		coords[len(coords)-1] = float64(g1)
		outMobiusDem.AppendDetector(coords, decl.ID*2+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
