package vaspio_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/simstack-go/dftvasp/pkg/infra/vaspio"
)

// buildDoscar renders a minimal total-DOS file with a 0.5 eV grid from 0 to
// 10 eV. occupied decides which energies carry density.
func buildDoscar(fermi float64, occupied func(e float64) bool) string {
	var b strings.Builder
	b.WriteString("    2    2    1    0\n")
	b.WriteString("  0.8000000E+01  0.4000000E-09  0.4000000E-09  0.4000000E-09  0.5000000E-15\n")
	b.WriteString("  1.000000000000000E-004\n")
	b.WriteString("  CAR\n")
	b.WriteString("  test system\n")
	fmt.Fprintf(&b, "     10.00000000  0.00000000  21  %.8f  1.00000000\n", fermi)
	integ := 0.0
	for i := 0; i <= 20; i++ {
		e := float64(i) * 0.5
		dos := 0.0
		if occupied(e) {
			dos = 1.0
			integ += 1.0
		}
		fmt.Fprintf(&b, " %12.5f %12.5f %12.5f\n", e, dos, integ)
	}
	return b.String()
}

func TestReadBandEdges_Insulator(t *testing.T) {
	content := buildDoscar(5.0, func(e float64) bool {
		return e <= 4.0 || e >= 7.0
	})
	path := writeTemp(t, "DOSCAR", content)

	edges, err := vaspio.ReadBandEdges(path, vaspio.DefaultDOSTolerance)
	gt.NoError(t, err)
	gt.Number(t, math.Abs(edges.Gap-3.0)).Less(1e-9)
	gt.Number(t, math.Abs(edges.VBM-(-1.0))).Less(1e-9)
	gt.Number(t, math.Abs(edges.CBM-2.0)).Less(1e-9)
}

func TestReadBandEdges_Metal(t *testing.T) {
	// continuous density across the Fermi level: the apparent gap is a
	// single grid step and collapses to zero
	content := buildDoscar(5.25, func(e float64) bool { return true })
	path := writeTemp(t, "DOSCAR", content)

	edges, err := vaspio.ReadBandEdges(path, vaspio.DefaultDOSTolerance)
	gt.NoError(t, err)
	gt.Value(t, edges.Gap).Equal(0.0)
	gt.Value(t, edges.VBM).Equal(0.0)
	gt.Value(t, edges.CBM).Equal(0.0)
}

func TestReadBandEdges_TruncatedHeader(t *testing.T) {
	path := writeTemp(t, "DOSCAR", "only\nthree\nlines\n")

	_, err := vaspio.ReadBandEdges(path, vaspio.DefaultDOSTolerance)
	gt.Error(t, err)
}

func TestReadBandEdges_EmptyAboveFermi(t *testing.T) {
	// all density below the Fermi level: no conduction edge to find
	content := buildDoscar(50.0, func(e float64) bool { return true })
	path := writeTemp(t, "DOSCAR", content)

	_, err := vaspio.ReadBandEdges(path, vaspio.DefaultDOSTolerance)
	gt.Error(t, err)
}
