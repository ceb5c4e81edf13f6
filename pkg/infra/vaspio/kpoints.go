package vaspio

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
)

// AutomaticLength renders a fully automatic KPOINTS file where VASP derives
// the mesh from the length parameter Rk.
func AutomaticLength(rk int) string {
	return fmt.Sprintf("Fully automatic kpoint scheme\n0\nAutomatic\n%d\n", rk)
}

// MonkhorstPack renders an automatic Monkhorst-Pack KPOINTS file
func MonkhorstPack(grid [3]int, shift [3]float64) string {
	return renderGrid("Monkhorst", grid, shift)
}

// GammaCentered renders a Gamma-centered automatic KPOINTS file
func GammaCentered(grid [3]int, shift [3]float64) string {
	return renderGrid("Gamma", grid, shift)
}

// AutomaticDensity derives a uniform grid from a k-point density given in
// points per reciprocal atom: the divisions scale with the inverse lattice
// lengths so the reciprocal-space sampling is isotropic. A grid with any odd
// division is Gamma-centered, since a Monkhorst-Pack mesh only contains the
// Gamma point for even divisions.
func AutomaticDensity(s *model.Structure, kppa float64, forceGamma bool) string {
	lengths := s.CellLengths()
	ngrid := kppa / float64(s.NumAtoms())
	mult := math.Cbrt(ngrid * lengths[0] * lengths[1] * lengths[2])

	var grid [3]int
	anyOdd := false
	for i := 0; i < 3; i++ {
		grid[i] = int(math.Floor(math.Max(mult/lengths[i], 1)))
		if grid[i]%2 == 1 {
			anyOdd = true
		}
	}

	style := "Monkhorst"
	if forceGamma || anyOdd {
		style = "Gamma"
	}
	return renderGrid(style, grid, [3]float64{})
}

func renderGrid(style string, grid [3]int, shift [3]float64) string {
	var b strings.Builder
	b.WriteString("Automatic kpoint scheme\n0\n")
	b.WriteString(style + "\n")
	fmt.Fprintf(&b, "%d %d %d\n", grid[0], grid[1], grid[2])
	parts := make([]string, 3)
	for i, v := range shift {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	b.WriteString(strings.Join(parts, " ") + "\n")
	return b.String()
}

// WriteKpoints writes rendered KPOINTS content
func WriteKpoints(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return goerr.Wrap(err, "failed to write KPOINTS", goerr.V("path", path))
	}
	return nil
}
