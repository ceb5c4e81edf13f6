package vaspio

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
	"github.com/simstack-go/dftvasp/pkg/domain/types"
)

// DefaultDOSTolerance is the density-of-states threshold below which a grid
// point counts as empty when locating the band edges.
const DefaultDOSTolerance = 1e-3

// ReadBandEdges extracts the band gap, valence band maximum, and conduction
// band minimum from a DOSCAR file. The Fermi energy sits in the fourth field
// of the sixth header line; the scan walks the total-DOS grid and takes the
// last occupied point below E_F and the first occupied point above it. A gap
// smaller than two grid steps is indistinguishable from smearing noise and
// collapses to a metallic result.
func ReadBandEdges(path string, tol float64) (*model.BandEdges, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open DOSCAR", goerr.V("path", path))
	}
	defer f.Close()

	sc := bufio.NewScanner(f)

	var header string
	for i := 0; i < 6; i++ {
		if !sc.Scan() {
			return nil, goerr.Wrap(types.ErrMalformedDOSCAR, "truncated header", goerr.V("path", path))
		}
		header = sc.Text()
	}
	fields := strings.Fields(header)
	if len(fields) < 4 {
		return nil, goerr.Wrap(types.ErrMalformedDOSCAR, "bad Fermi energy line", goerr.V("line", header))
	}
	fermi, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return nil, goerr.Wrap(types.ErrMalformedDOSCAR, "bad Fermi energy value", goerr.V("value", fields[3]))
	}

	var (
		rows     [][]float64
		stepSize float64
	)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			break
		}
		row := make([]float64, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, goerr.Wrap(types.ErrMalformedDOSCAR, "bad DOS value", goerr.V("value", f))
			}
			row = append(row, v)
		}
		rows = append(rows, row)
		if len(rows) == 2 {
			stepSize = rows[1][0] - rows[0][0]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to scan DOSCAR", goerr.V("path", path))
	}
	if len(rows) < 2 {
		return nil, goerr.Wrap(types.ErrMalformedDOSCAR, "missing DOS grid", goerr.V("path", path))
	}

	var (
		bot, top float64
		botSeen  bool
	)
	for _, row := range rows {
		e := row[0]
		// sum the density columns; the trailing half of the row holds the
		// integrated DOS
		dens := 0.0
		ncols := (len(row) - 1) / 2
		if ncols == 0 {
			ncols = len(row) - 1
		}
		for i := 1; i <= ncols; i++ {
			dens += row[i]
		}

		if e < fermi && dens > tol {
			bot = e
			botSeen = true
		} else if e > fermi && dens > tol {
			top = e
			if !botSeen {
				return nil, goerr.Wrap(types.ErrGapNotFound, "no occupied states below Fermi level",
					goerr.V("path", path))
			}
			if top-bot < stepSize*2 {
				return &model.BandEdges{}, nil
			}
			return &model.BandEdges{
				Gap: top - bot,
				VBM: bot - fermi,
				CBM: top - fermi,
			}, nil
		}
	}

	return nil, goerr.Wrap(types.ErrGapNotFound, "no occupied states above Fermi level", goerr.V("path", path))
}
