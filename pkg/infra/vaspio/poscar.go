package vaspio

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
	"github.com/simstack-go/dftvasp/pkg/domain/types"
)

// ReadStructure parses a POSCAR/CONTCAR file. Only the VASP 5 layout with an
// element symbol row is accepted. Cartesian coordinates are converted to
// direct form and a negative scaling factor is interpreted as a target cell
// volume, so the returned structure always carries an unscaled lattice and
// fractional positions.
func ReadStructure(path string) (*model.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open structure file", goerr.V("path", path))
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read structure file", goerr.V("path", path))
	}
	if len(lines) < 8 {
		return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "file too short", goerr.V("path", path))
	}

	s := &model.Structure{Comment: strings.TrimRight(lines[0], " \t")}

	scale, err := strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
	if err != nil {
		return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "bad scaling factor", goerr.V("line", lines[1]))
	}

	for i := 0; i < 3; i++ {
		row := strings.Fields(lines[2+i])
		if len(row) < 3 {
			return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "bad lattice row", goerr.V("line", lines[2+i]))
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "bad lattice value", goerr.V("value", row[j]))
			}
			s.Lattice[i][j] = v
		}
	}

	// A negative scaling factor is the cell volume; derive the linear scale
	// from the unscaled determinant.
	if scale < 0 {
		s.Scale = 1
		vol := s.Volume()
		if vol == 0 {
			return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "degenerate lattice")
		}
		scale = math.Cbrt(-scale / vol)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s.Lattice[i][j] *= scale
		}
	}
	s.Scale = 1

	s.Symbols = strings.Fields(lines[5])
	if len(s.Symbols) == 0 || isNumeric(s.Symbols[0]) {
		return nil, goerr.Wrap(types.ErrMalformedPOSCAR,
			"element symbol row missing (VASP 4 format is not supported)", goerr.V("path", path))
	}

	counts := strings.Fields(lines[6])
	if len(counts) != len(s.Symbols) {
		return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "element and count rows differ",
			goerr.V("symbols", len(s.Symbols)), goerr.V("counts", len(counts)))
	}
	for _, c := range counts {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "bad atom count", goerr.V("value", c))
		}
		s.Counts = append(s.Counts, n)
	}

	cursor := 7
	mode := strings.TrimSpace(lines[cursor])
	if len(mode) > 0 && (mode[0] == 's' || mode[0] == 'S') {
		s.Selective = true
		cursor++
		if cursor >= len(lines) {
			return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "missing coordinate mode line")
		}
		mode = strings.TrimSpace(lines[cursor])
	}
	if mode == "" {
		return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "missing coordinate mode line")
	}
	cartesian := mode[0] == 'c' || mode[0] == 'C' || mode[0] == 'k' || mode[0] == 'K'
	cursor++

	natoms := s.NumAtoms()
	if len(lines) < cursor+natoms {
		return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "truncated coordinate block",
			goerr.V("expected", natoms), goerr.V("have", len(lines)-cursor))
	}
	for i := 0; i < natoms; i++ {
		fields := strings.Fields(lines[cursor+i])
		if len(fields) < 3 {
			return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "bad coordinate row", goerr.V("line", lines[cursor+i]))
		}
		var pos [3]float64
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, goerr.Wrap(types.ErrMalformedPOSCAR, "bad coordinate value", goerr.V("value", fields[j]))
			}
			pos[j] = v
		}
		s.Coords = append(s.Coords, pos)
		if s.Selective && len(fields) >= 6 {
			s.FixFlags = append(s.FixFlags, [3]bool{
				fields[3] == "T", fields[4] == "T", fields[5] == "T",
			})
		} else if s.Selective {
			s.FixFlags = append(s.FixFlags, [3]bool{true, true, true})
		}
	}

	if cartesian {
		carts := make([][3]float64, len(s.Coords))
		for i, c := range s.Coords {
			for j := 0; j < 3; j++ {
				carts[i][j] = c[j] * scale
			}
		}
		direct, err := s.ToDirect(carts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert Cartesian coordinates", goerr.V("path", path))
		}
		s.Coords = direct
	}

	return s, nil
}

// WriteStructure writes a structure in normalized form: VASP 5 layout, unit
// scaling factor, direct coordinates, long float format.
func WriteStructure(path string, s *model.Structure) error {
	var b strings.Builder

	comment := s.Comment
	if comment == "" {
		comment = s.Formula()
	}
	b.WriteString(comment + "\n")
	b.WriteString("   1.0000000000000000\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, " %21.16f %21.16f %21.16f\n", s.Lattice[i][0], s.Lattice[i][1], s.Lattice[i][2])
	}
	for _, el := range s.Symbols {
		fmt.Fprintf(&b, " %4s", el)
	}
	b.WriteString("\n")
	for _, n := range s.Counts {
		fmt.Fprintf(&b, " %4d", n)
	}
	b.WriteString("\n")
	if s.Selective {
		b.WriteString("Selective dynamics\n")
	}
	b.WriteString("Direct\n")
	for i, c := range s.Coords {
		fmt.Fprintf(&b, " %19.16f %19.16f %19.16f", c[0], c[1], c[2])
		if s.Selective && i < len(s.FixFlags) {
			for j := 0; j < 3; j++ {
				if s.FixFlags[i][j] {
					b.WriteString("   T")
				} else {
					b.WriteString("   F")
				}
			}
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return goerr.Wrap(err, "failed to write structure file", goerr.V("path", path))
	}
	return nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
