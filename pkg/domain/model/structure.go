package model

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Structure is a crystal structure as described by a POSCAR/CONTCAR file:
// a scaled lattice, the element row, and fractional atom positions.
// Coordinates are always stored in direct (fractional) form; the reader
// converts Cartesian input on load.
type Structure struct {
	Comment string
	Scale   float64
	Lattice [3][3]float64 // row vectors, Angstrom (after scaling)

	Symbols []string // element symbols in POSCAR order
	Counts  []int    // atoms per element, same order

	Selective bool
	Coords    [][3]float64
	FixFlags  [][3]bool // per-atom selective dynamics flags, when Selective
}

// NumAtoms returns the total atom count
func (s *Structure) NumAtoms() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Formula returns the chemical formula in POSCAR element order, e.g. "Cs1 Pb1 I3"
func (s *Structure) Formula() string {
	parts := make([]string, 0, len(s.Symbols))
	for i, el := range s.Symbols {
		parts = append(parts, fmt.Sprintf("%s%d", el, s.Counts[i]))
	}
	return strings.Join(parts, " ")
}

// AtomSymbols expands the element row into one symbol per atom
func (s *Structure) AtomSymbols() []string {
	out := make([]string, 0, s.NumAtoms())
	for i, el := range s.Symbols {
		for j := 0; j < s.Counts[i]; j++ {
			out = append(out, el)
		}
	}
	return out
}

// Masses returns the atomic mass of every atom in amu
func (s *Structure) Masses() []float64 {
	syms := s.AtomSymbols()
	out := make([]float64, len(syms))
	for i, el := range syms {
		out[i] = AtomicMass(el)
	}
	return out
}

// latticeMatrix returns the scaled lattice as a 3x3 matrix of row vectors
func (s *Structure) latticeMatrix() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, s.Lattice[i][j])
		}
	}
	return m
}

// Volume returns the cell volume in cubic Angstrom
func (s *Structure) Volume() float64 {
	return math.Abs(mat.Det(s.latticeMatrix()))
}

// CellLengths returns the lattice vector lengths a, b, c in Angstrom
func (s *Structure) CellLengths() [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = mat.Norm(mat.NewVecDense(3, []float64{
			s.Lattice[i][0], s.Lattice[i][1], s.Lattice[i][2],
		}), 2)
	}
	return out
}

// CellAngles returns the cell angles alpha, beta, gamma in degrees, where
// alpha is the angle between b and c, and so on.
func (s *Structure) CellAngles() [3]float64 {
	lengths := s.CellLengths()
	var out [3]float64
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		vj := mat.NewVecDense(3, []float64{s.Lattice[j][0], s.Lattice[j][1], s.Lattice[j][2]})
		vk := mat.NewVecDense(3, []float64{s.Lattice[k][0], s.Lattice[k][1], s.Lattice[k][2]})
		cos := mat.Dot(vj, vk) / (lengths[j] * lengths[k])
		cos = math.Max(-1, math.Min(1, cos))
		out[i] = math.Acos(cos) * 180 / math.Pi
	}
	return out
}

// CellLengthsAndAngles returns a, b, c, alpha, beta, gamma
func (s *Structure) CellLengthsAndAngles() [6]float64 {
	l, a := s.CellLengths(), s.CellAngles()
	return [6]float64{l[0], l[1], l[2], a[0], a[1], a[2]}
}

// CartesianCoords converts the fractional coordinates to Cartesian Angstrom
func (s *Structure) CartesianCoords() [][3]float64 {
	lat := s.latticeMatrix()
	out := make([][3]float64, len(s.Coords))
	for i, c := range s.Coords {
		v := mat.NewVecDense(3, []float64{c[0], c[1], c[2]})
		var r mat.VecDense
		r.MulVec(lat.T(), v)
		out[i] = [3]float64{r.AtVec(0), r.AtVec(1), r.AtVec(2)}
	}
	return out
}

// CenterOfMass returns the mass-weighted mean position in Cartesian Angstrom
func (s *Structure) CenterOfMass() [3]float64 {
	masses := s.Masses()
	carts := s.CartesianCoords()
	var total float64
	var com [3]float64
	for i, m := range masses {
		total += m
		for j := 0; j < 3; j++ {
			com[j] += m * carts[i][j]
		}
	}
	if total == 0 {
		return com
	}
	for j := 0; j < 3; j++ {
		com[j] /= total
	}
	return com
}

// ToDirect converts Cartesian coordinates (Angstrom) into fractional ones by
// solving r = L^T x for each position.
func (s *Structure) ToDirect(cart [][3]float64) ([][3]float64, error) {
	var inv mat.Dense
	if err := inv.Inverse(s.latticeMatrix().T()); err != nil {
		return nil, fmt.Errorf("singular lattice: %w", err)
	}
	out := make([][3]float64, len(cart))
	for i, c := range cart {
		v := mat.NewVecDense(3, []float64{c[0], c[1], c[2]})
		var r mat.VecDense
		r.MulVec(&inv, v)
		out[i] = [3]float64{r.AtVec(0), r.AtVec(1), r.AtVec(2)}
	}
	return out, nil
}
