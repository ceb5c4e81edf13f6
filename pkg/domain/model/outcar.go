package model

// OutcarSummary holds the values scraped from an OUTCAR file. Slices and
// per-step values always refer to the last ionic step in the file.
type OutcarSummary struct {
	Converged bool

	NKpoints int
	NIons    int

	FreeEnergy   float64 // TOTEN, eV
	EnergySigma0 float64 // energy(sigma->0), eV

	HasPressure      bool
	ExternalPressure float64 // kB
	PullayStress     float64 // kB

	Positions [][3]float64 // Cartesian, Angstrom
	Forces    [][3]float64 // eV/Angstrom

	HasMagnetization    bool
	TotalMagneticMoment float64
	MagneticMoments     []float64 // per ion

	ElapsedSeconds float64
}

// BandEdges holds the DOSCAR-derived gap summary. A metallic result has all
// three values at zero.
type BandEdges struct {
	Gap float64 // eV
	VBM float64 // valence band maximum, eV
	CBM float64 // conduction band minimum, eV
}

// Results is the flat property map dumped to vasp_results.yml
type Results map[string]any
