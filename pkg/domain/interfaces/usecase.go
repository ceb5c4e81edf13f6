package interfaces

import (
	"context"

	"github.com/simstack-go/dftvasp/pkg/domain/model"
)

// PrepareUseCase generates the VASP input files and the launcher script
type PrepareUseCase interface {
	// Prepare loads the rendered settings, normalizes POSCAR, and writes
	// INCAR, KPOINTS, POTCAR, and run_vasp.sh. Input files already present
	// in the work dir are kept untouched.
	Prepare(ctx context.Context) error
}

// RunUseCase executes the launcher script
type RunUseCase interface {
	// Run executes run_vasp.sh and propagates its exit status
	Run(ctx context.Context) error
}

// ResultsUseCase extracts properties from the VASP output files
type ResultsUseCase interface {
	// Extract parses OUTCAR/DOSCAR/CONTCAR and writes the YAML summaries,
	// returning the extracted property map.
	Extract(ctx context.Context) (model.Results, error)
}
