package types

// Version is the application version, overridden at build time via ldflags
var Version = "0.1.0"

// Standard VASP file names. Their formats are owned by VASP; dftvasp only
// generates the input side and scrapes selected values from the output side.
const (
	FileINCAR   = "INCAR"
	FileKPOINTS = "KPOINTS"
	FilePOSCAR  = "POSCAR"
	FilePOTCAR  = "POTCAR"
	FileOUTCAR  = "OUTCAR"
	FileCONTCAR = "CONTCAR"
	FileDOSCAR  = "DOSCAR"
)

// Files produced by dftvasp itself
const (
	FileWaNoSettings = "rendered_wano.yml"
	FileRunScript    = "run_vasp.sh"
	FileResults      = "vasp_results.yml"
	FileOutputDict   = "output_dict.yml"
	FileInputsImport = "Inputs.yml"
)

// VASP binary variants selectable through the launcher script
const (
	BinaryStandard = "vasp_std"
	BinaryNonColl  = "vasp_ncl"
)
