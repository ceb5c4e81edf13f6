package types

import "github.com/m-mizutani/goerr/v2"

// Parse conditions surfaced by the VASP file scanners. They are wrapped with
// file and line context at the call site and checked with errors.Is.
var (
	ErrMalformedPOSCAR  = goerr.New("malformed POSCAR")
	ErrMalformedDOSCAR  = goerr.New("malformed DOSCAR")
	ErrPropertyNotFound = goerr.New("property not found in output")
	ErrGapNotFound      = goerr.New("band edges not found in DOSCAR")
	ErrUnknownProperty  = goerr.New("unknown property name")
	ErrPotentialMissing = goerr.New("pseudopotential not found in library")
	ErrNoKpointScheme   = goerr.New("no k-point scheme selected")
)
