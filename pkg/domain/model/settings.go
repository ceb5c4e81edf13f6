package model

import (
	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// Settings holds the GUI-rendered workflow-node configuration loaded from
// rendered_wano.yml. Raw keeps the full settings tree for the results merge;
// Doc keeps the parsed document for deep key lookup in source order.
type Settings struct {
	Incar      map[string]any
	Kpoints    KpointsTab
	FilesRun   FilesRunTab
	Analysis   AnalysisTab
	Properties PropertiesTab

	Raw map[string]any
	Doc *yaml.Node
}

// KpointsTab selects the k-point generation scheme, in priority order:
// length, Monkhorst-Pack, Gamma-centered. With none set no KPOINTS file is
// written.
type KpointsTab struct {
	UseLength    bool
	Length       int
	UseMonkhorst bool
	UseGamma     bool
	Grid         [3]int
	Shift        [3]float64
}

// FilesRunTab configures the launcher script
type FilesRunTab struct {
	Title       string
	VaspVersion string
	Binary      string // standard binary name, e.g. vasp_std or vasp_gam
}

// AnalysisTab enables post-processing oriented INCAR adjustments
type AnalysisTab struct {
	Bader bool
	Mesh  map[string]any // NGXF/NGYF/NGZF

	DOS    bool
	DOSRun map[string]any // LORBIT/NEDOS/NSW/PREC

	BandStructure bool
	BandRun       map[string]any // IBRION/ICHARG/LORBIT/NSW/PREC
}

// PropertiesTab selects which values the results stage extracts
type PropertiesTab struct {
	Enabled      bool
	Names        []string
	ImportInputs bool
}

// SOC reports whether spin-orbit coupling was requested. The flag lives in
// the INCAR tab but never reaches the INCAR file itself.
func (s *Settings) SOC() bool {
	v, ok := s.Incar["SOC"].(bool)
	return ok && v
}

// SpinPolarized reports whether the run is spin polarized (ISPIN=2), which
// controls whether magnetic moments are extracted.
func (s *Settings) SpinPolarized() bool {
	switch v := s.Incar["ISPIN"].(type) {
	case int:
		return v == 2
	case int64:
		return v == 2
	case float64:
		return v == 2
	}
	return false
}

// LaunchBinary returns the VASP binary the launcher script must dispatch to:
// the non-collinear build when spin-orbit coupling is on, otherwise the
// configured standard binary.
func (s *Settings) LaunchBinary() string {
	if s.SOC() {
		return types.BinaryNonColl
	}
	return s.FilesRun.Binary
}
