package usecase

import (
	_ "embed"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
)

//go:embed defaults.toml
var incarDefaultsTOML []byte

// incarDefaultOrder fixes the file layout of the baseline tags; overrides
// keep the position of the tag they replace and unknown GUI tags are
// appended alphabetically.
var incarDefaultOrder = []string{
	"ENCUT", "NELMIN", "NELM", "NELMDL", "EDIFF",
	"PREC", "ISPIN", "ADDGRID", "IVDW",
	"NSW", "EDIFFG", "IBRION", "ISIF", "POTIM",
	"ISMEAR", "SIGMA",
	"LORBIT", "NEDOS",
	"NWRITE", "LCHARG", "LWAVE", "LASPH",
	"NCORE", "LPLANE",
}

// ivdwSchemes maps the GUI dispersion-correction names onto IVDW tag values
var ivdwSchemes = map[string]int{
	"D2": 10, "D3": 11, "D3BJ": 12, "dDsC": 4,
	"TSSCS": 20, "TSHP": 21, "MBDSC": 202, "MBDFI": 263,
	"None": 0,
}

// Pseudo-tags understood by the GUI that must never reach the INCAR file
var incarPseudoTags = []string{"SOC", "MD", "CPMD"}

// BuildIncar assembles the INCAR tag set: embedded defaults, GUI overrides,
// then the functional/coupling/dynamics rule passes and the analysis passes.
func BuildIncar(settings *model.Settings, structure *model.Structure) (*model.Incar, error) {
	var defaults map[string]any
	if err := toml.Unmarshal(incarDefaultsTOML, &defaults); err != nil {
		return nil, goerr.Wrap(err, "failed to parse embedded INCAR defaults")
	}

	inc := model.NewIncar()
	inc.Set("SYSTEM", structure.Formula())
	for _, key := range incarDefaultOrder {
		if v, ok := defaults[key]; ok {
			inc.Set(key, v)
		}
	}

	// GUI overrides; unknown tags pass through verbatim. The tab is a plain
	// map, so apply in sorted order to keep the file stable.
	keys := make([]string, 0, len(settings.Incar))
	for k := range settings.Incar {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		inc.Set(k, settings.Incar[k])
	}

	applyVdWFunctional(inc)
	applyHybridFunctional(inc)
	applySpinOrbit(inc)
	if err := applyMolecularDynamics(inc); err != nil {
		return nil, err
	}
	applyAnalysis(inc, &settings.Analysis)

	for _, tag := range incarPseudoTags {
		inc.Delete(tag)
	}

	return inc, nil
}

// applyVdWFunctional translates the GUI functional name into the GGA /
// METAGGA tag combination for the van der Waals density functionals, or
// falls back to the IVDW dispersion-correction table for plain functionals.
func applyVdWFunctional(inc *model.Incar) {
	gga, ok := inc.Get("GGA")
	name, isString := gga.(string)
	if !ok || !isString {
		return
	}

	switch name {
	case "optPBE-vdw":
		inc.Set("GGA", "OR")
		inc.Set("LUSE_VDW", true)
		inc.Set("AGGAC", 0.0)
		inc.Set("LASPH", true)
	case "optB88-vdw":
		inc.Set("GGA", "BO")
		inc.Set("PARAM1", 0.1833333333)
		inc.Set("PARAM2", 0.2200000000)
		inc.Set("LUSE_VDW", true)
		inc.Set("AGGAC", 0.0)
		inc.Set("LASPH", true)
	case "optB86b-vdw":
		inc.Set("GGA", "MK")
		inc.Set("PARAM1", 0.1234)
		inc.Set("PARAM2", 1.0)
		inc.Set("LUSE_VDW", true)
		inc.Set("AGGAC", 0.0)
		inc.Set("LASPH", true)
	case "SCAN+rVV10":
		inc.Set("METAGGA", "SCAN")
		inc.Set("LUSE_VDW", true)
		inc.Set("BPARAM", 6.3)
		inc.Set("CPARAM", 0.0093)
		inc.Set("LASPH", true)
		inc.Delete("GGA")
	default:
		applyDispersionScheme(inc)
	}
}

// applyDispersionScheme resolves a named IVDW scheme into its numeric value
func applyDispersionScheme(inc *model.Incar) {
	v, ok := inc.Get("IVDW")
	name, isString := v.(string)
	if !ok || !isString {
		return
	}
	scheme, known := ivdwSchemes[name]
	if !known {
		return
	}
	inc.Set("IVDW", scheme)
	inc.Set("ADDGRID", false)
	inc.Set("LASPH", false)
}

// applyHybridFunctional expands the HSE03/HSE06 shorthand into the screened
// hybrid tag combination.
func applyHybridFunctional(inc *model.Incar) {
	gga, ok := inc.Get("GGA")
	name, isString := gga.(string)
	if !ok || !isString {
		return
	}

	var screen float64
	switch name {
	case "HSE03":
		screen = 0.3
	case "HSE06":
		screen = 0.2
	default:
		return
	}
	inc.Set("GGA", "PE")
	inc.Set("LHFCALC", true)
	inc.Set("HFSCREEN", screen)
}

// applySpinOrbit turns the SOC pseudo-tag into the non-collinear tag set
func applySpinOrbit(inc *model.Incar) {
	v, ok := inc.Get("SOC")
	if !ok {
		return
	}
	if on, isBool := v.(bool); !isBool || !on {
		return
	}
	inc.Set("LASPH", true)
	inc.Set("LSORBIT", true)
	inc.Set("GGA_COMPAT", true)
	inc.Set("SAXIS", "0 0 1")
	inc.Set("ISYM", 0)
}

// applyMolecularDynamics turns the MD pseudo-tag and its CPMD sub-block into
// an ab initio MD tag set with a Nose-Hoover thermostat.
func applyMolecularDynamics(inc *model.Incar) error {
	v, ok := inc.Get("MD")
	if !ok {
		return nil
	}
	if on, isBool := v.(bool); !isBool || !on {
		return nil
	}

	cpmdRaw, ok := inc.Get("CPMD")
	cpmd, isMap := cpmdRaw.(map[string]any)
	if !ok || !isMap {
		return goerr.New("MD requested but CPMD block is missing")
	}

	inc.Set("ISYM", 0)
	inc.Set("IBRION", 0)
	inc.Set("ISMEAR", 0)
	inc.Set("ALGO", "Very Fast")
	inc.Set("LWAVE", false)
	inc.Set("LCHARG", false)

	if ensemble, _ := cpmd["Ensemble"].(string); ensemble == "NVE" {
		inc.Set("MDALGO", 1)
		inc.Set("ANDERSEN_PROB", 0.0)
		inc.Set("ISIF", 2)
	} else {
		inc.Set("MDALGO", 2)
		inc.Set("ISIF", 2)
	}
	inc.Set("SMASS", -3) // Nose-Hoover thermostat

	if v, ok := cpmd["TEBEG"]; ok {
		inc.Set("TEBEG", v)
	}
	if v, ok := cpmd["TEEND"]; ok {
		inc.Set("TEEND", v)
	}
	return nil
}

// applyAnalysis folds the Analysis tab into the INCAR: Bader charge output,
// DOS refinement, and band-structure restart settings.
func applyAnalysis(inc *model.Incar, tab *model.AnalysisTab) {
	if tab.Bader {
		inc.Set("LCHARG", true)
		inc.Set("LAECHG", true)
		inc.Set("LREAL", "AUTO")
		setFrom(inc, tab.Mesh, "NGXF", "NGYF", "NGZF")
	}
	if tab.DOS {
		setFrom(inc, tab.DOSRun, "LORBIT", "NEDOS", "NSW", "PREC")
	}
	if tab.BandStructure {
		setFrom(inc, tab.BandRun, "IBRION", "ICHARG", "LORBIT", "NSW", "PREC")
	}
}

func setFrom(inc *model.Incar, src map[string]any, keys ...string) {
	for _, k := range keys {
		if v, ok := src[k]; ok {
			inc.Set(k, v)
		}
	}
}
