package usecase_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"gopkg.in/yaml.v3"

	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"github.com/simstack-go/dftvasp/pkg/usecase"
)

const resultsSettings = `TABS:
  INCAR:
    ENCUT: 450.0
    ISPIN: 2
  Files-Run:
    Title: cscl relaxation
    vasp version: "6.4.2"
    prun_vasp: vasp_std
  Properties:
    properties: true
    Import Inputs: true
    Var-properties:
      - var0: label
      - var1: gap
      - var2: SIGMA
      - var3: banana
`

const resultsOutcar = ` vasp.5.4.4 18Apr17-6-g9f103f2a35 (build Feb 22 2019) complex
   k-points           NKPTS =     10   k-points in BZ     NKDIM =     10   number of bands    NBANDS=      8
   number of dos      NEDOS =    301   number of ions     NIONS =      2
 number of electron      16.0000000 magnetization       2.0000000

 POSITION                                       TOTAL-FORCE (eV/Angst)
 -----------------------------------------------------------------------------------
      0.00000      0.00000      0.00000         0.000000      0.000000      0.100000
      2.00000      2.00000      2.00000         0.000000      0.000000     -0.100000
 -----------------------------------------------------------------------------------

  FREE ENERGIE OF THE ION-ELECTRON SYSTEM (eV)
  ---------------------------------------------------
  free  energy   TOTEN  =       -27.21936851 eV

  energy  without entropy=      -27.21936851  energy(sigma->0) =      -27.21936851

 magnetization (x)

# of ion       s       p       d       tot
------------------------------------------
    1        0.010   0.020   0.030   0.060
    2        0.010   0.020   0.030   0.060
--------------------------------------------------
tot          0.020   0.040   0.060   0.120

 reached required accuracy - stopping structural energy minimisation
`

// insulatorDoscar renders a total-DOS file on a 0.5 eV grid from 0 to 10 eV
// with a gap between 4 and 7 eV and the Fermi level inside it.
func insulatorDoscar() string {
	var b strings.Builder
	b.WriteString("    2    2    1    0\n")
	b.WriteString("  0.8000000E+01  0.4000000E-09  0.4000000E-09  0.4000000E-09  0.5000000E-15\n")
	b.WriteString("  1.000000000000000E-004\n")
	b.WriteString("  CAR\n")
	b.WriteString("  cscl relaxation\n")
	b.WriteString("     10.00000000  0.00000000  21  5.00000000  1.00000000\n")
	integ := 0.0
	for i := 0; i <= 20; i++ {
		e := float64(i) * 0.5
		dos := 0.0
		if e <= 4.0 || e >= 7.0 {
			dos = 1.0
			integ += 1.0
		}
		fmt.Fprintf(&b, " %12.5f %12.5f %12.5f\n", e, dos, integ)
	}
	return b.String()
}

func buildResultsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		types.FileWaNoSettings: resultsSettings,
		types.FileOUTCAR:       resultsOutcar,
		types.FileCONTCAR:      preparePoscar,
		types.FileDOSCAR:       insulatorDoscar(),
		types.FileInputsImport: "upstream_energy: -12.5\n",
	}
	for name, content := range files {
		gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestExtract(t *testing.T) {
	dir := buildResultsDir(t)
	uc := usecase.NewResults(dir, types.FileWaNoSettings)

	res, err := uc.Extract(context.Background())
	gt.NoError(t, err)

	gt.Value(t, res["convergence"]).Equal("Yes")
	gt.Value(t, res["NKPTS"]).Equal(10)
	gt.Value(t, res["chemical_formula"]).Equal("Cs1 Cl1")
	gt.Value(t, res["global_number_of_atoms"]).Equal(2)
	gt.Number(t, math.Abs(res["total_energy"].(float64)-(-27.21936851))).Less(1e-9)
	gt.Number(t, math.Abs(res["volume"].(float64)-64.0)).Less(1e-9)

	// ISPIN=2 run with a magnetization block in the OUTCAR
	gt.Number(t, math.Abs(res["magnetic_moment"].(float64)-2.0)).Less(1e-9)

	// band edges from the DOSCAR scan
	gt.Number(t, math.Abs(res["gap"].(float64)-3.0)).Less(1e-9)
	gt.Number(t, math.Abs(res["vbm"].(float64)-(-1.0))).Less(1e-9)
	gt.Number(t, math.Abs(res["cbm"].(float64)-2.0)).Less(1e-9)

	// selected properties: label, deep-lookup tag, imported inputs
	gt.Value(t, res["label"]).Equal("cscl relaxation")
	gt.Value(t, res["ENCUT"]).Equal(450.0)
	gt.Value(t, res["upstream_energy"]).Equal(-12.5)

	// unresolvable names are skipped: SIGMA is not in the settings tree and
	// banana is not a computed property
	_, found := res["SIGMA"]
	gt.Value(t, found).Equal(false)
	_, found = res["banana"]
	gt.Value(t, found).Equal(false)

	// run provenance
	gt.True(t, res["run_id"].(string) != "")
	gt.String(t, res["datetime"].(string)).Contains("-")
}

func TestExtract_WritesBothSummaries(t *testing.T) {
	dir := buildResultsDir(t)
	uc := usecase.NewResults(dir, types.FileWaNoSettings)

	_, err := uc.Extract(context.Background())
	gt.NoError(t, err)

	var outputDict map[string]any
	data, err := os.ReadFile(filepath.Join(dir, types.FileOutputDict))
	gt.NoError(t, err)
	gt.NoError(t, yaml.Unmarshal(data, &outputDict))
	gt.Value(t, outputDict["convergence"]).Equal("Yes")

	// vasp_results.yml carries the settings tree merged with the properties
	var merged map[string]any
	data, err = os.ReadFile(filepath.Join(dir, types.FileResults))
	gt.NoError(t, err)
	gt.NoError(t, yaml.Unmarshal(data, &merged))
	gt.Value(t, merged["convergence"]).Equal("Yes")
	tabs, ok := merged["TABS"].(map[string]any)
	gt.True(t, ok)
	filesRun, ok := tabs["Files-Run"].(map[string]any)
	gt.True(t, ok)
	gt.Value(t, filesRun["Title"]).Equal("cscl relaxation")
}

func TestExtract_DuplicateTagUsesLaterTab(t *testing.T) {
	dir := buildResultsDir(t)
	// ENCUT lives in two tabs; the later tab shadows the earlier one
	settings := `TABS:
  INCAR:
    ENCUT: 450.0
    ISPIN: 2
  Analysis:
    ENCUT: 500.0
  Files-Run:
    Title: cscl relaxation
    vasp version: "6.4.2"
    prun_vasp: vasp_std
`
	gt.NoError(t, os.WriteFile(filepath.Join(dir, types.FileWaNoSettings), []byte(settings), 0644))

	uc := usecase.NewResults(dir, types.FileWaNoSettings)
	res, err := uc.Extract(context.Background())
	gt.NoError(t, err)
	gt.Value(t, res["ENCUT"]).Equal(500.0)
}

func TestExtract_MissingOutcar(t *testing.T) {
	dir := buildResultsDir(t)
	gt.NoError(t, os.Remove(filepath.Join(dir, types.FileOUTCAR)))

	uc := usecase.NewResults(dir, types.FileWaNoSettings)
	_, err := uc.Extract(context.Background())
	gt.Error(t, err)
}

func TestExtract_UselessDoscarIsNotFatal(t *testing.T) {
	dir := buildResultsDir(t)
	// empty density grid: the band-edge scan fails but extraction continues
	gt.NoError(t, os.WriteFile(filepath.Join(dir, types.FileDOSCAR), []byte("x\nx\nx\nx\nx\n  10.0 0.0 0 5.0 1.0\n"), 0644))

	uc := usecase.NewResults(dir, types.FileWaNoSettings)
	res, err := uc.Extract(context.Background())
	gt.NoError(t, err)

	_, hasGap := res["gap"]
	gt.Value(t, hasGap).Equal(false)
	gt.Value(t, res["convergence"]).Equal("Yes")
}
