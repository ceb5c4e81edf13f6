package usecase

import (
	"context"
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/interfaces"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"github.com/simstack-go/dftvasp/pkg/infra/vaspio"
	"github.com/simstack-go/dftvasp/pkg/infra/wano"
	"gopkg.in/yaml.v3"
)

type resultsUseCase struct {
	workDir      string
	settingsFile string
	dosTolerance float64
}

// ResultsOption configures the results stage
type ResultsOption func(*resultsUseCase)

// WithDOSTolerance overrides the density threshold of the band-edge scan
func WithDOSTolerance(tol float64) ResultsOption {
	return func(uc *resultsUseCase) { uc.dosTolerance = tol }
}

// NewResults creates the property-extraction use case working in workDir
func NewResults(workDir, settingsFile string, opts ...ResultsOption) interfaces.ResultsUseCase {
	uc := &resultsUseCase{
		workDir:      workDir,
		settingsFile: settingsFile,
		dosTolerance: vaspio.DefaultDOSTolerance,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Extract scrapes the output files into a flat property map and writes the
// two YAML summaries: output_dict.yml with the properties alone and
// vasp_results.yml with the properties merged over the full settings tree.
func (uc *resultsUseCase) Extract(ctx context.Context) (model.Results, error) {
	logger := ctxlog.From(ctx)

	settings, err := wano.Load(filepath.Join(uc.workDir, uc.settingsFile))
	if err != nil {
		return nil, err
	}

	summary, err := vaspio.ParseOutcar(uc.path(types.FileOUTCAR))
	if err != nil {
		return nil, err
	}
	structure, err := uc.readStructure()
	if err != nil {
		return nil, err
	}

	res := model.Results{}
	uc.addMetadata(res)
	uc.addStandardProperties(res, settings, summary, structure)
	uc.addBandEdges(ctx, res)

	if settings.Properties.Enabled {
		uc.addSelectedProperties(ctx, res, settings)
	}
	if settings.Properties.ImportInputs {
		if err := uc.mergeImportedInputs(res); err != nil {
			return nil, err
		}
	}

	if err := uc.writeYAML(types.FileOutputDict, map[string]any(res)); err != nil {
		return nil, err
	}
	merged := make(map[string]any, len(settings.Raw)+len(res))
	for k, v := range settings.Raw {
		merged[k] = v
	}
	for k, v := range res {
		merged[k] = v
	}
	if err := uc.writeYAML(types.FileResults, merged); err != nil {
		return nil, err
	}

	logger.Info("results extracted",
		"properties", len(res),
		"converged", summary.Converged,
		"output", types.FileResults,
	)
	return res, nil
}

// readStructure prefers the relaxed CONTCAR and falls back to POSCAR
func (uc *resultsUseCase) readStructure() (*model.Structure, error) {
	for _, name := range []string{types.FileCONTCAR, types.FilePOSCAR} {
		if _, err := os.Stat(uc.path(name)); err == nil {
			return vaspio.ReadStructure(uc.path(name))
		}
	}
	return nil, goerr.New("neither CONTCAR nor POSCAR found", goerr.V("dir", uc.workDir))
}

func (uc *resultsUseCase) addMetadata(res model.Results) {
	name := os.Getenv("USER")
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	res["user"] = name
	res["datetime"] = time.Now().Format("2006-01-02 15:04:05")
	res["run_id"] = uuid.NewString()
}

func (uc *resultsUseCase) addStandardProperties(res model.Results, settings *model.Settings, summary *model.OutcarSummary, structure *model.Structure) {
	if summary.Converged {
		res["convergence"] = "Yes"
	} else {
		res["convergence"] = "No"
	}

	res["NKPTS"] = summary.NKpoints
	if v, ok := wano.Lookup(settings.Doc, "ENCUT"); ok {
		res["ENCUT"] = v
	}

	res["total_energy"] = summary.FreeEnergy
	res["free_energy"] = summary.FreeEnergy
	res["potential_energy"] = summary.EnergySigma0
	if summary.HasPressure {
		res["external_pressure"] = summary.ExternalPressure
		res["pullay_stress"] = summary.PullayStress
	}
	if len(summary.Positions) > 0 {
		res["positions"] = summary.Positions
		res["forces"] = summary.Forces
	}
	if summary.ElapsedSeconds > 0 {
		res["elapsed_seconds"] = summary.ElapsedSeconds
	}

	res["cell"] = structure.Lattice
	laa := structure.CellLengthsAndAngles()
	res["cell_lengths_and_angles"] = laa[:]
	res["a"] = laa[0]
	res["c"] = laa[2]
	res["volume"] = structure.Volume()
	res["center_of_mass"] = structure.CenterOfMass()
	res["chemical_formula"] = structure.Formula()
	res["chemical_symbols"] = structure.AtomSymbols()
	res["global_number_of_atoms"] = structure.NumAtoms()
	res["masses"] = structure.Masses()

	if settings.SpinPolarized() && summary.HasMagnetization {
		res["magnetic_moment"] = summary.TotalMagneticMoment
		res["magnetic_moments"] = summary.MagneticMoments
	}
}

// addBandEdges reads the DOSCAR gap when the file is present. A failed scan
// is reported but not fatal: an unconverged run leaves a useless DOSCAR
// behind and the remaining properties are still worth keeping.
func (uc *resultsUseCase) addBandEdges(ctx context.Context, res model.Results) {
	logger := ctxlog.From(ctx)

	if _, err := os.Stat(uc.path(types.FileDOSCAR)); err != nil {
		return
	}
	edges, err := vaspio.ReadBandEdges(uc.path(types.FileDOSCAR), uc.dosTolerance)
	if err != nil {
		if errors.Is(err, types.ErrGapNotFound) {
			logger.Warn("band edges not found, DOSCAR ignored", "error", err)
			return
		}
		logger.Warn("failed to read DOSCAR", "error", err)
		return
	}
	res["gap"] = edges.Gap
	res["vbm"] = edges.VBM
	res["cbm"] = edges.CBM
}

// addSelectedProperties resolves the Properties tab names that are not part
// of the standard set. A name starting with an upper-case letter refers to a
// settings tag and is resolved by deep lookup; label and title map to the
// run title. Names that cannot be resolved are skipped with a warning.
func (uc *resultsUseCase) addSelectedProperties(ctx context.Context, res model.Results, settings *model.Settings) {
	logger := ctxlog.From(ctx)

	for _, name := range settings.Properties.Names {
		if name == "" {
			continue
		}
		if _, done := res[name]; done {
			continue
		}
		if strings.EqualFold(name, "gap") {
			// resolved by addBandEdges when DOSCAR is available
			if _, ok := res["gap"]; !ok {
				logger.Warn("gap requested but DOSCAR unavailable")
			}
			continue
		}

		v, err := resolveProperty(settings, name)
		if err != nil {
			logger.Warn("property skipped", "name", name, "error", err)
			continue
		}
		res[name] = v
	}
}

// resolveProperty maps a Properties tab name onto its value: upper-case
// names are settings tags, lower-case names are computed properties.
func resolveProperty(settings *model.Settings, name string) (any, error) {
	first := rune(name[0])
	switch {
	case first >= 'A' && first <= 'Z':
		if v, ok := wano.Lookup(settings.Doc, name); ok {
			return v, nil
		}
		return nil, goerr.Wrap(types.ErrPropertyNotFound, "settings tag not found", goerr.V("name", name))
	case name == "label", name == "title":
		return settings.FilesRun.Title, nil
	default:
		return nil, goerr.Wrap(types.ErrUnknownProperty, "no extractor for property", goerr.V("name", name))
	}
}

// mergeImportedInputs overlays Inputs.yml, which upstream workflow nodes use
// to pass their own values through to the summary.
func (uc *resultsUseCase) mergeImportedInputs(res model.Results) error {
	path := uc.path(types.FileInputsImport)
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read imported inputs", goerr.V("path", path))
	}
	var imported map[string]any
	if err := yaml.Unmarshal(data, &imported); err != nil {
		return goerr.Wrap(err, "failed to parse imported inputs", goerr.V("path", path))
	}
	for k, v := range imported {
		res[k] = v
	}
	return nil
}

func (uc *resultsUseCase) writeYAML(name string, doc map[string]any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal results", goerr.V("file", name))
	}
	if err := os.WriteFile(uc.path(name), data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write results", goerr.V("file", name))
	}
	return nil
}

func (uc *resultsUseCase) path(name string) string {
	return filepath.Join(uc.workDir, name)
}
