package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/interfaces"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"github.com/simstack-go/dftvasp/pkg/infra/launcher"
	"github.com/simstack-go/dftvasp/pkg/infra/potcar"
	"github.com/simstack-go/dftvasp/pkg/infra/vaspio"
	"github.com/simstack-go/dftvasp/pkg/infra/wano"
)

type prepareUseCase struct {
	workDir      string
	settingsFile string
	scriptName   string

	potentials *potcar.Generator

	launcherName  string
	moduleProfile string

	kpointsDensity float64
	forceGamma     bool
}

// PrepareOption configures the prepare stage
type PrepareOption func(*prepareUseCase)

// WithLauncher overrides the HPC launcher command in the run script
func WithLauncher(name string) PrepareOption {
	return func(uc *prepareUseCase) { uc.launcherName = name }
}

// WithModuleProfile overrides the lmod profile sourced by the run script
func WithModuleProfile(path string) PrepareOption {
	return func(uc *prepareUseCase) { uc.moduleProfile = path }
}

// WithScriptName overrides the launcher script file name
func WithScriptName(name string) PrepareOption {
	return func(uc *prepareUseCase) { uc.scriptName = name }
}

// WithKpointsDensity enables the density-derived k-point grid used when the
// settings select neither the length nor the Monkhorst scheme. kppa is in
// k-points per reciprocal atom.
func WithKpointsDensity(kppa float64, forceGamma bool) PrepareOption {
	return func(uc *prepareUseCase) {
		uc.kpointsDensity = kppa
		uc.forceGamma = forceGamma
	}
}

// NewPrepare creates the input-generation use case working in workDir
func NewPrepare(workDir, settingsFile string, potentials *potcar.Generator, opts ...PrepareOption) interfaces.PrepareUseCase {
	uc := &prepareUseCase{
		workDir:      workDir,
		settingsFile: settingsFile,
		scriptName:   types.FileRunScript,
		potentials:   potentials,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Prepare generates POSCAR (normalized), INCAR, KPOINTS, POTCAR, and the
// launcher script. Input files already present are kept as provided by the
// user, so a workflow can supply its own INCAR or POTCAR upstream.
func (uc *prepareUseCase) Prepare(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	settings, err := wano.Load(filepath.Join(uc.workDir, uc.settingsFile))
	if err != nil {
		return err
	}

	structure, err := vaspio.ReadStructure(uc.path(types.FilePOSCAR))
	if err != nil {
		return err
	}
	if err := vaspio.WriteStructure(uc.path(types.FilePOSCAR), structure); err != nil {
		return err
	}
	logger.Debug("POSCAR normalized", "formula", structure.Formula(), "atoms", structure.NumAtoms())

	if err := uc.generateIncar(ctx, settings, structure); err != nil {
		return err
	}
	if err := uc.generateKpoints(ctx, settings, structure); err != nil {
		return err
	}
	if err := uc.generatePotcar(ctx, structure); err != nil {
		return err
	}
	return uc.generateScript(ctx, settings)
}

func (uc *prepareUseCase) generateIncar(ctx context.Context, settings *model.Settings, structure *model.Structure) error {
	logger := ctxlog.From(ctx)

	if uc.exists(types.FileINCAR) {
		logger.Info("INCAR already loaded, keeping user file")
		return nil
	}

	inc, err := BuildIncar(settings, structure)
	if err != nil {
		return err
	}
	if err := vaspio.WriteIncar(uc.path(types.FileINCAR), inc); err != nil {
		return err
	}
	logger.Info("INCAR generated", "tags", len(inc.Keys()))
	return nil
}

func (uc *prepareUseCase) generateKpoints(ctx context.Context, settings *model.Settings, structure *model.Structure) error {
	logger := ctxlog.From(ctx)

	if uc.exists(types.FileKPOINTS) {
		logger.Info("KPOINTS already loaded, keeping user file")
		return nil
	}

	content, scheme, err := uc.kpointsContent(settings, structure)
	if err != nil {
		if errors.Is(err, types.ErrNoKpointScheme) {
			logger.Warn("KPOINTS not written", "error", err)
			return nil
		}
		return err
	}

	if err := vaspio.WriteKpoints(uc.path(types.FileKPOINTS), content); err != nil {
		return err
	}
	logger.Info("KPOINTS generated", "scheme", scheme)
	return nil
}

// kpointsContent resolves the scheme in priority order: length, Monkhorst,
// Gamma-centered, then the density-derived fallback grid.
func (uc *prepareUseCase) kpointsContent(settings *model.Settings, structure *model.Structure) (string, string, error) {
	switch {
	case settings.Kpoints.UseLength:
		return vaspio.AutomaticLength(settings.Kpoints.Length), "automatic length", nil
	case settings.Kpoints.UseMonkhorst:
		return vaspio.MonkhorstPack(settings.Kpoints.Grid, settings.Kpoints.Shift), "Monkhorst-Pack", nil
	case settings.Kpoints.UseGamma:
		return vaspio.GammaCentered(settings.Kpoints.Grid, settings.Kpoints.Shift), "Gamma-centered", nil
	case uc.kpointsDensity > 0:
		return vaspio.AutomaticDensity(structure, uc.kpointsDensity, uc.forceGamma), "automatic density", nil
	}
	return "", "", goerr.Wrap(types.ErrNoKpointScheme, "no k-point scheme selected")
}

func (uc *prepareUseCase) generatePotcar(ctx context.Context, structure *model.Structure) error {
	logger := ctxlog.From(ctx)

	if uc.exists(types.FilePOTCAR) {
		logger.Info("POTCAR already loaded, keeping user file")
		return nil
	}
	if uc.potentials == nil {
		return goerr.New("no pseudopotential library configured")
	}
	return uc.potentials.Generate(ctx, uc.workDir, structure.Symbols)
}

func (uc *prepareUseCase) generateScript(ctx context.Context, settings *model.Settings) error {
	logger := ctxlog.From(ctx)

	params := launcher.ScriptParams{
		ModuleProfile: uc.moduleProfile,
		VaspVersion:   settings.FilesRun.VaspVersion,
		Launcher:      uc.launcherName,
		Binary:        settings.LaunchBinary(),
	}
	if err := launcher.WriteScript(uc.path(uc.scriptName), params); err != nil {
		return err
	}
	logger.Info("launcher script generated",
		"script", uc.scriptName,
		"binary", params.Binary,
		"soc", settings.SOC(),
	)
	return nil
}

func (uc *prepareUseCase) path(name string) string {
	return filepath.Join(uc.workDir, name)
}

func (uc *prepareUseCase) exists(name string) bool {
	_, err := os.Stat(uc.path(name))
	return err == nil
}
