package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/simstack-go/dftvasp/pkg/cli/config"
	"github.com/simstack-go/dftvasp/pkg/domain/interfaces"
	"github.com/simstack-go/dftvasp/pkg/infra/potcar"
	"github.com/simstack-go/dftvasp/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPrepare() *cli.Command {
	var (
		workdirCfg config.Workdir
		clusterCfg config.Cluster
		potcarCfg  config.Potcar
		kpointsCfg config.Kpoints
	)

	flags := append(workdirCfg.Flags(), clusterCfg.Flags()...)
	flags = append(flags, potcarCfg.Flags()...)
	flags = append(flags, kpointsCfg.Flags()...)

	return &cli.Command{
		Name:    "prepare",
		Aliases: []string{"p"},
		Usage:   "Generate INCAR, KPOINTS, POTCAR, and the launcher script",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("Preparing VASP inputs",
				"work_dir", workdirCfg.Dir,
				"wano_file", workdirCfg.SettingsFile,
			)
			return newPrepare(&workdirCfg, &clusterCfg, &potcarCfg, &kpointsCfg).Prepare(ctx)
		},
	}
}

func newPrepare(workdir *config.Workdir, cluster *config.Cluster, pot *config.Potcar, kpts *config.Kpoints) interfaces.PrepareUseCase {
	opts := []usecase.PrepareOption{
		usecase.WithLauncher(cluster.Launcher),
		usecase.WithModuleProfile(cluster.ModuleProfile),
		usecase.WithScriptName(cluster.Script),
	}
	if kpts.Density > 0 {
		opts = append(opts, usecase.WithKpointsDensity(kpts.Density, kpts.ForceGamma))
	}
	return usecase.NewPrepare(
		workdir.Dir,
		workdir.SettingsFile,
		potcar.New(pot.Library, pot.GW),
		opts...,
	)
}
