package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/simstack-go/dftvasp/pkg/cli/config"
	"github.com/simstack-go/dftvasp/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// cmdExec is the workflow entry point: the full prepare, run, results
// pipeline as one command. Any stage failing aborts the pipeline.
func cmdExec() *cli.Command {
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
		Name:    "exec",
		Aliases: []string{"x"},
		Usage:   "Prepare inputs, run VASP, and extract results",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("Starting VASP pipeline", "work_dir", workdirCfg.Dir)

			if err := newPrepare(&workdirCfg, &clusterCfg, &potcarCfg, &kpointsCfg).Prepare(ctx); err != nil {
				return err
			}

			run := usecase.NewRun(workdirCfg.Dir, usecase.WithRunScriptName(clusterCfg.Script))
			if err := run.Run(ctx); err != nil {
				return err
			}

			results := usecase.NewResults(workdirCfg.Dir, workdirCfg.SettingsFile)
			res, err := results.Extract(ctx)
			if err != nil {
				return err
			}
			logger.Info("Pipeline complete", "properties", len(res))
			return nil
		},
	}
}
