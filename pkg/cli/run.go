package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/simstack-go/dftvasp/pkg/cli/config"
	"github.com/simstack-go/dftvasp/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		workdirCfg config.Workdir
		clusterCfg config.Cluster
	)

	flags := append(workdirCfg.Flags(), clusterCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute the launcher script and wait for VASP to finish",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("Running VASP", "work_dir", workdirCfg.Dir, "script", clusterCfg.Script)

			uc := usecase.NewRun(workdirCfg.Dir, usecase.WithRunScriptName(clusterCfg.Script))
			return uc.Run(ctx)
		},
	}
}
