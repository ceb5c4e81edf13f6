package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/simstack-go/dftvasp/pkg/cli/config"
	"github.com/simstack-go/dftvasp/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdResults() *cli.Command {
	var workdirCfg config.Workdir

	return &cli.Command{
		Name:    "results",
		Aliases: []string{"res"},
		Usage:   "Extract properties from OUTCAR/DOSCAR into vasp_results.yml",
		Flags:   workdirCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			uc := usecase.NewResults(workdirCfg.Dir, workdirCfg.SettingsFile)
			res, err := uc.Extract(ctx)
			if err != nil {
				return err
			}
			logger.Info("Results written", "properties", len(res))
			return nil
		},
	}
}
