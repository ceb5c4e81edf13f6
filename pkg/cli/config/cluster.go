package config

import (
	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"github.com/simstack-go/dftvasp/pkg/infra/launcher"
	"github.com/urfave/cli/v3"
)

// Cluster holds module-system and job-launcher configuration
type Cluster struct {
	Launcher      string
	ModuleProfile string
	Script        string
}

// Flags returns CLI flags for cluster configuration
func (c *Cluster) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "launcher",
			Usage:       "HPC job launcher command the VASP binary is handed to",
			Value:       launcher.DefaultLauncher,
			Destination: &c.Launcher,
			Sources:     cli.EnvVars("DFTVASP_LAUNCHER"),
		},
		&cli.StringFlag{
			Name:        "module-profile",
			Usage:       "Environment-modules profile sourced by the run script",
			Value:       launcher.DefaultModuleProfile,
			Destination: &c.ModuleProfile,
			Sources:     cli.EnvVars("DFTVASP_MODULE_PROFILE"),
		},
		&cli.StringFlag{
			Name:        "run-script",
			Usage:       "Name of the generated launcher script",
			Value:       types.FileRunScript,
			Destination: &c.Script,
			Sources:     cli.EnvVars("DFTVASP_RUN_SCRIPT"),
		},
	}
}
