package config

import (
	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Workdir holds the working directory and settings-file configuration
type Workdir struct {
	Dir          string
	SettingsFile string
}

// Flags returns CLI flags for working directory configuration
func (c *Workdir) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "work-dir",
			Usage:       "Directory holding the VASP input/output files",
			Value:       ".",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("DFTVASP_WORK_DIR"),
		},
		&cli.StringFlag{
			Name:        "wano-file",
			Usage:       "Rendered WaNo settings file",
			Value:       types.FileWaNoSettings,
			Destination: &c.SettingsFile,
			Sources:     cli.EnvVars("DFTVASP_WANO_FILE"),
		},
	}
}
