package config

import (
	"github.com/simstack-go/dftvasp/pkg/infra/potcar"
	"github.com/urfave/cli/v3"
)

// Potcar holds pseudopotential library configuration
type Potcar struct {
	Library string
	GW      bool
}

// Flags returns CLI flags for pseudopotential configuration
func (c *Potcar) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "potcar-library",
			Usage:       "Root of the PAW pseudopotential library",
			Value:       potcar.DefaultLibrary,
			Destination: &c.Library,
			Sources:     cli.EnvVars("DFTVASP_POTCAR_LIBRARY"),
		},
		&cli.BoolFlag{
			Name:        "potcar-gw",
			Usage:       "Use the GW-ready flavor of each potential",
			Value:       true,
			Destination: &c.GW,
			Sources:     cli.EnvVars("DFTVASP_POTCAR_GW"),
		},
	}
}
