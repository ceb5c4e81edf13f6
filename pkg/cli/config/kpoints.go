package config

import "github.com/urfave/cli/v3"

// Kpoints holds the fallback k-point density configuration used when the
// settings file selects no scheme.
type Kpoints struct {
	Density    float64
	ForceGamma bool
}

// Flags returns CLI flags for k-point fallback configuration
func (c *Kpoints) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:        "kpoints-density",
			Usage:       "Fallback grid density in k-points per reciprocal atom (0 disables)",
			Value:       0,
			Destination: &c.Density,
			Sources:     cli.EnvVars("DFTVASP_KPOINTS_DENSITY"),
		},
		&cli.BoolFlag{
			Name:        "kpoints-gamma",
			Usage:       "Gamma-center the fallback grid",
			Value:       false,
			Destination: &c.ForceGamma,
			Sources:     cli.EnvVars("DFTVASP_KPOINTS_GAMMA"),
		},
	}
}
