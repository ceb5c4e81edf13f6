package launcher_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/simstack-go/dftvasp/pkg/infra/launcher"
)

func TestRenderScript(t *testing.T) {
	content, err := launcher.RenderScript(launcher.ScriptParams{
		VaspVersion: "5.4.4",
		Binary:      "vasp_std",
	})
	gt.NoError(t, err)

	gt.True(t, strings.HasPrefix(content, "#!/bin/bash\n"))
	gt.String(t, content).Contains(". /etc/profile.d/lmod.sh")
	gt.String(t, content).Contains("set -e")
	gt.String(t, content).Contains("module purge")
	gt.String(t, content).Contains("module load vasp/5.4.4 prun")
	gt.String(t, content).Contains("prun vasp_std")
}

func TestRenderScript_SpinOrbitBinary(t *testing.T) {
	content, err := launcher.RenderScript(launcher.ScriptParams{
		VaspVersion: "6.3.0",
		Launcher:    "srun",
		Binary:      "vasp_ncl",
	})
	gt.NoError(t, err)
	gt.String(t, content).Contains("module load vasp/6.3.0 srun")
	gt.String(t, content).Contains("srun vasp_ncl")
}

func TestRenderScript_MissingVersion(t *testing.T) {
	_, err := launcher.RenderScript(launcher.ScriptParams{Binary: "vasp_std"})
	gt.Error(t, err)

	_, err = launcher.RenderScript(launcher.ScriptParams{VaspVersion: "5.4.4"})
	gt.Error(t, err)
}

func TestWriteScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_vasp.sh")
	err := launcher.WriteScript(path, launcher.ScriptParams{
		VaspVersion: "5.4.4",
		Binary:      "vasp_gam",
	})
	gt.NoError(t, err)

	info, err := os.Stat(path)
	gt.NoError(t, err)
	gt.Value(t, info.Mode().Perm()).Equal(os.FileMode(0755))
}
