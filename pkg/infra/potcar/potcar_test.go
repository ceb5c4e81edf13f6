package potcar_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"github.com/simstack-go/dftvasp/pkg/infra/potcar"
)

func buildLibrary(t *testing.T, dirs map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range dirs {
		dir := filepath.Join(root, name)
		gt.NoError(t, os.MkdirAll(dir, 0755))
		gt.NoError(t, os.WriteFile(filepath.Join(dir, "POTCAR"), []byte(content), 0644))
	}
	return root
}

func TestGenerator_PotentialDir(t *testing.T) {
	g := potcar.New("/lib", true)
	gt.Value(t, g.PotentialDir("Pb")).Equal("/lib/Pb_d_GW")
	gt.Value(t, g.PotentialDir("Cs")).Equal("/lib/Cs_sv_GW")
	gt.Value(t, g.PotentialDir("I")).Equal("/lib/I_GW")

	plain := potcar.New("/lib", false)
	gt.Value(t, plain.PotentialDir("Ti")).Equal("/lib/Ti_sv")
	gt.Value(t, plain.PotentialDir("O")).Equal("/lib/O")
}

func TestGenerator_Generate(t *testing.T) {
	lib := buildLibrary(t, map[string]string{
		"Cs_sv_GW": "PAW Cs_sv\n",
		"Pb_d_GW":  "PAW Pb_d\n",
		"I_GW":     "PAW I\n",
	})
	g := potcar.New(lib, true)

	workDir := t.TempDir()
	gt.NoError(t, g.Generate(context.Background(), workDir, []string{"Cs", "Pb", "I"}))

	content, err := os.ReadFile(filepath.Join(workDir, "POTCAR"))
	gt.NoError(t, err)
	gt.Value(t, string(content)).Equal("PAW Cs_sv\nPAW Pb_d\nPAW I\n")
}

func TestGenerator_MissingPotential(t *testing.T) {
	lib := buildLibrary(t, map[string]string{"I_GW": "PAW I\n"})
	g := potcar.New(lib, true)

	err := g.Generate(context.Background(), t.TempDir(), []string{"I", "Xx"})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrPotentialMissing))
}

func TestGenerator_NoElements(t *testing.T) {
	g := potcar.New(t.TempDir(), false)
	gt.Error(t, g.Generate(context.Background(), t.TempDir(), nil))
}
