package launcher_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/simstack-go/dftvasp/pkg/infra/launcher"
)

func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	name := "run_vasp.sh"
	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0755))
	return name
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "#!/bin/bash\necho simulation done\n")

	var stdout, stderr bytes.Buffer
	err := launcher.Execute(context.Background(), dir, script, &stdout, &stderr)
	gt.NoError(t, err)
	gt.String(t, stdout.String()).Contains("simulation done")
}

func TestExecute_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "#!/bin/bash\nexit 3\n")

	var stdout, stderr bytes.Buffer
	err := launcher.Execute(context.Background(), dir, script, &stdout, &stderr)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("VASP run failed")
}

func TestExecute_MissingScript(t *testing.T) {
	var out bytes.Buffer
	err := launcher.Execute(context.Background(), t.TempDir(), "absent.sh", &out, &out)
	gt.Error(t, err)
}
