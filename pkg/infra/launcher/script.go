package launcher

import (
	"bytes"
	_ "embed"
	"os"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
)

//go:embed templates/run_vasp.sh.tmpl
var scriptTemplate string

// DefaultModuleProfile is the lmod initialization script sourced before any
// module command.
const DefaultModuleProfile = "/etc/profile.d/lmod.sh"

// DefaultLauncher is the HPC job launcher the VASP binary is handed to
const DefaultLauncher = "prun"

// ScriptParams fills the launcher script template. Binary is the VASP
// variant already selected for the run; the script itself contains no
// branching and aborts on the first failing command.
type ScriptParams struct {
	ModuleProfile string
	VaspVersion   string
	Launcher      string
	Binary        string
}

// RenderScript renders the launcher shell script
func RenderScript(p ScriptParams) (string, error) {
	if p.ModuleProfile == "" {
		p.ModuleProfile = DefaultModuleProfile
	}
	if p.Launcher == "" {
		p.Launcher = DefaultLauncher
	}
	if p.VaspVersion == "" {
		return "", goerr.New("VASP version is required for module load")
	}
	if p.Binary == "" {
		return "", goerr.New("VASP binary name is required")
	}

	tmpl, err := template.New("run_vasp").Parse(scriptTemplate)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse launcher script template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", goerr.Wrap(err, "failed to render launcher script")
	}
	return buf.String(), nil
}

// WriteScript renders the launcher script and writes it executable
func WriteScript(path string, p ScriptParams) error {
	content, err := RenderScript(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		return goerr.Wrap(err, "failed to write launcher script", goerr.V("path", path))
	}
	return nil
}
