package wano

import (
	"os"
	"regexp"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
	"github.com/simstack-go/dftvasp/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// settingsDTO mirrors the TABS layout of the rendered_wano.yml file that the
// workflow tool writes at template-render time. Key names are owned by the
// WaNo GUI definition and kept verbatim.
type settingsDTO struct {
	Tabs struct {
		Incar map[string]any `yaml:"INCAR"`

		Kpoints struct {
			UseLength    bool   `yaml:"Kpoints_length"`
			Length       int    `yaml:"Rk_length"`
			UseMonkhorst bool   `yaml:"Kpoints_Monkhorst"`
			UseGamma     bool   `yaml:"Kpoints_gamma"`
			Monkhorst    string `yaml:"Monkhorst"`
		} `yaml:"KPOINTS"`

		FilesRun struct {
			Title       string `yaml:"Title"`
			VaspVersion string `yaml:"vasp version"`
			Binary      string `yaml:"prun_vasp"`
		} `yaml:"Files-Run"`

		Analysis struct {
			Bader   bool           `yaml:"Bader"`
			Mesh    map[string]any `yaml:"Mesh"`
			DOS     bool           `yaml:"DOS"`
			DOSRun  map[string]any `yaml:"dos_calculation"`
			Band    bool           `yaml:"Band_Structure"`
			BandRun map[string]any `yaml:"band"`
		} `yaml:"Analysis"`

		Properties struct {
			Enabled      bool                `yaml:"properties"`
			ImportInputs bool                `yaml:"Import Inputs"`
			Vars         []map[string]string `yaml:"Var-properties"`
		} `yaml:"Properties"`
	} `yaml:"TABS"`
}

// Load reads a rendered WaNo settings file into the typed settings model.
// The full tree is retained twice: Settings.Raw for the results merge and
// Settings.Doc for deep key lookup in source order.
func Load(path string) (*model.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read settings file", goerr.V("path", path))
	}

	var dto settingsDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, goerr.Wrap(err, "failed to parse settings file", goerr.V("path", path))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse settings tree", goerr.V("path", path))
	}

	// Doc keeps the document node so deep key lookup can walk the tabs in
	// source order.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse settings document", goerr.V("path", path))
	}

	s := &model.Settings{
		Incar: dto.Tabs.Incar,
		Kpoints: model.KpointsTab{
			UseLength:    dto.Tabs.Kpoints.UseLength,
			Length:       dto.Tabs.Kpoints.Length,
			UseMonkhorst: dto.Tabs.Kpoints.UseMonkhorst,
			UseGamma:     dto.Tabs.Kpoints.UseGamma,
		},
		FilesRun: model.FilesRunTab(dto.Tabs.FilesRun),
		Analysis: model.AnalysisTab{
			Bader:         dto.Tabs.Analysis.Bader,
			Mesh:          dto.Tabs.Analysis.Mesh,
			DOS:           dto.Tabs.Analysis.DOS,
			DOSRun:        dto.Tabs.Analysis.DOSRun,
			BandStructure: dto.Tabs.Analysis.Band,
			BandRun:       dto.Tabs.Analysis.BandRun,
		},
		Properties: model.PropertiesTab{
			Enabled:      dto.Tabs.Properties.Enabled,
			ImportInputs: dto.Tabs.Properties.ImportInputs,
		},
		Raw: raw,
		Doc: &doc,
	}
	if s.Incar == nil {
		s.Incar = map[string]any{}
	}
	if s.FilesRun.Binary == "" {
		s.FilesRun.Binary = types.BinaryStandard
	}

	// Var-properties is a list of single-entry maps; the key name varies
	// with the GUI version, so only the values matter.
	for _, entry := range dto.Tabs.Properties.Vars {
		for _, name := range entry {
			s.Properties.Names = append(s.Properties.Names, name)
		}
	}

	if dto.Tabs.Kpoints.UseMonkhorst || dto.Tabs.Kpoints.UseGamma {
		grid, shift, err := parseMonkhorst(dto.Tabs.Kpoints.Monkhorst)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse Monkhorst grid",
				goerr.V("value", dto.Tabs.Kpoints.Monkhorst))
		}
		s.Kpoints.Grid = grid
		s.Kpoints.Shift = shift
	}

	return s, nil
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// parseMonkhorst parses the GUI matrix literal "[[n1,n2,n3],[s1,s2,s3]]"
// into a grid and a shift.
func parseMonkhorst(literal string) ([3]int, [3]float64, error) {
	var grid [3]int
	var shift [3]float64

	nums := numberPattern.FindAllString(literal, -1)
	if len(nums) != 6 {
		return grid, shift, goerr.New("Monkhorst literal must contain six numbers",
			goerr.V("literal", literal), goerr.V("found", len(nums)))
	}
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(nums[i])
		if err != nil {
			return grid, shift, goerr.Wrap(err, "grid divisions must be integers")
		}
		grid[i] = n
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(nums[3+i], 64)
		if err != nil {
			return grid, shift, goerr.Wrap(err, "grid shift must be numeric")
		}
		shift[i] = f
	}
	return grid, shift, nil
}
