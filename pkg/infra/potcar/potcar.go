package potcar

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/types"
)

// DefaultLibrary is the cluster-wide PBE PAW pseudopotential library root
const DefaultLibrary = "/shared/software/chem/vasp/potpaw_PBE.54"

// Elements whose recommended PAW data set treats semi-core states as
// valence. The suffix picks the potential directory, e.g. Pb -> Pb_d.
var (
	dVariants = map[string]bool{
		"Pb": true, "Sb": true, "Sn": true,
	}
	svVariants = map[string]bool{
		"Cs": true, "K": true, "Rb": true, "Na": true, "Nb": true,
		"Ba": true, "Mo": true, "V": true, "Ti": true, "Cr": true,
	}
)

// Generator concatenates per-element POTCAR files out of a pseudopotential
// library into a single POTCAR, in POSCAR element order.
type Generator struct {
	library string
	gw      bool
}

// New creates a generator over a library root. When gw is set the GW-ready
// flavor of each potential is used.
func New(library string, gw bool) *Generator {
	if library == "" {
		library = DefaultLibrary
	}
	return &Generator{library: library, gw: gw}
}

// PotentialDir returns the library directory holding the potential for an
// element.
func (g *Generator) PotentialDir(element string) string {
	name := element
	switch {
	case dVariants[element]:
		name += "_d"
	case svVariants[element]:
		name += "_sv"
	}
	if g.gw {
		name += "_GW"
	}
	return filepath.Join(g.library, name)
}

// Generate writes dir/POTCAR for the given element sequence. A missing
// potential is fatal.
func (g *Generator) Generate(ctx context.Context, dir string, elements []string) error {
	logger := ctxlog.From(ctx)

	if len(elements) == 0 {
		return goerr.New("no elements to build POTCAR for")
	}

	dest := filepath.Join(dir, types.FilePOTCAR)
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return goerr.Wrap(err, "failed to create POTCAR", goerr.V("path", dest))
	}
	defer out.Close()

	for _, el := range elements {
		src := filepath.Join(g.PotentialDir(el), types.FilePOTCAR)
		if err := appendFile(out, src); err != nil {
			return goerr.Wrap(err, "failed to append potential",
				goerr.V("element", el), goerr.V("path", src))
		}
		logger.Debug("appended potential", "element", el, "path", src)
	}

	logger.Info("POTCAR generated", "elements", elements, "path", dest)
	return nil
}

func appendFile(dst io.Writer, src string) error {
	f, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return goerr.Wrap(types.ErrPotentialMissing, "potential file absent", goerr.V("path", src))
		}
		return err
	}
	defer f.Close()

	_, err = io.Copy(dst, f)
	return err
}
