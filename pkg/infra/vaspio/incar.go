package vaspio

import (
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
)

// RenderIncar renders the tag set in INCAR syntax, one "TAG = VALUE" line
// per tag in insertion order.
func RenderIncar(inc *model.Incar) string {
	var b strings.Builder
	for _, key := range inc.Keys() {
		v, _ := inc.Get(key)
		fmt.Fprintf(&b, "%s = %s\n", key, model.FormatIncarValue(v))
	}
	return b.String()
}

// WriteIncar writes the tag set to an INCAR file
func WriteIncar(path string, inc *model.Incar) error {
	if err := os.WriteFile(path, []byte(RenderIncar(inc)), 0644); err != nil {
		return goerr.Wrap(err, "failed to write INCAR", goerr.V("path", path))
	}
	return nil
}
