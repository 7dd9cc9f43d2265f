package builtin

import (
	"path/filepath"

	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// seedHeap allocates the handful of builtin constants every Compilation
// starts with: __FILE__/__PATH__/__DIR__, all trivially derivable from the
// Document's own path-like identifier. No dynamic __LINE__-style counter
// is seeded here — Source already carries an exact Reference for
// diagnostics, so a second, runtime-mutating value would only duplicate it
// (see DESIGN.md).
func seedHeap(c *spec.Compilation) error {
	path := c.Document().Name()
	c.Memory().Alloc("__PATH__", value.Text(path))
	c.Memory().Alloc("__FILE__", value.Text(filepath.Base(path)))
	c.Memory().Alloc("__DIR__", value.Text(filepath.Dir(path)))
	return nil
}
