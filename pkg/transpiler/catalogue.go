package transpiler

import (
	"fmt"

	"github.com/vinivendra/Gryphon-sub003/pkg/template"
)

// LoadCatalogue builds the catalogue for a run: the built-in templates when
// builtin is set, then every file in order. Earlier templates take
// precedence, so project files cannot shadow built-in ones.
func LoadCatalogue(builtin bool, files ...string) (*template.Catalogue, error) {
	catalogue := template.NewCatalogue()

	if builtin {
		std, err := template.LoadBuiltin()
		if err != nil {
			return nil, fmt.Errorf("load built-in templates: %w", err)
		}

		catalogue = std
	}

	for _, path := range files {
		loaded, err := template.LoadFile(path)
		if err != nil {
			return nil, err
		}

		err = catalogue.Merge(loaded)
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", path, err)
		}
	}

	return catalogue, nil
}
