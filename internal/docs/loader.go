package docs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader reads markdown sources by their content-relative path.
type Loader struct {
	root string
}

// NewLoader creates a loader rooted at the content dir.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Load reads a source file. The source path must stay inside the content dir.
func (l *Loader) Load(source string) ([]byte, error) {
	clean := path.Clean(strings.ReplaceAll(source, "\\", "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return nil, fmt.Errorf("%w: %s", ErrPathOutsideContent, source)
	}

	data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, source, err)
	}
	return data, nil
}
