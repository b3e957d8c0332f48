// Package fixtures loads JSON test data from a known directory into
// request shapes for the scenario suite.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JohnPlummer/jp-go-restcheck/objects"
)

// ObjectFixture is the create-request shape stored on disk.
type ObjectFixture struct {
	Name string             `json:"name"`
	Data objects.Attributes `json:"data"`
}

// Loader reads fixture files from one directory.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load parses the named fixture file into out. The ".json" extension is
// implied when absent. A missing file is reported with os.ErrNotExist in
// the chain.
func (l *Loader) Load(name string, out any) error {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	path := filepath.Join(l.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("fixture %s: %w", name, err)
	}
	return nil
}

// Object loads the named fixture as a create-request shape.
func (l *Loader) Object(name string) (*ObjectFixture, error) {
	var f ObjectFixture
	if err := l.Load(name, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
