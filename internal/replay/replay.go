// Package replay stores the options of the last bake of each template so a
// later bake can reuse them.
package replay

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

// Record is the on-disk replay document.
type Record struct {
	Template string            `yaml:"template"`
	BakedAt  time.Time         `yaml:"bakedAt"`
	Options  map[string]string `yaml:"options"`
}

// Store reads and writes replay records in a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the replay file for template.
func (s *Store) Path(template string) string {
	return filepath.Join(s.dir, template+".yaml")
}

// Save writes rec, replacing any previous record for the same template.
func (s *Store) Save(rec Record) error {
	if rec.Template == "" {
		return fmt.Errorf("replay record has no template name")
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding replay record: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return oerrors.NewIOError(s.dir, err)
	}

	path := s.Path(rec.Template)
	tmp, err := os.CreateTemp(s.dir, "."+rec.Template+"-*.yaml")
	if err != nil {
		return oerrors.NewIOError(s.dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return oerrors.NewIOError(tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return oerrors.NewIOError(tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return oerrors.NewIOError(path, err)
	}
	return nil
}

// Load reads the record for template.
func (s *Store) Load(template string) (Record, error) {
	path := s.Path(template)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, oerrors.NewNotFoundError("no replay record for template "+template, path,
			"bake the template once without --replay to create one")
	}
	if err != nil {
		return Record{}, oerrors.NewIOError(path, err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, oerrors.NewValidationError("replay file is not valid YAML: "+err.Error(), path, "", "")
	}
	if rec.Template != template {
		return Record{}, oerrors.NewValidationError(
			fmt.Sprintf("replay file records template %q", rec.Template), path, "template", "")
	}
	if rec.Options == nil {
		rec.Options = map[string]string{}
	}
	return rec, nil
}
