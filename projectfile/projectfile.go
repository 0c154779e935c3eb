// Package projectfile reads and writes story map projects as JSON documents.
package projectfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"storymap/diagram"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidProject is returned for documents that decode but fail validation.
var ErrInvalidProject = errors.New("invalid project file")

// Extension is the conventional file extension for projects.
const Extension = ".storymap.json"

var validate = validator.New()

// Decode reads a project document from r and validates it.
func Decode(r io.Reader) (*diagram.Project, error) {
	var doc diagram.Project
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode writes doc to w as indented JSON.
func Encode(w io.Writer, doc *diagram.Project) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Validate checks the structural rules of a document: a version, and a
// non-zero id on every record. Referential integrity is checked when the
// document is loaded into a model.Project.
func Validate(doc *diagram.Project) error {
	if doc.Version != "" && doc.Version != diagram.CurrentVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidProject, doc.Version)
	}
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProject, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Project.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

// Load reads and validates the project at path.
func Load(path string) (*diagram.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes doc to path. The document goes to a temporary file in the same
// directory first and is renamed into place, so a failed save leaves the
// previous file intact.
func Save(path string, doc *diagram.Project) error {
	if err := Validate(doc); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		return fmt.Errorf("save project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}
