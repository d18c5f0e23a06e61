package imageio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/valyala/fasttemplate"
)

// Save encodes img to path. Parent directories are created when missing. The
// image is written to a temporary file first, so readers never see a partially
// written file.
func Save(path string, img image.Image, f Format) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := Encode(tmp, img, f); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode %s: %w", f, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// NameTemplate builds file names from a template with {tag} placeholders.
// Unknown tags are replaced with empty strings.
type NameTemplate struct {
	t *fasttemplate.Template
}

// NewNameTemplate parses template.
func NewNameTemplate(template string) (*NameTemplate, error) {
	t, err := fasttemplate.NewTemplate(template, "{", "}")
	if err != nil {
		return nil, fmt.Errorf("invalid name template %q: %w", template, err)
	}
	return &NameTemplate{t: t}, nil
}

// Execute returns file name with tags substituted by vars.
func (n *NameTemplate) Execute(vars map[string]string) string {
	values := make(map[string]any, len(vars))
	for k, v := range vars {
		values[k] = v
	}
	return n.t.ExecuteString(values)
}
