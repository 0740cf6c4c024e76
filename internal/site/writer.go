package site

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/janmarkuslanger/ssgo/writer"
	"github.com/pkg/errors"
)

// ErrTemplateMissing means the front-end build has not produced index.html yet.
var ErrTemplateMissing = errors.New("template index.html not found, run the front-end build first")

// ErrInvalidRoute is returned for routes that would land outside the output root.
var ErrInvalidRoute = errors.New("route escapes output directory")

// LoadTemplate reads the built root document used as the base of every page.
func LoadTemplate(outputDir string) (string, error) {
	path := filepath.Join(outputDir, "index.html")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", errors.Wrap(ErrTemplateMissing, path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "read template %s", path)
	}
	return string(data), nil
}

// Writer persists rendered routes under Root through Files.
type Writer struct {
	Root  string
	Files writer.Writer
}

func NewWriter(root string) Writer {
	return Writer{Root: root, Files: writer.NewFileWriter()}
}

// WriteRoute writes html to {Root}/{route}/index.html. The root route is left
// alone because the template already serves it; written reports whether a
// file was produced.
func (w Writer) WriteRoute(route, html string) (written bool, err error) {
	clean := strings.Trim(route, "/")
	if clean == "" {
		return false, nil
	}

	rel := filepath.FromSlash(clean)
	if !filepath.IsLocal(rel) {
		return false, errors.Wrap(ErrInvalidRoute, route)
	}

	path := filepath.Join(w.Root, rel, "index.html")
	if err := w.Files.Write(path, html); err != nil {
		return false, errors.Wrapf(err, "write route %s", route)
	}
	return true, nil
}
