// Package templates provides the embedded template tree a scaffold plan
// copies and renders from.
//
// Layout mirrors the plan's source paths: common/ holds the files every
// project gets, and one directory per extension (jade, html, coffee, js,
// scss, css) holds the language-specific entry points.
package templates

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:embed common jade html coffee js scss css
var FS embed.FS

// Templates use [[ ]] because AngularJS markup owns {{ }} and Grunt owns <% %>.
const (
	LeftDelim  = "[["
	RightDelim = "]]"
)

// DefaultCacheSize bounds the number of parsed templates kept by a Renderer.
const DefaultCacheSize = 64

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"json":     jsonString,
	"camelize": Camelize,
}

// Renderer parses templates from a filesystem and caches the parsed form.
// It is safe for concurrent use.
type Renderer struct {
	src   fs.FS
	cache *lru.Cache[string, *template.Template]
}

// NewRenderer creates a renderer reading from src.
func NewRenderer(src fs.FS, cacheSize int) (*Renderer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *template.Template](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}
	return &Renderer{src: src, cache: cache}, nil
}

// NewDefaultRenderer creates a renderer over the embedded template tree.
func NewDefaultRenderer() *Renderer {
	r, err := NewRenderer(FS, DefaultCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return r
}

// ReadFile returns the raw bytes of a template, for verbatim copies.
func (r *Renderer) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(r.src, name)
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return []byte(buf.String()), nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	if tmpl, ok := r.cache.Get(name); ok {
		return tmpl, nil
	}

	content, err := fs.ReadFile(r.src, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	tmpl, err := parse(name, string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	r.cache.Add(name, tmpl)
	return tmpl, nil
}

func parse(name, content string) (*template.Template, error) {
	return template.New(path.Base(name)).
		Delims(LeftDelim, RightDelim).
		Funcs(Funcs).
		Option("missingkey=error").
		Parse(content)
}

// ProcessTemplate processes a template string with the given data.
func ProcessTemplate(content string, data any) (string, error) {
	tmpl, err := parse("", content)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// ListFiles returns all files in the embedded filesystem under the given path.
func ListFiles(root string) ([]string, error) {
	var files []string

	err := fs.WalkDir(FS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})

	return files, err
}

// Camelize turns an app name such as "acme-app" into a JavaScript
// identifier such as "acmeApp", for the AngularJS module name.
func Camelize(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if b.Len() == 0 && unicode.IsDigit(r) {
				b.WriteString("app")
				upper = false
			}
			if upper && b.Len() > 0 {
				r = unicode.ToUpper(r)
			} else if b.Len() == 0 {
				r = unicode.ToLower(r)
			}
			b.WriteRune(r)
			upper = false
		default:
			upper = true
		}
	}
	if b.Len() == 0 {
		return "app"
	}
	return b.String()
}

func jsonString(s string) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
