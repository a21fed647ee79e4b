package scaffold

import (
	"fmt"
	"maps"
)

// OpKind is the kind of a FileOperation.
type OpKind string

const (
	// OpMkdir creates a directory. It is idempotent.
	OpMkdir OpKind = "mkdir"
	// OpCopy writes a source file's bytes unchanged.
	OpCopy OpKind = "copy"
	// OpRender executes a source template with Context and writes the result.
	OpRender OpKind = "render"
)

// FileOperation is one step of a scaffold plan.
type FileOperation struct {
	Kind OpKind `json:"kind" yaml:"kind"`
	// Source is the template path, empty for OpMkdir.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// Destination is slash-separated and relative to the project root.
	Destination string `json:"destination" yaml:"destination"`
	// Context is set only for OpRender. It is shared between the render
	// operations of one plan and must not be modified.
	Context *TemplateContext `json:"context,omitempty" yaml:"context,omitempty"`
}

func (op FileOperation) String() string {
	if op.Kind == OpMkdir {
		return fmt.Sprintf("%s %s", op.Kind, op.Destination)
	}
	return fmt.Sprintf("%s %s <- %s", op.Kind, op.Destination, op.Source)
}

// TemplateContext is the data exposed to templates: the whole ProjectConfig
// plus the resolved extensions.
type TemplateContext struct {
	AppName        string        `json:"appName" yaml:"appName"`
	Preprocessors  Preprocessors `json:"preprocessors" yaml:"preprocessors"`
	ProjectFolders Folders       `json:"projectFolders" yaml:"projectFolders"`
	AssetFolders   Folders       `json:"assetFolders" yaml:"assetFolders"`
	Modules        Modules       `json:"modules" yaml:"modules"`
	Ext            Extensions    `json:"ext" yaml:"ext"`
}

func newTemplateContext(cfg ProjectConfig, ext Extensions) *TemplateContext {
	return &TemplateContext{
		AppName:        cfg.AppName,
		Preprocessors:  cfg.Preprocessors,
		ProjectFolders: maps.Clone(cfg.ProjectFolders),
		AssetFolders:   maps.Clone(cfg.AssetFolders),
		Modules:        cfg.Modules,
		Ext:            ext,
	}
}

// Jade reports whether views are written in Jade.
func (c *TemplateContext) Jade() bool { return c.Preprocessors.Markup == MarkupTemplate }

// Coffee reports whether scripts are written in CoffeeScript.
func (c *TemplateContext) Coffee() bool { return c.Preprocessors.Scripting == ScriptCompiled }

// Compass reports whether styles are written in Sass with Compass.
func (c *TemplateContext) Compass() bool { return c.Preprocessors.Styling == StyleCompiled }

// Folder returns the composed path of a project folder, e.g. "app".
func (c *TemplateContext) Folder(key string) string {
	return Compose(c.ProjectFolders[key])
}

// Asset returns the composed path of an asset folder including src,
// e.g. "app/scripts".
func (c *TemplateContext) Asset(key string) string {
	return Compose(c.ProjectFolders[FolderSrc], c.AssetFolders[key])
}
