package scaffold

import (
	stderrors "errors"
	"maps"
	"path"
	"slices"
	"strings"

	"golang.org/x/mod/module"

	"github.com/go-scaffold/ngapp/pkg/errors"
)

// MarkupPreprocessor selects the markup language of the generated views.
type MarkupPreprocessor string

// ScriptPreprocessor selects the scripting language of the generated app.
type ScriptPreprocessor string

// StylePreprocessor selects the stylesheet language of the generated app.
type StylePreprocessor string

const (
	// MarkupTemplate selects Jade templates.
	MarkupTemplate MarkupPreprocessor = "template"
	// MarkupPlain selects plain HTML.
	MarkupPlain MarkupPreprocessor = "plain"

	// ScriptCompiled selects CoffeeScript.
	ScriptCompiled ScriptPreprocessor = "compiled"
	// ScriptPlain selects plain JavaScript.
	ScriptPlain ScriptPreprocessor = "plain"

	// StyleCompiled selects Sass (with Compass).
	StyleCompiled StylePreprocessor = "compiled"
	// StylePlain selects plain CSS.
	StylePlain StylePreprocessor = "plain"
)

func (m MarkupPreprocessor) valid() bool { return m == MarkupTemplate || m == MarkupPlain }
func (s ScriptPreprocessor) valid() bool { return s == ScriptCompiled || s == ScriptPlain }
func (s StylePreprocessor) valid() bool  { return s == StyleCompiled || s == StylePlain }

// Preprocessors holds the three independent language choices.
type Preprocessors struct {
	Markup    MarkupPreprocessor `json:"markup" yaml:"markup" mapstructure:"markup"`
	Scripting ScriptPreprocessor `json:"scripting" yaml:"scripting" mapstructure:"scripting"`
	Styling   StylePreprocessor  `json:"styling" yaml:"styling" mapstructure:"styling"`
}

// Modules holds the optional AngularJS modules. RestangularAdapter
// requires Resource.
type Modules struct {
	Resource           bool `json:"resource" yaml:"resource" mapstructure:"resource"`
	RestangularAdapter bool `json:"restangularAdapter" yaml:"restangularAdapter" mapstructure:"restangularAdapter"`
}

// Folders maps a logical folder name to a relative, slash-separated path.
type Folders map[string]string

// Logical project folder names.
const (
	FolderDev  = "dev"
	FolderDist = "dist"
	FolderSrc  = "src"
	FolderTest = "test"
)

// Logical asset folder names. Asset folders live under the src folder.
const (
	AssetDependencies = "dependencies"
	AssetFonts        = "fonts"
	AssetImages       = "images"
	AssetScripts      = "scripts"
	AssetStyles       = "styles"
	AssetTemplates    = "templates"
)

var (
	projectFolderKeys = []string{FolderDev, FolderDist, FolderSrc, FolderTest}
	assetFolderKeys   = []string{AssetDependencies, AssetFonts, AssetImages, AssetScripts, AssetStyles, AssetTemplates}
)

// ProjectFolderKeys returns the required project folder keys in plan order.
func ProjectFolderKeys() []string { return slices.Clone(projectFolderKeys) }

// AssetFolderKeys returns the required asset folder keys in plan order.
func AssetFolderKeys() []string { return slices.Clone(assetFolderKeys) }

// DefaultProjectFolders returns the default project layout.
func DefaultProjectFolders() Folders {
	return Folders{
		FolderDev:  ".dev",
		FolderDist: "dist",
		FolderSrc:  "app",
		FolderTest: "test",
	}
}

// DefaultAssetFolders returns the default asset layout under src.
func DefaultAssetFolders() Folders {
	return Folders{
		AssetDependencies: "lib",
		AssetFonts:        "fonts",
		AssetImages:       "images",
		AssetScripts:      "scripts",
		AssetStyles:       "styles",
		AssetTemplates:    "templates",
	}
}

// ProjectConfig is the resolved answer set a plan is built from.
// Treat it as immutable once handed to BuildPlan.
type ProjectConfig struct {
	AppName        string        `json:"appName" yaml:"appName" mapstructure:"appName"`
	Preprocessors  Preprocessors `json:"preprocessors" yaml:"preprocessors" mapstructure:"preprocessors"`
	ProjectFolders Folders       `json:"projectFolders" yaml:"projectFolders" mapstructure:"projectFolders"`
	AssetFolders   Folders       `json:"assetFolders" yaml:"assetFolders" mapstructure:"assetFolders"`
	Modules        Modules       `json:"modules" yaml:"modules" mapstructure:"modules"`
}

// DefaultProjectConfig returns the configuration produced by accepting every
// default answer: all preprocessors enabled, default folders, both modules.
func DefaultProjectConfig(appName string) ProjectConfig {
	return ProjectConfig{
		AppName: appName,
		Preprocessors: Preprocessors{
			Markup:    MarkupTemplate,
			Scripting: ScriptCompiled,
			Styling:   StyleCompiled,
		},
		ProjectFolders: DefaultProjectFolders(),
		AssetFolders:   DefaultAssetFolders(),
		Modules: Modules{
			Resource:           true,
			RestangularAdapter: true,
		},
	}
}

// Clone returns a deep copy of c.
func (c ProjectConfig) Clone() ProjectConfig {
	c.ProjectFolders = maps.Clone(c.ProjectFolders)
	c.AssetFolders = maps.Clone(c.AssetFolders)
	return c
}

// Validate checks every invariant that does not require building the plan.
// The returned error is a *errors.ConfigurationError naming the field.
func (c ProjectConfig) Validate() error {
	if strings.TrimSpace(c.AppName) == "" {
		return errors.Configf("appName", "", "must not be empty")
	}
	if !c.Preprocessors.Markup.valid() {
		return errors.Configf("preprocessors.markup", string(c.Preprocessors.Markup),
			"must be %q or %q", MarkupTemplate, MarkupPlain)
	}
	if !c.Preprocessors.Scripting.valid() {
		return errors.Configf("preprocessors.scripting", string(c.Preprocessors.Scripting),
			"must be %q or %q", ScriptCompiled, ScriptPlain)
	}
	if !c.Preprocessors.Styling.valid() {
		return errors.Configf("preprocessors.styling", string(c.Preprocessors.Styling),
			"must be %q or %q", StyleCompiled, StylePlain)
	}
	if err := validateFolders("projectFolders", c.ProjectFolders, projectFolderKeys); err != nil {
		return err
	}
	if err := validateFolders("assetFolders", c.AssetFolders, assetFolderKeys); err != nil {
		return err
	}
	if c.Modules.RestangularAdapter && !c.Modules.Resource {
		return errors.Configf("modules.restangularAdapter", "true", "requires modules.resource")
	}
	return nil
}

func validateFolders(group string, folders Folders, keys []string) error {
	for _, key := range keys {
		value, ok := folders[key]
		if !ok {
			return errors.Configf(group+"."+key, "", "missing required folder")
		}
		if err := validateFolderValue(group+"."+key, value); err != nil {
			return err
		}
	}
	if len(folders) == len(keys) {
		return nil
	}
	// Reported in sorted order so the error is as deterministic as the plan.
	for _, key := range slices.Sorted(maps.Keys(folders)) {
		if !slices.Contains(keys, key) {
			return errors.Configf(group+"."+key, folders[key],
				"unknown folder (expected one of %s)", strings.Join(keys, ", "))
		}
	}
	return nil
}

func validateFolderValue(field, value string) error {
	switch {
	case value == "":
		return errors.Configf(field, value, "must not be empty")
	case strings.TrimSpace(value) != value:
		return errors.Configf(field, value, "must not start or end with whitespace")
	case path.IsAbs(value) || strings.HasPrefix(value, `\`) || (len(value) > 1 && value[1] == ':'):
		return errors.Configf(field, value, "must be a relative path")
	}
	for _, elem := range strings.Split(value, "/") {
		if elem == ".." {
			return errors.Configf(field, value, "must not contain '..'")
		}
	}
	if err := module.CheckFilePath(value); err != nil {
		reason := err.Error()
		var pathErr *module.InvalidPathError
		if stderrors.As(err, &pathErr) {
			reason = pathErr.Err.Error()
		}
		return errors.Configf(field, value, "%s", reason)
	}
	return nil
}
