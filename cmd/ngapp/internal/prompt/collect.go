package prompt

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-scaffold/ngapp/pkg/scaffold"
)

type folderQuestion struct {
	key     string
	message string
}

var projectFolderQuestions = []folderQuestion{
	{scaffold.FolderDev, "What would be your folder for temporary files while development?"},
	{scaffold.FolderDist, "What would be your folder for production build?"},
	{scaffold.FolderSrc, "What would be your source files folder?"},
	{scaffold.FolderTest, "What would be your folder for test files?"},
}

var assetFolderQuestions = []folderQuestion{
	{scaffold.AssetDependencies, "Where do I need to download Bower dependencies?"},
	{scaffold.AssetFonts, "What would be your fonts folder?"},
	{scaffold.AssetImages, "What would be your images folder?"},
	{scaffold.AssetScripts, "What would be your scripts (CoffeeScript and/or JavaScript) folder?"},
	{scaffold.AssetStyles, "What would be your styles folder?"},
	{scaffold.AssetTemplates, "What would be your folder for AngularJS templates?"},
}

// Preprocessor choice values.
const (
	ChoiceCoffeeScript = "coffeeScript"
	ChoiceCompass      = "compass"
	ChoiceJade         = "jade"
)

// Collect runs the four question groups and returns the validated answers.
// base supplies the defaults; pass scaffold.DefaultProjectConfig for a
// fresh project or a previous run's answers to re-ask with those.
func Collect(p *Prompter, base scaffold.ProjectConfig) (scaffold.ProjectConfig, error) {
	cfg := base.Clone()

	fmt.Fprintf(p.out, "\n\n1- Let's talk in pre-processors terms...\n\n")
	engines, err := p.Checkbox("Which pre-processors would you like to use in your project?", []Choice{
		{Value: ChoiceCoffeeScript, Name: "CoffeeScript.", Checked: cfg.Preprocessors.Scripting == scaffold.ScriptCompiled},
		{Value: ChoiceCompass, Name: "Sass (with Compass).", Checked: cfg.Preprocessors.Styling == scaffold.StyleCompiled},
		{Value: ChoiceJade, Name: "Jade.", Checked: cfg.Preprocessors.Markup == scaffold.MarkupTemplate},
	})
	if err != nil {
		return cfg, err
	}
	cfg.Preprocessors = PreprocessorsFromChoices(engines)

	fmt.Fprintf(p.out, "\n2- Tell me about your project base directories...\n\n")
	if cfg.ProjectFolders, err = askFolders(p, projectFolderQuestions, cfg.ProjectFolders); err != nil {
		return cfg, err
	}

	fmt.Fprintf(p.out, "\n\n3- Now, let's populate your app source folder with some sub folders for assets...\n\n")
	if cfg.AssetFolders, err = askFolders(p, assetFolderQuestions, cfg.AssetFolders); err != nil {
		return cfg, err
	}

	fmt.Fprintf(p.out, "\n\n4- Let's figure out which AngularJS modules did you like to include...\n\n")
	if cfg.Modules.Resource, err = p.Confirm("Would you like to include angular-resource.js?", cfg.Modules.Resource); err != nil {
		return cfg, err
	}
	cfg.Modules.RestangularAdapter = false
	if cfg.Modules.Resource {
		def := base.Modules.RestangularAdapter || !base.Modules.Resource
		if cfg.Modules.RestangularAdapter, err = p.Confirm("If so, would you like to use Restangular to handle your REST requests?", def); err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}

// PreprocessorsFromChoices maps checkbox selections onto the three
// preprocessor fields.
func PreprocessorsFromChoices(selected map[string]bool) scaffold.Preprocessors {
	p := scaffold.Preprocessors{
		Markup:    scaffold.MarkupPlain,
		Scripting: scaffold.ScriptPlain,
		Styling:   scaffold.StylePlain,
	}
	if selected[ChoiceJade] {
		p.Markup = scaffold.MarkupTemplate
	}
	if selected[ChoiceCoffeeScript] {
		p.Scripting = scaffold.ScriptCompiled
	}
	if selected[ChoiceCompass] {
		p.Styling = scaffold.StyleCompiled
	}
	return p
}

func askFolders(p *Prompter, questions []folderQuestion, defaults scaffold.Folders) (scaffold.Folders, error) {
	out := make(scaffold.Folders, len(questions))
	for _, q := range questions {
		answer, err := p.Ask(q.message, defaults[q.key])
		if err != nil {
			return nil, err
		}
		out[q.key] = NormalizeFolder(answer)
	}
	return out, nil
}

// NormalizeFolder trims an answer and converts it to a clean slash path.
// An empty answer stays empty so validation can name the field.
func NormalizeFolder(answer string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ""
	}
	return path.Clean(filepath.ToSlash(answer))
}
