package scaffold

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-scaffold/ngapp/pkg/errors"
)

// ConfigDir is the reserved directory holding app and lint configuration.
const ConfigDir = "config"

type planFile struct {
	kind   OpKind
	source string
	dest   string
}

// Project description files, written at the project root.
var descriptionFiles = []planFile{
	{OpCopy, "common/editorconfig", ".editorconfig"},
	{OpCopy, "common/gitattributes", ".gitattributes"},
	{OpCopy, "common/travis.yml", ".travis.yml"},
	{OpRender, "common/gitignore", ".gitignore"},
	{OpRender, "common/README.md", "README.md"},
}

// Package manifests, written at the project root.
var manifestFiles = []planFile{
	{OpRender, "common/package.json", "package.json"},
	{OpRender, "common/bower.json", "bower.json"},
	{OpRender, "common/bowerrc", ".bowerrc"},
	{OpRender, "common/Gruntfile.js", "Gruntfile.js"},
}

// BuildPlan maps cfg to the ordered list of operations that materialize
// the project. Every directory is created before anything is written into
// it. On error the result is nil and the error is a
// *errors.ConfigurationError; no partial plan is ever returned.
func BuildPlan(cfg ProjectConfig) ([]FileOperation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ext := ResolveExtensions(cfg.Preprocessors)
	b := &planBuilder{
		ctx:   newTemplateContext(cfg, ext),
		owner: make(map[string]claim),
	}

	for _, key := range projectFolderKeys {
		b.mkdir("projectFolders."+key, Compose(cfg.ProjectFolders[key]))
	}

	b.mkdir(ConfigDir, ConfigDir)
	b.add(OpRender, "common/config/appConfig.json", Compose(ConfigDir, "appConfig.json"))
	b.add(OpCopy, "common/config/jshintrc", Compose(ConfigDir, ".jshintrc"))

	src := cfg.ProjectFolders[FolderSrc]
	for _, key := range assetFolderKeys {
		b.mkdir("assetFolders."+key, Compose(src, cfg.AssetFolders[key]))
	}

	for _, f := range descriptionFiles {
		b.add(f.kind, f.source, f.dest)
	}
	for _, f := range manifestFiles {
		b.add(f.kind, f.source, f.dest)
	}

	scripts := Compose(src, cfg.AssetFolders[AssetScripts])
	styles := Compose(src, cfg.AssetFolders[AssetStyles])

	b.add(OpRender, ext.Markup+"/index."+ext.Markup, Compose(src, "index."+ext.Markup))
	b.add(OpRender, ext.Script+"/app."+ext.Script, Compose(scripts, "app."+ext.Script))
	b.add(OpRender, ext.Script+"/templates."+ext.Script, Compose(scripts, "templates."+ext.Script))
	b.add(OpRender, ext.Style+"/screen."+ext.Style, Compose(styles, "screen."+ext.Style))
	b.add(OpCopy, "common/favicon.ico", Compose(src, "favicon.ico"))

	if b.err != nil {
		return nil, b.err
	}
	if err := ValidatePlan(b.ops); err != nil {
		return nil, err
	}
	return b.ops, nil
}

// planBuilder accumulates operations and stops at the first collision.
type planBuilder struct {
	ctx *TemplateContext
	ops []FileOperation
	// owner maps a case-folded destination to its claim.
	owner map[string]claim
	err   error
}

type claim struct {
	field string
	dest  string
	dir   bool
	// implied marks a directory created only as the parent of a nested folder.
	implied bool
}

// mkdir plans dest and every ancestor not already planned.
func (b *planBuilder) mkdir(field, dest string) {
	b.mkdirParents(field, dest)
	b.claim(field, FileOperation{Kind: OpMkdir, Destination: dest})
}

func (b *planBuilder) mkdirParents(field, dest string) {
	var parents []string
	for p := Dir(dest); p != "."; p = Dir(p) {
		parents = append(parents, p)
	}
	slices.Reverse(parents)

	for _, p := range parents {
		if b.err != nil {
			return
		}
		key := strings.ToLower(p)
		prev, ok := b.owner[key]
		switch {
		case !ok:
			b.owner[key] = claim{field: field, dest: p, dir: true, implied: true}
			b.ops = append(b.ops, FileOperation{Kind: OpMkdir, Destination: p})
		case !prev.dir:
			b.err = errors.Configf(field, dest, "nested under file %s", prev.dest)
		case prev.dest != p:
			b.err = collision(field, p, prev)
		}
	}
}

func (b *planBuilder) add(kind OpKind, source, dest string) {
	op := FileOperation{Kind: kind, Source: source, Destination: dest}
	if kind == OpRender {
		op.Context = b.ctx
	}
	b.claim(dest, op)
}

func (b *planBuilder) claim(field string, op FileOperation) {
	if b.err != nil {
		return
	}
	key := strings.ToLower(op.Destination)
	if prev, ok := b.owner[key]; ok {
		// A folder already created as the parent of a nested one is not a collision.
		if prev.implied && op.Kind == OpMkdir && prev.dest == op.Destination {
			b.owner[key] = claim{field: field, dest: prev.dest, dir: true}
			return
		}
		b.err = collision(field, op.Destination, prev)
		return
	}
	b.owner[key] = claim{field: field, dest: op.Destination, dir: op.Kind == OpMkdir}
	b.ops = append(b.ops, op)
}

// collision reports dest as taken by prev. Paths differing only in case
// collide because they share a directory on case-insensitive filesystems.
func collision(field, dest string, prev claim) error {
	if prev.dest != dest {
		return errors.Configf(field, dest, "differs only in case from %s (%s)", prev.dest, prev.field)
	}
	return errors.Configf(field, dest, "resolves to the same path as %s", prev.field)
}

// ValidatePlan checks that ops can be replayed safely: each operation is
// well formed, no two operations share a destination, no destination is
// nested under a file, and every directory on the path of a copy or render
// was created by an earlier mkdir.
func ValidatePlan(ops []FileOperation) error {
	dirs := make(map[string]bool)
	seen := make(map[string]int, len(ops))
	files := make([]string, 0, len(ops))

	for i, op := range ops {
		field := fmt.Sprintf("plan[%d]", i)
		if err := checkShape(field, op); err != nil {
			return err
		}

		key := strings.ToLower(op.Destination)
		if prev, ok := seen[key]; ok {
			if ops[prev].Destination != op.Destination {
				return errors.Configf(field, op.Destination, "destination already written by plan[%d] (differs only in case)", prev)
			}
			return errors.Configf(field, op.Destination, "destination already written by plan[%d]", prev)
		}
		seen[key] = i

		if op.Kind == OpMkdir {
			dirs[key] = true
			continue
		}
		for parent := Dir(op.Destination); parent != "."; parent = Dir(parent) {
			if !dirs[strings.ToLower(parent)] {
				return errors.Configf(field, op.Destination, "directory %s is not created before it is written", parent)
			}
		}
		files = append(files, key)
	}

	for i, op := range ops {
		key := strings.ToLower(op.Destination)
		for _, file := range files {
			if isAncestor(file, key) {
				return errors.Configf(fmt.Sprintf("plan[%d]", i), op.Destination, "nested under file %s", file)
			}
		}
	}
	return nil
}

func checkShape(field string, op FileOperation) error {
	if op.Destination == "" || op.Destination == "." || Compose(op.Destination) != op.Destination {
		return errors.Configf(field, op.Destination, "destination must be a clean path inside the project")
	}
	switch op.Kind {
	case OpMkdir:
		if op.Source != "" || op.Context != nil {
			return errors.Configf(field, op.Destination, "mkdir takes no source or context")
		}
	case OpCopy:
		if op.Source == "" || op.Context != nil {
			return errors.Configf(field, op.Destination, "copy needs a source and no context")
		}
	case OpRender:
		if op.Source == "" || op.Context == nil {
			return errors.Configf(field, op.Destination, "render needs a source and a context")
		}
	default:
		return errors.Configf(field, string(op.Kind), "unknown operation kind")
	}
	return nil
}

// PlanDirectories returns the mkdir destinations of ops in order.
func PlanDirectories(ops []FileOperation) []string {
	var dirs []string
	for _, op := range ops {
		if op.Kind == OpMkdir {
			dirs = append(dirs, op.Destination)
		}
	}
	return dirs
}
