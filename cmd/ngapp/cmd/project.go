package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/go-scaffold/ngapp/cmd/ngapp/internal/config"
	"github.com/go-scaffold/ngapp/cmd/ngapp/internal/prompt"
	"github.com/go-scaffold/ngapp/pkg/scaffold"
)

// project is a target directory and the configuration resolved for it.
type project struct {
	dir      string
	root     string
	fs       billy.Filesystem
	resolved *config.Resolved
}

// openProject resolves dir and loads its answers file and environment.
// The directory does not have to exist yet.
func openProject(raw string) (*project, error) {
	if strings.HasPrefix(raw, "~") {
		return nil, fmt.Errorf("tilde (~) is not expanded by ngapp; use an absolute path or $HOME instead")
	}
	dir := filepath.Clean(raw)

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := validateDirectory(root); err != nil {
		return nil, err
	}

	fsys := osfs.New(root, osfs.WithBoundOS())
	res, err := config.Resolve(root, fsys)
	if err != nil {
		return nil, err
	}
	return &project{dir: dir, root: root, fs: fsys, resolved: res}, nil
}

// answerSource says where the base answers of a run came from.
type answerSource int

const (
	answersDefault answerSource = iota
	answersProjectFile
	answersFlagFile
)

// baseConfig returns the answers to start from: the --answers file, the
// project's own answers file, or the defaults, in that order.
func (p *project) baseConfig(s *Session) (scaffold.ProjectConfig, answerSource, error) {
	if s.AnswersPath != "" {
		f, err := config.LoadFile(s.AnswersPath)
		if err != nil {
			return scaffold.ProjectConfig{}, answersDefault, err
		}
		return f.Project.Clone(), answersFlagFile, nil
	}
	if p.resolved.Answers != nil {
		return p.resolved.Answers.Clone(), answersProjectFile, nil
	}
	return scaffold.DefaultProjectConfig(p.resolved.DefaultAppName), answersDefault, nil
}

// configure resolves the final configuration. Prompts run only when
// interactive is set and no answers file was found. Environment overrides
// apply on top, and a non-empty appName argument wins over everything.
func (p *project) configure(s *Session, appName string, interactive bool) (scaffold.ProjectConfig, error) {
	cfg, source, err := p.baseConfig(s)
	if err != nil {
		return cfg, err
	}
	if cfg.AppName == "" {
		cfg.AppName = p.resolved.DefaultAppName
	}

	switch {
	case source == answersFlagFile:
		fmt.Fprintf(s.Stdout, "Using answers from %s\n", s.AnswersPath)
	case source == answersProjectFile:
		fmt.Fprintf(s.Stdout, "Using answers from %s\n", filepath.Join(p.dir, config.AnswersFile))
	case interactive:
		banner(s.Stdout)
		cfg, err = prompt.Collect(prompt.New(s.Stdin, s.Stdout), cfg)
		if err != nil {
			return cfg, err
		}
	}

	p.resolved.Env.Apply(&cfg)
	if appName != "" {
		cfg.AppName = appName
	}
	if err := validateAppName(cfg.AppName); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ensureDir creates the project directory.
func (p *project) ensureDir() error {
	if err := os.MkdirAll(p.root, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// validateDirectory rejects project locations that are filesystem roots or
// root-level directories (e.g. /etc, C:\Users). dir must be absolute.
func validateDirectory(dir string) error {
	if dir == "" || isVolumeRoot(dir) {
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if isVolumeRoot(filepath.Dir(dir)) {
		return fmt.Errorf("refusing to create project at root-level path %q", dir)
	}
	return nil
}

// isVolumeRoot reports whether dir is a filesystem root. On Unix this is "/",
// on Windows this covers drive roots like "C:\" and the bare root "\".
func isVolumeRoot(dir string) bool {
	return dir == filepath.VolumeName(dir)+string(filepath.Separator)
}
