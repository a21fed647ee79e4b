package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-scaffold/ngapp/cmd/ngapp/internal/config"
	"github.com/go-scaffold/ngapp/cmd/ngapp/internal/install"
	"github.com/go-scaffold/ngapp/cmd/ngapp/internal/materialize"
	"github.com/go-scaffold/ngapp/cmd/ngapp/internal/templates"
	"github.com/go-scaffold/ngapp/pkg/errors"
	"github.com/go-scaffold/ngapp/pkg/scaffold"
)

const initUsage = "ngapp init [directory] [appname] [--yes] [--force] [--skip-install]"

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Scaffold a new AngularJS project",
		Long: `Scaffold a new AngularJS project.

This command asks which pre-processors, folders and AngularJS modules the
project uses, then writes:
  - package.json, bower.json, .bowerrc and a Gruntfile
  - .editorconfig, .gitattributes, .gitignore, .travis.yml, README.md
  - config/appConfig.json and config/.jshintrc
  - index, app, templates and screen sources under the source folder

The directory defaults to the current one and the app name to the
directory basename. Answers are saved to .ngapp.yaml and reused by later
runs in the same directory.

Files that already exist are left alone when identical and reported as
conflicts when they differ; --force overwrites them.

Flags:
  -y, --yes          Accept the default answers without prompting
  -f, --force        Overwrite files that differ from the generated ones
  --skip-install     Do not run bower install and npm install

Examples:
  ngapp init
  ngapp init myapp
  ngapp init ./projects/myapp my-app --yes
  ngapp --answers team.yaml init myapp`,
		Usage: initUsage,
		Run:   runInit,
	})
}

type initOptions struct {
	dir         string
	appName     string
	yes         bool
	force       bool
	skipInstall bool
}

func parseInitArgs(args []string) (initOptions, error) {
	opts := initOptions{dir: "."}
	var positional []string
	for _, arg := range args {
		switch arg {
		case "-y", "--yes":
			opts.yes = true
		case "-f", "--force":
			opts.force = true
		case "--skip-install":
			opts.skipInstall = true
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, &errors.UsageError{Msg: fmt.Sprintf("unknown flag %s", arg), Usage: initUsage}
			}
			positional = append(positional, arg)
		}
	}
	if len(positional) > 2 {
		return opts, &errors.UsageError{Msg: "too many arguments", Usage: initUsage}
	}
	if len(positional) > 0 {
		opts.dir = positional[0]
	}
	if len(positional) > 1 {
		opts.appName = positional[1]
	}
	return opts, nil
}

// newInstaller is replaced in tests.
var newInstaller = install.New

// runInit resolves the answers, builds the plan and writes it into the
// target directory, then installs dependencies.
func runInit(s *Session, args []string) error {
	opts, err := parseInitArgs(args)
	if err != nil {
		return err
	}

	p, err := openProject(opts.dir)
	if err != nil {
		return err
	}

	cfg, err := p.configure(s, opts.appName, !opts.yes)
	if err != nil {
		return err
	}

	// Nothing touches the disk before the plan is known to be valid.
	ops, err := scaffold.BuildPlan(cfg)
	if err != nil {
		return err
	}

	if err := p.ensureDir(); err != nil {
		return err
	}

	fmt.Fprintf(s.Stdout, "\nCreating AngularJS project %s in %s\n", cfg.AppName, p.dir)

	m := materialize.New(p.fs, templates.NewDefaultRenderer(), materialize.Options{
		Force:   opts.force,
		Verbose: s.Verbose,
		Out:     s.Stdout,
	})
	result, err := m.Apply(ops)
	if err != nil {
		return err
	}

	if err := config.Save(p.fs, cfg); err != nil {
		return err
	}

	if conflicts := result.Conflicts(); len(conflicts) > 0 {
		fmt.Fprintf(s.Stderr, "\n  Warning: %d file(s) differ from the generated version and were left unchanged:\n", len(conflicts))
		for _, c := range conflicts {
			fmt.Fprintf(s.Stderr, "    %s\n", c)
		}
		fmt.Fprintln(s.Stderr, "  Re-run with --force to overwrite them.")
	}

	if opts.skipInstall || p.resolved.Env.SkipInstall {
		fmt.Fprint(s.Stdout, install.SkipMessage(install.DefaultTools))
	} else {
		installDependencies(s.Context, s.Stdout, s.Stderr, p.root)
	}

	fmt.Fprintln(s.Stdout)
	fmt.Fprintf(s.Stdout, "Project created successfully!\n\n")
	fmt.Fprintf(s.Stdout, "Next steps:\n")
	if p.dir != "." {
		fmt.Fprintf(s.Stdout, "  cd %s\n", p.dir)
	}
	fmt.Fprintf(s.Stdout, "  grunt server    # Build and serve with live reload\n")
	fmt.Fprintf(s.Stdout, "  grunt build     # Production build into %s\n", cfg.ProjectFolders[scaffold.FolderDist])

	return nil
}

// installDependencies runs the dependency managers. Failures are warnings:
// the project is already on disk and the tools can be re-run by hand.
func installDependencies(ctx context.Context, out, warn io.Writer, dir string) {
	fmt.Fprintln(out)
	for _, err := range newInstaller(out).Install(ctx, dir) {
		fmt.Fprintf(warn, "  Warning: %v\n", err)
	}
}
