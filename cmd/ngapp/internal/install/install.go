// Package install runs the dependency managers of a freshly scaffolded
// project.
package install

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	ngerrors "github.com/go-scaffold/ngapp/pkg/errors"
)

// Runner runs an external command in dir, streaming its output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args []string, stdout, stderr io.Writer) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Tool is one dependency manager invocation.
type Tool struct {
	Name string
	Args []string
}

// DefaultTools installs front-end packages first, then the build tooling.
var DefaultTools = []Tool{
	{Name: "bower", Args: []string{"install"}},
	{Name: "npm", Args: []string{"install"}},
}

// Installer runs Tools in order.
type Installer struct {
	Runner Runner
	Tools  []Tool
	Out    io.Writer
}

// New creates an installer with the default tools.
func New(out io.Writer) *Installer {
	return &Installer{Runner: ExecRunner{}, Tools: DefaultTools, Out: out}
}

// Install runs every tool in dir. A failing tool does not stop the others;
// its failure is returned as an *errors.InstallError for the caller to
// report as a warning. Only context cancellation stops the run early.
func (in *Installer) Install(ctx context.Context, dir string) []error {
	out := in.Out
	if out == nil {
		out = io.Discard
	}

	var failures []error
	for _, tool := range in.Tools {
		if err := ctx.Err(); err != nil {
			failures = append(failures, &ngerrors.InstallError{Tool: tool.Name, Err: err})
			break
		}
		fmt.Fprintf(out, "  Running %s %s...\n", tool.Name, strings.Join(tool.Args, " "))
		if err := in.Runner.Run(ctx, dir, tool.Name, tool.Args, out, out); err != nil {
			fmt.Fprintf(out, "  Warning: %s %s failed\n", tool.Name, strings.Join(tool.Args, " "))
			failures = append(failures, &ngerrors.InstallError{Tool: tool.Name, Err: err})
		}
	}
	return failures
}

// SkipMessage is printed instead of running the tools.
func SkipMessage(tools []Tool) string {
	msg := "\nI'm all done. Just run"
	for i, tool := range tools {
		if i > 0 {
			msg += " &&"
		}
		msg += fmt.Sprintf(" %s %s", tool.Name, strings.Join(tool.Args, " "))
	}
	return msg + " to install the required dependencies.\n"
}
