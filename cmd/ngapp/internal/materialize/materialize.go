// Package materialize replays a scaffold plan onto a filesystem.
package materialize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	ngerrors "github.com/go-scaffold/ngapp/pkg/errors"
	"github.com/go-scaffold/ngapp/pkg/scaffold"
)

// Source supplies template bytes. *templates.Renderer implements it.
type Source interface {
	ReadFile(name string) ([]byte, error)
	Render(name string, data any) ([]byte, error)
}

// Options control how existing files are treated and what is printed.
type Options struct {
	// Force overwrites files whose content differs from the plan's.
	Force bool
	// Verbose prints a diff for every conflicting file.
	Verbose bool
	// Out receives progress lines. Nil discards them.
	Out io.Writer
}

// Status is the outcome of one plan step.
type Status string

const (
	StatusCreated     Status = "created"
	StatusIdentical   Status = "identical"
	StatusConflict    Status = "conflict"
	StatusOverwritten Status = "overwritten"
	StatusExists      Status = "exists"
)

// Step records what happened to one destination.
type Step struct {
	Op     scaffold.FileOperation
	Status Status
}

// Result lists the steps in plan order.
type Result struct {
	Steps []Step
}

// Conflicts returns the destinations left untouched because their content
// differs from the plan's.
func (r *Result) Conflicts() []string {
	var out []string
	for _, s := range r.Steps {
		if s.Status == StatusConflict {
			out = append(out, s.Op.Destination)
		}
	}
	return out
}

// Count returns the number of steps with the given status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Materializer writes plans into a filesystem rooted at the project directory.
type Materializer struct {
	fs   billy.Filesystem
	src  Source
	opts Options
}

// New creates a materializer writing to fsys and reading templates from src.
func New(fsys billy.Filesystem, src Source, opts Options) *Materializer {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Materializer{fs: fsys, src: src, opts: opts}
}

// Apply validates ops and then executes them in order. The first failing
// step aborts the run and is returned as *errors.MaterializationError;
// steps before it stay on disk.
func (m *Materializer) Apply(ops []scaffold.FileOperation) (*Result, error) {
	if err := scaffold.ValidatePlan(ops); err != nil {
		return nil, err
	}

	res := &Result{Steps: make([]Step, 0, len(ops))}
	for i, op := range ops {
		status, err := m.apply(op)
		if err != nil {
			return res, &ngerrors.MaterializationError{
				Index: i,
				Op:    string(op.Kind),
				Path:  op.Destination,
				Err:   err,
			}
		}
		res.Steps = append(res.Steps, Step{Op: op, Status: status})
	}
	return res, nil
}

func (m *Materializer) apply(op scaffold.FileOperation) (Status, error) {
	switch op.Kind {
	case scaffold.OpMkdir:
		return m.mkdir(op.Destination)
	case scaffold.OpCopy:
		data, err := m.src.ReadFile(op.Source)
		if err != nil {
			return "", fmt.Errorf("failed to read template %s: %w", op.Source, err)
		}
		return m.write(op.Destination, data)
	case scaffold.OpRender:
		data, err := m.src.Render(op.Source, op.Context)
		if err != nil {
			return "", err
		}
		return m.write(op.Destination, data)
	default:
		return "", fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func (m *Materializer) mkdir(dest string) (Status, error) {
	status := StatusCreated
	if fi, err := m.fs.Stat(dest); err == nil {
		if !fi.IsDir() {
			return "", fmt.Errorf("%s exists and is not a directory", dest)
		}
		status = StatusExists
	}
	if err := m.fs.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if status == StatusCreated {
		fmt.Fprintf(m.opts.Out, "  Created %s/\n", dest)
	}
	return status, nil
}

func (m *Materializer) write(dest string, data []byte) (Status, error) {
	existing, err := m.read(dest)
	if err != nil {
		return "", err
	}

	status := StatusCreated
	if existing != nil {
		if bytes.Equal(existing, data) {
			fmt.Fprintf(m.opts.Out, "  Skipped %s (identical)\n", dest)
			return StatusIdentical, nil
		}
		if !m.opts.Force {
			fmt.Fprintf(m.opts.Out, "  Conflict %s\n", dest)
			if m.opts.Verbose {
				fmt.Fprint(m.opts.Out, Diff(string(existing), string(data)))
			}
			return StatusConflict, nil
		}
		status = StatusOverwritten
	}

	if err := util.WriteFile(m.fs, dest, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if status == StatusOverwritten {
		fmt.Fprintf(m.opts.Out, "  Overwrote %s\n", dest)
	} else {
		fmt.Fprintf(m.opts.Out, "  Created %s\n", dest)
	}
	return status, nil
}

// read returns the current content of dest, or nil when it does not exist.
func (m *Materializer) read(dest string) ([]byte, error) {
	fi, err := m.fs.Stat(dest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s exists and is a directory", dest)
	}
	data, err := util.ReadFile(m.fs, dest)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing %s: %w", dest, err)
	}
	return data, nil
}
