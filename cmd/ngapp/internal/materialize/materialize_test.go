package materialize

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scaffold/ngapp/cmd/ngapp/internal/templates"
	ngerrors "github.com/go-scaffold/ngapp/pkg/errors"
	"github.com/go-scaffold/ngapp/pkg/scaffold"
)

func defaultPlan(t *testing.T) []scaffold.FileOperation {
	t.Helper()
	ops, err := scaffold.BuildPlan(scaffold.DefaultProjectConfig("acme-app"))
	require.NoError(t, err)
	return ops
}

func TestApply_FreshTree(t *testing.T) {
	fsys := memfs.New()
	var out bytes.Buffer
	ops := defaultPlan(t)

	res, err := New(fsys, templates.NewDefaultRenderer(), Options{Out: &out}).Apply(ops)
	require.NoError(t, err)
	require.Len(t, res.Steps, len(ops))
	assert.Equal(t, len(ops), res.Count(StatusCreated))
	assert.Empty(t, res.Conflicts())

	for _, op := range ops {
		fi, err := fsys.Stat(op.Destination)
		require.NoError(t, err, op.Destination)
		assert.Equal(t, op.Kind == scaffold.OpMkdir, fi.IsDir(), op.Destination)
	}

	pkg, err := util.ReadFile(fsys, "package.json")
	require.NoError(t, err)
	assert.Contains(t, string(pkg), `"acme-app"`)

	favicon, err := util.ReadFile(fsys, "app/favicon.ico")
	require.NoError(t, err)
	want, err := templates.FS.ReadFile("common/favicon.ico")
	require.NoError(t, err)
	assert.Equal(t, want, favicon)

	assert.Contains(t, out.String(), "  Created app/scripts/app.coffee\n")
	assert.Contains(t, out.String(), "  Created .dev/\n")
}

func TestApply_Rerun(t *testing.T) {
	fsys := memfs.New()
	ops := defaultPlan(t)
	m := New(fsys, templates.NewDefaultRenderer(), Options{})

	_, err := m.Apply(ops)
	require.NoError(t, err)

	res, err := m.Apply(ops)
	require.NoError(t, err)
	assert.Zero(t, res.Count(StatusCreated))
	assert.Equal(t, len(scaffold.PlanDirectories(ops)), res.Count(StatusExists))
	assert.Equal(t, len(ops)-len(scaffold.PlanDirectories(ops)), res.Count(StatusIdentical))
}

func TestApply_Conflict(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantStatus Status
		wantBody   string
		wantOut    []string
	}{
		{
			name:       "kept",
			wantStatus: StatusConflict,
			wantBody:   "local notes\n",
			wantOut:    []string{"  Conflict README.md\n"},
		},
		{
			name:       "verbose diff",
			opts:       Options{Verbose: true},
			wantStatus: StatusConflict,
			wantBody:   "local notes\n",
			wantOut:    []string{"  Conflict README.md\n", "  - local notes\n", "  + # acme-app"},
		},
		{
			name:       "forced",
			opts:       Options{Force: true},
			wantStatus: StatusOverwritten,
			wantOut:    []string{"  Overwrote README.md\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := memfs.New()
			require.NoError(t, util.WriteFile(fsys, "README.md", []byte("local notes\n"), 0o644))

			var out bytes.Buffer
			tt.opts.Out = &out
			res, err := New(fsys, templates.NewDefaultRenderer(), tt.opts).Apply(defaultPlan(t))
			require.NoError(t, err)

			var got Status
			for _, s := range res.Steps {
				if s.Op.Destination == "README.md" {
					got = s.Status
				}
			}
			assert.Equal(t, tt.wantStatus, got)

			body, err := util.ReadFile(fsys, "README.md")
			require.NoError(t, err)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, string(body))
			} else {
				assert.NotEqual(t, "local notes\n", string(body))
			}
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestApply_FailureStopsAtStep(t *testing.T) {
	fsys := memfs.New()
	// A file where the src directory should go.
	require.NoError(t, util.WriteFile(fsys, "app", []byte("x"), 0o644))

	ops := defaultPlan(t)
	res, err := New(fsys, templates.NewDefaultRenderer(), Options{}).Apply(ops)
	require.Error(t, err)

	var merr *ngerrors.MaterializationError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 2, merr.Index)
	assert.Equal(t, "mkdir", merr.Op)
	assert.Equal(t, "app", merr.Path)
	assert.Equal(t, ngerrors.KindMaterialization, ngerrors.KindOf(err))

	require.Len(t, res.Steps, 2)
	_, err = fsys.Stat("test")
	assert.Error(t, err, "steps after the failure must not run")
}

type failingSource struct{ err error }

func (s failingSource) ReadFile(string) ([]byte, error)    { return []byte("raw"), nil }
func (s failingSource) Render(string, any) ([]byte, error) { return nil, s.err }

func TestApply_RenderError(t *testing.T) {
	boom := errors.New("boom")
	ops := defaultPlan(t)

	_, err := New(memfs.New(), failingSource{err: boom}, Options{}).Apply(ops)

	var merr *ngerrors.MaterializationError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "render", merr.Op)
	assert.Equal(t, "config/appConfig.json", merr.Path)
	assert.Equal(t, scaffold.OpRender, ops[merr.Index].Kind)
	assert.ErrorIs(t, err, boom)
}

func TestApply_InvalidPlanWritesNothing(t *testing.T) {
	fsys := memfs.New()
	ops := []scaffold.FileOperation{
		{Kind: scaffold.OpMkdir, Destination: "app"},
		{Kind: scaffold.OpCopy, Source: "common/editorconfig", Destination: "app/x/.editorconfig"},
	}

	_, err := New(fsys, templates.NewDefaultRenderer(), Options{}).Apply(ops)
	require.Error(t, err)
	assert.True(t, ngerrors.IsConfiguration(err))

	_, err = fsys.Stat("app")
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     string
	}{
		{"identical", "a\nb\n", "a\nb\n", "    a\n    b\n"},
		{"changed line", "a\nb\nc\n", "a\nB\nc\n", "    a\n  - b\n  + B\n    c\n"},
		{"appended", "a\n", "a\n\nb\n", "    a\n  + \n  + b\n"},
		{"from empty", "", "x\n", "  + x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.old, tt.new))
		})
	}
}
