package install

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ngerrors "github.com/go-scaffold/ngapp/pkg/errors"
)

type call struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	fail  map[string]error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args []string, stdout, _ io.Writer) error {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	io.WriteString(stdout, name+" output\n")
	return f.fail[name]
}

func TestInstall(t *testing.T) {
	runner := &fakeRunner{}
	var out bytes.Buffer
	in := &Installer{Runner: runner, Tools: DefaultTools, Out: &out}

	failures := in.Install(context.Background(), "/work/acme")
	assert.Empty(t, failures)
	assert.Equal(t, []call{
		{dir: "/work/acme", name: "bower", args: []string{"install"}},
		{dir: "/work/acme", name: "npm", args: []string{"install"}},
	}, runner.calls)
	assert.Equal(t, "  Running bower install...\nbower output\n  Running npm install...\nnpm output\n", out.String())
}

func TestInstall_FailureIsNotFatal(t *testing.T) {
	notFound := errors.New(`exec: "bower": executable file not found in $PATH`)
	runner := &fakeRunner{fail: map[string]error{"bower": notFound}}
	var out bytes.Buffer
	in := &Installer{Runner: runner, Tools: DefaultTools, Out: &out}

	failures := in.Install(context.Background(), "dir")
	require.Len(t, failures, 1)
	assert.Len(t, runner.calls, 2, "npm still runs")

	var ierr *ngerrors.InstallError
	require.ErrorAs(t, failures[0], &ierr)
	assert.Equal(t, "bower", ierr.Tool)
	assert.ErrorIs(t, failures[0], notFound)
	assert.Equal(t, ngerrors.KindInstall, ngerrors.KindOf(failures[0]))
	assert.Contains(t, out.String(), "  Warning: bower install failed\n")
}

func TestInstall_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &fakeRunner{}

	failures := (&Installer{Runner: runner, Tools: DefaultTools}).Install(ctx, "dir")
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], context.Canceled)
	assert.Empty(t, runner.calls)
}

func TestSkipMessage(t *testing.T) {
	assert.Equal(t,
		"\nI'm all done. Just run bower install && npm install to install the required dependencies.\n",
		SkipMessage(DefaultTools))
}
