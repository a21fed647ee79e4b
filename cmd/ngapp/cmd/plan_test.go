package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/go-scaffold/ngapp/pkg/errors"
	"github.com/go-scaffold/ngapp/pkg/scaffold"
)

func TestRunPlan_Text(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "acme")
	s, out, _ := newSession("")

	require.NoError(t, runPlan(s, []string{dir}))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 27)
	assert.Equal(t, "  0  mkdir .dev", lines[0])
	assert.Equal(t, " 26  copy app/favicon.ico <- common/favicon.ico", lines[26])
	assert.NoDirExists(t, dir, "plan must not touch the disk")
}

func TestRunPlan_JSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "acme")
	s, out, _ := newSession("")

	require.NoError(t, runPlan(s, []string{dir, "acme-app", "--format", "json"}))

	var doc planDocument
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "acme-app", doc.Config.AppName)
	assert.Equal(t, scaffold.Extensions{Markup: "jade", Script: "coffee", Style: "scss"}, doc.Extensions)
	require.Len(t, doc.Operations, 27)
	assert.Equal(t, planStep{Kind: scaffold.OpMkdir, Destination: ".dev"}, doc.Operations[0])
}

func TestRunPlan_YAMLWithEnv(t *testing.T) {
	t.Setenv("NGAPP_SCRIPTING", "plain")
	dir := filepath.Join(t.TempDir(), "acme")
	s, out, _ := newSession("")

	require.NoError(t, runPlan(s, []string{dir, "--format=yaml"}))

	var doc planDocument
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, scaffold.ScriptPlain, doc.Config.Preprocessors.Scripting)

	var dests []string
	for _, op := range doc.Operations {
		dests = append(dests, op.Destination)
	}
	assert.Contains(t, dests, "app/scripts/app.js")
	assert.NotContains(t, dests, "app/scripts/app.coffee")
}

func TestRunPlan_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"unknown format", []string{"--format", "xml"}, 2},
		{"missing format", []string{"--format"}, 2},
		{"unknown flag", []string{"--yes"}, 2},
		{"too many", []string{"a", "b", "c"}, 2},
		{"bad app name", []string{"dir", "1app"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newSession("")
			err := runPlan(s, tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.ExitCode(err))
		})
	}
}
