package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-scaffold/ngapp/pkg/errors"
	"github.com/go-scaffold/ngapp/pkg/scaffold"
)

const planUsage = "ngapp plan [directory] [appname] [--format text|json|yaml]"

func init() {
	RegisterCommand(&Command{
		Name:  "plan",
		Short: "Show the files init would write",
		Long: `Show the ordered list of operations init would perform, without
touching the disk.

Answers come from --answers, the directory's .ngapp.yaml, or the defaults,
with NGAPP_* environment overrides applied. No questions are asked.

Flags:
  --format FORMAT    Output format: text (default), json or yaml

Examples:
  ngapp plan
  ngapp plan myapp --format json
  ngapp --answers team.yaml plan --format yaml`,
		Usage: planUsage,
		Run:   runPlan,
	})
}

// planDocument is the json/yaml form of a plan. Render contexts are left
// out; they all equal Config plus the resolved extensions.
type planDocument struct {
	Config     scaffold.ProjectConfig `json:"config" yaml:"config"`
	Extensions scaffold.Extensions    `json:"extensions" yaml:"extensions"`
	Operations []planStep             `json:"operations" yaml:"operations"`
}

type planStep struct {
	Kind        scaffold.OpKind `json:"kind" yaml:"kind"`
	Source      string          `json:"source,omitempty" yaml:"source,omitempty"`
	Destination string          `json:"destination" yaml:"destination"`
}

func runPlan(s *Session, args []string) error {
	format := "text"
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--format":
			if i+1 >= len(args) {
				return &errors.UsageError{Msg: "--format requires a value", Usage: planUsage}
			}
			format = args[i+1]
			i++
		case strings.HasPrefix(arg, "--format="):
			format = strings.TrimPrefix(arg, "--format=")
		case strings.HasPrefix(arg, "-"):
			return &errors.UsageError{Msg: fmt.Sprintf("unknown flag %s", arg), Usage: planUsage}
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) > 2 {
		return &errors.UsageError{Msg: "too many arguments", Usage: planUsage}
	}
	switch format {
	case "text", "json", "yaml":
	default:
		return &errors.UsageError{Msg: fmt.Sprintf("unknown format %q", format), Usage: planUsage}
	}

	dir, appName := ".", ""
	if len(positional) > 0 {
		dir = positional[0]
	}
	if len(positional) > 1 {
		appName = positional[1]
	}

	p, err := openProject(dir)
	if err != nil {
		return err
	}
	// Informational lines go to stderr so json and yaml output stays parseable.
	quiet := *s
	quiet.Stdout = s.Stderr
	cfg, err := p.configure(&quiet, appName, false)
	if err != nil {
		return err
	}

	ops, err := scaffold.BuildPlan(cfg)
	if err != nil {
		return err
	}
	return writePlan(s.Stdout, format, cfg, ops)
}

func writePlan(w io.Writer, format string, cfg scaffold.ProjectConfig, ops []scaffold.FileOperation) error {
	if format == "text" {
		for i, op := range ops {
			fmt.Fprintf(w, "%3d  %s\n", i, op)
		}
		return nil
	}

	doc := planDocument{
		Config:     cfg,
		Extensions: scaffold.ResolveExtensions(cfg.Preprocessors),
		Operations: make([]planStep, len(ops)),
	}
	for i, op := range ops {
		doc.Operations[i] = planStep{Kind: op.Kind, Source: op.Source, Destination: op.Destination}
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
