// Package cmd implements the ngapp CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (init, plan).
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-scaffold/ngapp/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(s *Session, args []string) error
}

// Session carries the streams and global flags of one invocation.
type Session struct {
	Context context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	// AnswersPath is the --answers file, empty when not given.
	AnswersPath string
	// Verbose is set by --verbose.
	Verbose bool
}

var rootCmd = &Command{
	Name:  "ngapp",
	Short: "ngapp - AngularJS project scaffolder",
	Long: `ngapp scaffolds a ready-to-build AngularJS project: Grunt build,
Bower and npm manifests, and a starter app in Jade or HTML,
CoffeeScript or JavaScript, Sass or CSS.

Use "ngapp <command> --help" for more information about a command.`,
	Usage: "ngapp <command> [flags]",
}

// Commands registered with the CLI, in registration order.
var (
	commands    = make(map[string]*Command)
	subCommands []*Command
)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	subCommands = append(subCommands, cmd)
}

// Execute runs the CLI with the process arguments and standard streams.
func Execute(ctx context.Context) error {
	return Run(os.Args[1:], &Session{
		Context: ctx,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
}

// Run parses global flags from args and dispatches to a command.
func Run(args []string, s *Session) error {
	if s.Context == nil {
		s.Context = context.Background()
	}

	if len(args) == 0 {
		printHelp(s.Stdout)
		return nil
	}

	// Handle global flags and extract --answers
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(s.Stdout)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(s.Stdout, "ngapp version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--verbose":
			s.Verbose = true
		case "--answers":
			if i+1 >= len(args) {
				return &errors.UsageError{Msg: "--answers requires a file path", Usage: rootCmd.Usage}
			}
			s.AnswersPath = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "--answers=") {
				s.AnswersPath = strings.TrimPrefix(arg, "--answers=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(s.Stdout)
		return nil
	}

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(s.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(s.Stderr)
		return &errors.UsageError{Msg: fmt.Sprintf("unknown command: %s", cmdName)}
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(s.Stdout, cmd)
			return nil
		}
	}

	return cmd.Run(s, cmdArgs)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, rootCmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, sub := range subCommands {
		fmt.Fprintf(w, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -h, --help           Show help for a command")
	fmt.Fprintln(w, "  -v, --version        Show version information")
	fmt.Fprintln(w, "  --answers FILE       Read answers from FILE instead of prompting")
	fmt.Fprintln(w, "  --verbose            Show diffs of conflicting files and error causes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NGAPP_APP_NAME       Application name")
	fmt.Fprintln(w, "  NGAPP_MARKUP         template (Jade) or plain (HTML)")
	fmt.Fprintln(w, "  NGAPP_SCRIPTING      compiled (CoffeeScript) or plain (JavaScript)")
	fmt.Fprintln(w, "  NGAPP_STYLING        compiled (Sass) or plain (CSS)")
	fmt.Fprintln(w, "  NGAPP_SKIP_INSTALL   Skip bower and npm install")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  ngapp init myapp          Scaffold into ./myapp")
	fmt.Fprintln(w, "  ngapp init --yes          Scaffold here with default answers")
	fmt.Fprintln(w, "  ngapp plan --format json  Show what init would write")
}

func printCommandHelp(w io.Writer, cmd *Command) {
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
}

// banner greets the user before the questions start.
func banner(w io.Writer) {
	fmt.Fprintf(w, `
     _____________________
    |                     |
    |   ngapp  %-10s |
    |   AngularJS + Grunt |
    |_____________________|

Out of the box I include AngularJS, a Gruntfile, Bower and npm manifests.
`, Version)
}
