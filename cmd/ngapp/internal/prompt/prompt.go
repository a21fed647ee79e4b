// Package prompt asks the interactive questions a project is scaffolded
// from. Answers are read line by line; an empty line or end of input
// accepts the default.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	ngerrors "github.com/go-scaffold/ngapp/pkg/errors"
)

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	eof bool
}

// New creates a prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Choice is one entry of a checkbox question.
type Choice struct {
	Value   string
	Name    string
	Checked bool
}

// Ask asks a free-text question.
func (p *Prompter) Ask(message, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "? %s (%s) ", message, def)
	} else {
		fmt.Fprintf(p.out, "? %s ", message)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Confirm asks a yes/no question, repeating it until the answer parses.
func (p *Prompter) Confirm(message string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "? %s (%s) ", message, hint)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintf(p.out, "  Please answer y or n.\n")
	}
}

// Checkbox asks for a subset of choices. The answer lists choice numbers or
// values separated by commas or spaces; "none" selects nothing and an empty
// answer keeps the pre-checked choices.
func (p *Prompter) Checkbox(message string, choices []Choice) (map[string]bool, error) {
	for {
		fmt.Fprintf(p.out, "? %s\n", message)
		for i, c := range choices {
			mark := " "
			if c.Checked {
				mark = "x"
			}
			fmt.Fprintf(p.out, "  %d) [%s] %s\n", i+1, mark, c.Name)
		}
		fmt.Fprintf(p.out, "  Select (numbers or names, \"none\" for nothing): ")

		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		selected, err := parseSelection(line, choices)
		if err == nil {
			return selected, nil
		}
		fmt.Fprintf(p.out, "  %v\n", err)
	}
}

func parseSelection(line string, choices []Choice) (map[string]bool, error) {
	selected := make(map[string]bool, len(choices))
	for _, c := range choices {
		selected[c.Value] = false
	}

	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) == 0 {
		for _, c := range choices {
			selected[c.Value] = c.Checked
		}
		return selected, nil
	}
	if len(fields) == 1 && strings.EqualFold(fields[0], "none") {
		return selected, nil
	}

	for _, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			if n < 1 || n > len(choices) {
				return nil, fmt.Errorf("no choice numbered %d", n)
			}
			selected[choices[n-1].Value] = true
			continue
		}
		found := false
		for _, c := range choices {
			if strings.EqualFold(f, c.Value) {
				selected[c.Value] = true
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown choice %q", f)
		}
	}
	return selected, nil
}

// readLine returns the next trimmed line. Once input is exhausted every
// call returns "" so remaining questions take their defaults.
func (p *Prompter) readLine() (string, error) {
	if p.eof {
		fmt.Fprintln(p.out)
		return "", nil
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", &ngerrors.ScaffoldError{Op: "prompt", Kind: ngerrors.KindPrompt, Err: err}
		}
		p.eof = true
		fmt.Fprintln(p.out)
	}
	return strings.TrimSpace(line), nil
}
