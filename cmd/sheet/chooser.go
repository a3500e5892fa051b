package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// promptChooser asks for picks on a terminal. Entering q or closing the
// input cancels the advancement.
type promptChooser struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptChooser(in io.Reader, out io.Writer) *promptChooser {
	return &promptChooser{in: bufio.NewReader(in), out: out}
}

func (p *promptChooser) Choose(ctx context.Context, plan *entities.LevelUpPlan) (engine.Selections, error) {
	sel := engine.Selections{}
	for _, c := range plan.Choices {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled("advancement interrupted")
		}
		picks, err := p.ask(plan.Level, c)
		if err != nil {
			return nil, err
		}
		sel[c.Choice.ID] = picks
	}
	return sel, nil
}

func (p *promptChooser) ask(level int, c *entities.PlannedChoice) ([]string, error) {
	need := c.Choice.Required()
	if len(c.Options) < need {
		need = len(c.Options)
	}

	title := c.Choice.Title
	if title == "" {
		title = c.Choice.ID
	}
	fmt.Fprintf(p.out, "\nLevel %d: %s (choose %d)\n", level, title, need)
	if c.Choice.Help != "" {
		fmt.Fprintf(p.out, "  %s\n", c.Choice.Help)
	}
	for i, opt := range c.Options {
		fmt.Fprintf(p.out, "  %2d. %s\n", i+1, optionName(opt))
	}

	for {
		fmt.Fprintf(p.out, "> ")
		line, err := p.in.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return nil, errors.Canceled("no selection made")
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "q") {
			return nil, errors.Canceled("advancement canceled")
		}

		picks, perr := parsePicks(line, c.Options, need)
		if perr == nil {
			return picks, nil
		}
		fmt.Fprintf(p.out, "  %s\n", errors.GetMessage(perr))
		if err == io.EOF {
			return nil, errors.Canceled("no selection made")
		}
	}
}

// parsePicks reads a comma or space separated list of option numbers or ids
func parsePicks(line string, options []*entities.Option, need int) ([]string, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != need {
		return nil, errors.InvalidArgumentf("pick exactly %d", need)
	}

	seen := map[string]bool{}
	picks := make([]string, 0, need)
	for _, f := range fields {
		id := ""
		if n, err := strconv.Atoi(f); err == nil {
			if n < 1 || n > len(options) {
				return nil, errors.InvalidArgumentf("%d is not a listed option", n)
			}
			id = options[n-1].ID
		} else {
			for _, opt := range options {
				if opt.ID == f {
					id = opt.ID
				}
			}
			if id == "" {
				return nil, errors.InvalidArgumentf("%s is not a listed option", f)
			}
		}
		if seen[id] {
			return nil, errors.InvalidArgumentf("%s picked twice", id)
		}
		seen[id] = true
		picks = append(picks, id)
	}
	return picks, nil
}

// parseSelections reads --pick values of the form choice=a,b
func parseSelections(values []string) (engine.Selections, error) {
	sel := engine.Selections{}
	for _, v := range values {
		choice, picks, ok := strings.Cut(v, "=")
		choice = strings.TrimSpace(choice)
		if !ok || choice == "" {
			return nil, errors.InvalidArgumentf("pick %q must look like choice=option[,option]", v)
		}
		for _, p := range strings.Split(picks, ",") {
			if p = strings.TrimSpace(p); p != "" {
				sel[choice] = append(sel[choice], p)
			}
		}
	}
	return sel, nil
}
