package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mediaforge/internal/deps"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiGray  = "\x1b[90m"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check required external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Default(cfg))

			colorize := false
			if out, ok := cmd.OutOrStdout().(*os.File); ok {
				colorize = isatty.IsTerminal(out.Fd())
			}
			for _, status := range statuses {
				fmt.Fprintln(cmd.OutOrStdout(), renderDepLine(status, colorize))
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

func renderDepLine(status deps.Status, colorize bool) string {
	mark := "ok"
	color := ansiGreen
	if !status.Available {
		if status.Optional {
			mark = "missing (optional)"
			color = ansiGray
		} else {
			mark = "missing"
			color = ansiRed
		}
	}
	if colorize {
		mark = color + mark + ansiReset
	}
	line := fmt.Sprintf("%-20s [%s]", status.Name, mark)
	if status.Detail != "" {
		line += " " + status.Detail
	}
	return line
}
