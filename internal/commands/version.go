package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current version",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			sha := a.GitSHA
			if sha == "" {
				sha = "unknown"
			}
			fmt.Fprintf(w, "gh-trends %s (%s)\n", sha, runtime.Version())
			if a.GitDirty != "" {
				fmt.Fprintf(w, "Git Dirty: true\n")
			}
			return nil
		},
	}
}
