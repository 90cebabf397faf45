package commands

import (
	"github.com/spf13/cobra"
	"github.com/stahnma/gh-trends/internal/site"
	"gopkg.in/yaml.v3"
)

func (a *App) newSiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "site",
		Short: "Print the static-site build configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(site.Default(a.Config.PathPrefix)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
