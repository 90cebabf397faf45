package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-trends/internal/format"
	"github.com/stahnma/gh-trends/internal/site"
	"github.com/stahnma/gh-trends/internal/trends"
)

var latestTemplate = template.Must(template.New("latest").Funcs(site.FuncMap()).Parse(
	`{{with .Date}}{{dateFormat .}} のGitHubトレンド{{else}}No trends yet{{end}}
{{range limit .Trends .Limit}}{{printf "%3d" .Rank}}. {{or .Name .Slug}}  ★ {{numberFormat .Stars}}{{with .Language}}  [{{.}}]{{end}}
{{with .Summary}}     {{.}}
{{end}}{{end}}`))

func (a *App) newLatestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latest [flags]",
		Short: "Show the most recent trends from the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("number")
			asJSON, _ := cmd.Flags().GetBool("json")

			s, err := trends.ReadSummary(a.Config.SummaryPath)
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no trends summary at %s, run generate first", a.Config.SummaryPath)
			}
			if err != nil {
				return fmt.Errorf("reading summary: %w", err)
			}

			data := site.Computed(&s)
			if limit >= 0 {
				data.LatestTrends = site.Limit(data.LatestTrends, limit)
			}
			if asJSON {
				return format.WriteJSON(cmd.OutOrStdout(), data)
			}
			return latestTemplate.Execute(cmd.OutOrStdout(), map[string]any{
				"Date":   data.LatestDate,
				"Trends": data.LatestTrends,
				"Limit":  len(data.LatestTrends),
			})
		},
	}
	cmd.Flags().IntP("number", "n", 10, "Number of repositories to show, negative for all")
	cmd.Flags().Bool("json", false, "Print the computed site data as JSON")
	return cmd
}
