package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	ghub "github.com/stahnma/gh-trends/internal/github"
	"github.com/stahnma/gh-trends/internal/trends"
)

func (a *App) newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [flags]",
		Short: "Generate date pages, repository pages and the trends summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("workers") {
				a.Config.Workers, _ = f.GetInt("workers")
			}
			if f.Changed("enrich") {
				a.Config.Enrich, _ = f.GetBool("enrich")
			}
			if err := a.Config.Validate(); err != nil {
				return err
			}

			res, err := a.Generate(cmd.Context())
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), a.Config.DataDir, res)
			return nil
		},
	}
	cmd.Flags().IntP("workers", "w", a.Config.Workers, "Number of dates processed in parallel")
	cmd.Flags().Bool("enrich", a.Config.Enrich, "Fill missing repository fields from the GitHub API")
	return cmd
}

// Generate runs a full regeneration with the current configuration.
func (a *App) Generate(ctx context.Context) (*trends.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var enricher trends.Enricher
	if a.Config.Enrich {
		a.ensureClient()
		enricher = ghub.NewEnricher(a.GHClient, a.Cache, a.Config.NoCache)
	}

	gen := trends.New(trends.Options{
		DataDir:     a.Config.DataDir,
		InputDir:    a.Config.InputDir,
		SummaryPath: a.Config.SummaryPath,
		Workers:     a.Config.Workers,
		Enricher:    enricher,
		Logger:      a.logger(),
	})
	return gen.Run(ctx)
}

func printResult(w io.Writer, dataDir string, res *trends.Result) {
	if len(res.Dates) == 0 {
		color.New(color.FgYellow).Fprintf(w, "No analysis data found in %s\n", dataDir)
		return
	}
	color.New(color.FgGreen).Fprintf(w, "Generated %d pages from %d reports across %d dates\n",
		res.Pages, res.Reports, len(res.Dates))
	if len(res.Skipped) > 0 {
		color.New(color.FgRed).Fprintf(w, "Skipped %d dates: %s\n", len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
	if res.Summary != nil {
		fmt.Fprintf(w, "Summary written to %s (latest %s)\n", res.SummaryPath, res.Summary.LatestDate)
	}
}
