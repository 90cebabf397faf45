package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/stahnma/gh-trends/internal/history"
	"github.com/stahnma/gh-trends/internal/trends"
)

func (a *App) newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [flags]",
		Short: "Index every analysis date into the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if db, _ := cmd.Flags().GetString("db"); cmd.Flags().Changed("db") {
				a.Config.HistoryDB = db
			}
			return a.IndexHistory(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("db", a.Config.HistoryDB, "Path of the sqlite history database")
	return cmd
}

// IndexHistory records every readable date in the history database and
// prints the per-date totals.
func (a *App) IndexHistory(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := history.Open(a.Config.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	loader := trends.NewLoader(a.Config.DataDir, nil, a.logger())
	dates, err := loader.ListDates()
	if err != nil {
		return err
	}
	for _, date := range dates {
		records, err := loader.LoadDate(ctx, date)
		if err != nil {
			a.logger().Warn("skipping analysis directory", "dir", loader.DateDir(date), "err", err)
			continue
		}
		if err := store.Record(ctx, date, records); err != nil {
			return err
		}
	}

	totals, err := store.Totals(ctx)
	if err != nil {
		return err
	}
	repos, err := store.Repositories(ctx)
	if err != nil {
		return err
	}
	for _, t := range totals {
		fmt.Fprintf(w, "%s  %s\n", t.Date, humanize.Comma(int64(t.Total)))
	}
	fmt.Fprintf(w, "%s dates, %s unique repositories\n",
		humanize.Comma(int64(len(totals))), humanize.Comma(int64(len(repos))))
	return nil
}
