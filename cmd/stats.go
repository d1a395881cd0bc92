package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/placesearch/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily search totals and estimated provider spend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("stats"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = 1
		}
		since := time.Now().UTC().AddDate(0, 0, -(days - 1))

		stats, err := st.Stats(ctx, since)
		if err != nil {
			return eris.Wrap(err, "stats")
		}
		if len(stats) == 0 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No searches recorded.")
			return nil
		}

		formatStats(cmd.OutOrStdout(), stats, cfg.Pricing.Perplexity.PerQuery)
		return nil
	},
}

func formatStats(out io.Writer, stats []store.DailyStats, perQuery float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DAY\tCATEGORY\tSEARCHES\tESCALATED\tAUGMENTED\tRATE_LIMITED\tSPEND_USD")
	_, _ = fmt.Fprintln(w, "---\t--------\t--------\t---------\t---------\t------------\t---------")

	var total store.DailyStats
	for _, d := range stats {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.4f\n",
			d.Day, d.Category, d.Searches, d.Escalated, d.Augmented, d.RateLimited, d.Spend(perQuery))
		total.Searches += d.Searches
		total.Escalated += d.Escalated
		total.Augmented += d.Augmented
		total.RateLimited += d.RateLimited
	}
	_, _ = fmt.Fprintf(w, "TOTAL\t\t%d\t%d\t%d\t%d\t%.4f\n",
		total.Searches, total.Escalated, total.Augmented, total.RateLimited, total.Spend(perQuery))
	_ = w.Flush()
}

func init() {
	statsCmd.Flags().Int("days", 7, "number of days to report, today included")
	rootCmd.AddCommand(statsCmd)
}
