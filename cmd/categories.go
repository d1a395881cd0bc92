package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/placesearch/internal/retrieval"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their curated entry counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "categories")
		if err != nil {
			return err
		}
		defer env.Close()

		summaries, err := env.Engine.Overview(ctx)
		if err != nil {
			return eris.Wrap(err, "categories")
		}

		formatCategories(cmd.OutOrStdout(), summaries)
		return nil
	},
}

func formatCategories(out io.Writer, summaries []retrieval.CategorySummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTITLE\tENTRIES\tAUGMENT\tZONES")
	_, _ = fmt.Fprintln(w, "----\t-----\t-------\t-------\t-----")

	for _, s := range summaries {
		zones := make([]string, 0, len(s.Zones))
		for z, n := range s.Zones {
			zones = append(zones, fmt.Sprintf("%s:%d", z, n))
		}
		sort.Strings(zones)

		augment := "no"
		if s.Augment {
			augment = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.Name, s.Title, s.Entries, augment, strings.Join(zones, " "))
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
