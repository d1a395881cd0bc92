package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/placesearch/internal/model"
	"github.com/sells-group/placesearch/internal/present"
	"github.com/sells-group/placesearch/internal/retrieval"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search curated places",
	Long:  "Runs one query against the curated store and prints the ranked places, plus a live provider answer when the query asks for fresh details.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		zone, _ := cmd.Flags().GetString("zone")
		category, _ := cmd.Flags().GetString("category")
		user, _ := cmd.Flags().GetString("user")
		asJSON, _ := cmd.Flags().GetBool("json")

		resp, err := env.Engine.Search(ctx, retrieval.Request{
			Query:    strings.Join(args, " "),
			Zone:     zone,
			Category: category,
			UserID:   user,
		})
		if err != nil {
			return eris.Wrap(err, "search")
		}

		return writeResponse(cmd.OutOrStdout(), resp, asJSON)
	},
}

func writeResponse(out io.Writer, resp *model.Response, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err := fmt.Fprintln(out, present.Render(resp))
	return err
}

func init() {
	searchCmd.Flags().String("zone", "", "area filter, e.g. canggu or Berawa")
	searchCmd.Flags().String("category", retrieval.DefaultCategory, "place category")
	searchCmd.Flags().String("user", "", "user ID for the daily escalation quota")
	searchCmd.Flags().Bool("json", false, "print the raw response as JSON")
	rootCmd.AddCommand(searchCmd)
}
