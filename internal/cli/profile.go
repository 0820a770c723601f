package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Query the profile proxy endpoints",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "github <username>",
		Short: "Show a GitHub contribution calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ContributionCalendar
			if err := client.Get("/api/v1/github/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "leetcode <username>",
		Short: "Show LeetCode solve counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SolvedProblems
			if err := client.Get("/api/v1/leetcode/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "blog",
		Short: "Show the latest blog post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BlogPost
			if err := client.Get("/api/v1/latest-blog-post", &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
