package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived revisions of the progress document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")
		return withSession(ctx, true, func(s *session) error {
			user, err := s.resolveUser(ctx)
			if err != nil {
				return err
			}
			revs, err := s.st.Documents().History(ctx, user, limit)
			if err != nil {
				return err
			}
			for _, r := range revs {
				fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s  %s\n",
					r.Revision, r.SavedAt.Local().Format(time.DateTime), r.ID)
			}
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().Int("limit", 10, "Maximum revisions to list (0 for all)")
}
