package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <username>",
	Short: "Start a new progress document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession(ctx, true, func(s *session) error {
			doc, err := s.engine.CreateLedger(args[0])
			if err != nil {
				return err
			}
			rev, err := s.save(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created progress document for %s (revision %d)\n",
				doc.Metadata.Username, rev.Revision)
			return nil
		})
	},
}
