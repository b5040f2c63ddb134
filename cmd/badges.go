package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peerstat/peerstat/internal/ui/components"
)

var badgesCmd = &cobra.Command{
	Use:   "badges [username]",
	Short: "Show behavioral badges for the class or one learner",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession(ctx, false, func(s *session) error {
			names := s.engine.Learners()
			if len(args) == 1 {
				names = args
			}
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", name, components.BadgeList(s.engine.BadgesFor(name)))
			}
			return nil
		})
	},
}
