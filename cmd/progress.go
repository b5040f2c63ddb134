package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peerstat/peerstat/internal/curriculum"
	"github.com/peerstat/peerstat/internal/ui/components"
	"github.com/peerstat/peerstat/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress [unit]",
	Short: "Show progress through each unit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		width, _ := cmd.Flags().GetInt("width")
		return withSession(ctx, false, func(s *session) error {
			out := cmd.OutOrStdout()
			org := s.engine.Curriculum()
			if len(org) == 0 {
				fmt.Fprintln(out, theme.Hint.Render("No catalogue loaded; pass --questions"))
				return nil
			}

			units := org.UnitNumbers()
			if len(args) == 1 {
				if _, ok := org[args[0]]; !ok {
					return fmt.Errorf("unknown unit %q", args[0])
				}
				units = args[:1]
			}

			fmt.Fprintln(out, theme.Title.Render("Progress: "+s.engine.Status().Username))
			for _, num := range units {
				p, _ := s.engine.UnitProgress(num)
				u := org[num]
				fmt.Fprintln(out, components.UnitProgressBar(u.Info.DisplayName, p, width).View())
				if len(args) == 1 {
					printLessons(cmd, s, u)
				}
			}
			return nil
		})
	},
}

func printLessons(cmd *cobra.Command, s *session, u *curriculum.Unit) {
	for _, lesson := range u.Info.LessonNumbers {
		mark := "  "
		if s.engine.LessonCompleted(u.Info.UnitNumber, lesson) {
			mark = "✓ "
		}
		fmt.Fprintf(cmd.OutOrStdout(), "    %s%s (%d questions)\n",
			mark, curriculum.LessonDisplayName(lesson), len(u.Lessons[lesson]))
	}
}

func init() {
	progressCmd.Flags().Int("width", 60, "Rendered width of progress bars")
}
