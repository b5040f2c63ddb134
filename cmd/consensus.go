package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peerstat/peerstat/internal/curriculum"
	"github.com/peerstat/peerstat/internal/ledger"
	"github.com/peerstat/peerstat/internal/ui/components"
	"github.com/peerstat/peerstat/internal/ui/theme"
)

var consensusCmd = &cobra.Command{
	Use:   "consensus <question-id>",
	Short: "Show the class answer distribution for a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		qid := args[0]
		width, _ := cmd.Flags().GetInt("width")
		return withSession(ctx, false, func(s *session) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, theme.Title.Render(qid))

			q, known := s.engine.Curriculum().Question(qid)
			if known && q.Type == curriculum.TypeFreeResponse {
				return printResponses(cmd, s, qid)
			}

			d, err := s.engine.AnswerDistribution(qid)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, components.DistributionView{Dist: d, Width: width}.View())
			return nil
		})
	},
}

func printResponses(cmd *cobra.Command, s *session, qid string) error {
	out := cmd.OutOrStdout()
	responses, err := s.engine.Responses(qid)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		fmt.Fprintln(out, theme.Hint.Render("No responses yet"))
		return nil
	}
	for _, r := range responses {
		name := r.Username
		if r.IsCurrent {
			name = theme.Current.Render(name + " (you)")
		}
		var tally string
		for _, t := range ledger.AllVoteTypes() {
			tally += fmt.Sprintf(" %s%d", t.Icon(), s.engine.VoteCount(qid, r.Username, t))
		}
		body := theme.Body.Render(r.Value)
		if r.Reasoning != "" {
			body += "\n" + theme.Hint.Render(r.Reasoning)
		}
		fmt.Fprintln(out, theme.Card.Render(name+tally+"\n"+body))
	}
	return nil
}

func init() {
	consensusCmd.Flags().Int("width", 60, "Rendered width of distribution bars")
}
