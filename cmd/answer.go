package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peerstat/peerstat/internal/ledger"
)

var answerCmd = &cobra.Command{
	Use:   "answer <question-id> <value>",
	Short: "Submit an answer",
	Long: "Submit records an answer. A question may be answered up to 3 times;\n" +
		"a retry is allowed only when the previous attempt carried a reason.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		reason, _ := cmd.Flags().GetString("reason")
		return withSession(ctx, false, func(s *session) error {
			if err := s.engine.SubmitAnswer(args[0], args[1], reason); err != nil {
				return err
			}
			if _, err := s.save(ctx); err != nil {
				return err
			}
			st, err := s.engine.Question(args[0])
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Recorded %s = %s (attempt %d of %d)", args[0], args[1], st.Attempts, ledger.MaxAttempts)
			if !st.CanRetry {
				msg += "; no retries left"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		})
	},
}

var voteCmd = &cobra.Command{
	Use:   "vote <question-id> <username> <helpful|unclear|contradicts>",
	Short: "Vote on a peer's response",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		t := ledger.VoteType(strings.ToLower(args[2]))
		return withSession(ctx, false, func(s *session) error {
			if err := s.engine.Vote(args[0], args[1], t); err != nil {
				return err
			}
			if _, err := s.save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d %s vote(s)\n",
				t.Icon(), args[1], s.engine.VoteCount(args[0], args[1], t), t)
			return nil
		})
	},
}

func init() {
	answerCmd.Flags().StringP("reason", "r", "", "Reasoning behind the answer (enables a retry)")
}
