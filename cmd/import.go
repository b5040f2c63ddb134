package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <class-export.json|->",
	Short: "Import class data from a class export",
	Long: "Import replaces the peer snapshot with the learners in a class export\n" +
		"({\"users\": {...}}). The current learner's own entry is ignored.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		raw, err := readFile(args[0])
		if err != nil {
			return err
		}
		return withSession(ctx, false, func(s *session) error {
			if !s.engine.ImportPeerData(raw) {
				return errors.New("invalid class data file: expected a \"users\" object")
			}
			if _, err := s.save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported class data: %d learners\n", len(s.engine.Learners()))
			return nil
		})
	},
}
