package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/peerstat/peerstat/internal/document"
)

var loadCmd = &cobra.Command{
	Use:   "load <file|->",
	Short: "Load a saved progress document into the archive",
	Long: "Load reads a progress document of either format, converts older\n" +
		"documents to the current one and archives it as the learner's newest revision.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession(ctx, true, func(s *session) error {
			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			doc, err := s.engine.Load(ctx, r)
			if err != nil {
				return err
			}
			rev, err := s.save(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if doc.Metadata.ConvertedFrom == document.ConvertedFromLegacy {
				fmt.Fprintln(out, "Converted legacy document to format", document.CurrentVersion)
			}
			fmt.Fprintf(out, "Loaded %d answers for %s (revision %d)\n",
				len(doc.PersonalData.Answers), doc.Metadata.Username, rev.Revision)
			return nil
		})
	},
}
