package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the progress document to a file",
	Long: "Export writes the learner's document to <username>_progress.json, or to\n" +
		"--out (\"-\" for stdout). With --class it writes a class export instead.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		outPath, _ := cmd.Flags().GetString("out")
		class, _ := cmd.Flags().GetBool("class")
		return withSession(ctx, false, func(s *session) error {
			if outPath == "" {
				suffix := "_progress.json"
				if class {
					suffix = "_class.json"
				}
				outPath = s.engine.Status().Username + suffix
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if class {
				pd, err := s.engine.ClassExport()
				if err != nil {
					return err
				}
				b, err := json.MarshalIndent(pd, "", "  ")
				if err != nil {
					return err
				}
				if _, err := w.Write(b); err != nil {
					return err
				}
			} else if err := s.engine.Export(w); err != nil {
				return err
			}

			if outPath != "-" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Wrote", outPath)
			}
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output path (\"-\" for stdout)")
	exportCmd.Flags().Bool("class", false, "Write a class export including every learner")
}
