package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/ats"
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume>",
	Short: "Score a resume for ATS compatibility",
	Long:  "Uploads the resume (or reads a saved profile) and prints its ATS score with suggestions and line-by-line feedback.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.loadResume(cmd.Context(), args[0]); err != nil {
		return err
	}

	result, err := a.session.Score(cmd.Context())
	if err != nil {
		return failure(err, ats.ScoreFailedMessage)
	}

	a.printer.PrintATSResult(result)
	return nil
}
