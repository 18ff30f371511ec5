package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/ats"
)

var applyFixesCmd = &cobra.Command{
	Use:   "apply-fixes <resume>",
	Short: "Rewrite a resume using its ATS feedback",
	Long:  "Scores the resume, sends the resulting line feedback back to the backend and prints the rewritten resume.",
	Args:  cobra.ExactArgs(1),
	RunE:  runApplyFixes,
}

var applyFixesShowScore bool

func init() {
	applyFixesCmd.Flags().BoolVar(&applyFixesShowScore, "show-score", false, "Also print the ATS score the fixes are based on")
	rootCmd.AddCommand(applyFixesCmd)
}

func runApplyFixes(cmd *cobra.Command, args []string) error {
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
	if applyFixesShowScore {
		a.printer.PrintATSResult(result)
	}

	improved, err := a.session.ApplyFixes(cmd.Context())
	if err != nil {
		return failure(err, ats.ApplyFixesFailedMessage)
	}

	a.printer.PrintImprovedResume(improved)
	return nil
}
