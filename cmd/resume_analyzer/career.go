package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/career"
)

var careerCmd = &cobra.Command{
	Use:   "career <resume>",
	Short: "Recommend a career path for a resume",
	Long:  "Sends the resume's skills to the backend and prints the recommended next role, the skills still missing and where to learn them. --done marks skills already learned so progress is shown.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCareer,
}

var (
	careerView string
	careerDone []string
)

func init() {
	careerCmd.Flags().StringVar(&careerView, "view", "primary", "Paths to show: primary, tech or non-tech")
	careerCmd.Flags().StringSliceVar(&careerDone, "done", nil, "Skills already learned (comma separated)")
	rootCmd.AddCommand(careerCmd)
}

func runCareer(cmd *cobra.Command, args []string) error {
	view, err := career.ParseView(careerView)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.loadResume(cmd.Context(), args[0]); err != nil {
		return err
	}

	rec, err := a.session.RecommendCareer(cmd.Context())
	if err != nil {
		return failure(err, career.RecommendFailedMessage)
	}

	for _, skill := range careerDone {
		a.session.ToggleSkill(skill)
	}
	a.session.SetCareerView(view)

	snap := a.session.Snapshot()
	a.printer.PrintCareer(rec, view, trackerFrom(snap.Career.Learned))
	return nil
}
