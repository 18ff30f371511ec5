package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume>",
	Short: "Run every analysis on a resume",
	Long:  "Uploads the resume and runs ATS scoring, job matching and career guidance concurrently. A failing analysis is reported without hiding the others.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.loadResume(cmd.Context(), args[0]); err != nil {
		return err
	}

	err = a.session.AnalyzeNotify(cmd.Context(), func(feature session.Feature, ferr error) {
		entry := a.logger.WithFields(logrus.Fields{"feature": feature, "ok": ferr == nil})
		if ferr != nil {
			entry.WithError(ferr).Warn("analysis failed")
			return
		}
		entry.Debug("analysis finished")
	})
	if err != nil {
		return failure(err, "")
	}

	snap := a.session.Snapshot()
	a.printer.PrintProfile(snap.Profile, snap.Filename)

	a.printer.PrintError("ATS", snap.ATS.Error)
	a.printer.PrintATSResult(snap.ATS.Result)

	a.printer.PrintError("Jobs", snap.Jobs.Error)
	if snap.Jobs.Loaded {
		a.printer.PrintJobs(snap.Jobs.Jobs, snap.Jobs.Filter)
	}

	a.printer.PrintError("Career", snap.Career.Error)
	if snap.Career.Recommendation != nil {
		a.printer.PrintCareer(snap.Career.Recommendation, snap.Career.View, trackerFrom(snap.Career.Learned))
	}
	return nil
}
