package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs <resume>",
	Short: "Recommend jobs matching a resume",
	Long:  "Requests job recommendations for the resume and prints them with their match score. --type narrows the list to internships or fresher roles.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobs,
}

var jobsType string

func init() {
	jobsCmd.Flags().StringVarP(&jobsType, "type", "t", "all", "Job type to show: all, internship or fresher")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	filter, err := jobs.ParseFilter(jobsType)
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

	if _, err := a.session.SearchJobs(cmd.Context()); err != nil {
		return failure(err, jobs.SearchFailedMessage)
	}

	a.printer.PrintJobs(a.session.SetJobFilter(filter), filter)
	return nil
}
