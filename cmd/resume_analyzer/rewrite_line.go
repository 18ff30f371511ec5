package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/ats"
)

var rewriteLineCmd = &cobra.Command{
	Use:   "rewrite-line <line>...",
	Short: "Rewrite a single resume line",
	Long:  "Asks the backend to rewrite one resume line with stronger, measurable wording. Multiple arguments are joined with spaces.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRewriteLine,
}

func init() {
	rootCmd.AddCommand(rewriteLineCmd)
}

func runRewriteLine(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	rewritten, err := a.session.RewriteLine(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return failure(err, ats.RewriteFailedMessage)
	}

	_, _ = fmt.Fprintln(a.out, rewritten)
	return nil
}
