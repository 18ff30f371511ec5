package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/ats"
)

var exportCmd = &cobra.Command{
	Use:   "export <resume>",
	Short: "Export the rewritten resume as a PDF",
	Long:  "Scores the resume, applies the fixes and downloads the rewritten resume as Improved_Resume.pdf. When the backend cannot render a PDF the text is saved as Improved_Resume.txt instead.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var exportOutputDir string

func init() {
	exportCmd.Flags().StringVarP(&exportOutputDir, "out-dir", "o", "", "Directory to write the export to (default from config, else current directory)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.loadResume(cmd.Context(), args[0]); err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := a.session.Score(ctx); err != nil {
		return failure(err, ats.ScoreFailedMessage)
	}
	if _, err := a.session.ApplyFixes(ctx); err != nil {
		return failure(err, ats.ApplyFixesFailedMessage)
	}
	artifact, err := a.session.Export(ctx)
	if err != nil {
		return failure(err, "")
	}

	dir := exportOutputDir
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		return fmt.Errorf("failed to write export to %s: %w", path, err)
	}

	a.printer.PrintArtifact(artifact, path)
	return nil
}
