package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <resume>",
	Short: "Upload a resume and show the parsed profile",
	Long:  "Uploads a PDF, DOC or DOCX resume to the backend and prints the extracted text, skills and experience. With --out the profile is saved as JSON and can be passed to the other commands in place of the document.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var (
	uploadOutput string
	uploadJSON   bool
)

func init() {
	uploadCmd.Flags().StringVarP(&uploadOutput, "out", "o", "", "Path to write the parsed profile JSON")
	uploadCmd.Flags().BoolVar(&uploadJSON, "json", false, "Print the parsed profile as JSON")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.loadResume(cmd.Context(), args[0]); err != nil {
		return err
	}

	profile := a.session.Profile()
	snap := a.session.Snapshot()

	if uploadOutput != "" {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile to JSON: %w", err)
		}

		// Ensure output directory exists
		outputDir := filepath.Dir(uploadOutput)
		if outputDir != "" && outputDir != "." {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
			}
		}
		if err := os.WriteFile(uploadOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write profile to output file %s: %w", uploadOutput, err)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved profile to %s\n", uploadOutput)
	}

	if uploadJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}

	a.printer.PrintProfile(profile, snap.Filename)
	return nil
}
