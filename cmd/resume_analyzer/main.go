// Package main provides the resume_analyzer CLI: upload a resume, score it for
// ATS compatibility, match jobs and plan a career path against the analysis backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	rootAPIURL     string
	rootConfigPath string
	rootVerbose    bool
	rootDemo       bool
	rootTimeout    string
)

var rootCmd = &cobra.Command{
	Use:   "resume_analyzer",
	Short: "Resume Analyzer CLI",
	Long:  "Resume Analyzer uploads a resume to the analysis backend, scores it for ATS compatibility, rewrites it, recommends matching jobs and suggests a career path.",

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootAPIURL, "api-url", "", "Base URL of the analysis backend (default http://localhost:8000)")
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().BoolVar(&rootDemo, "demo", false, "Serve built-in sample data instead of calling the backend")
	rootCmd.PersistentFlags().StringVar(&rootTimeout, "timeout", "", "Backend request timeout, e.g. 30s (default none)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
