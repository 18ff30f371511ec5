// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ats"
	"github.com/jonathan/resume-analyzer/internal/career"
	"github.com/jonathan/resume-analyzer/internal/jobs"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// progressWidth is the number of cells in a progress bar
	progressWidth = 20
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// ProgressBar renders ratio (0..1) as a fixed-width bar.
func ProgressBar(ratio float64) string {
	ratio = max(0, min(ratio, 1))
	filled := int(ratio*progressWidth + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled) + "]"
}

// PrintProfile outputs a summary of the parsed resume.
func (p *Printer) PrintProfile(profile *types.ResumeProfile, filename string) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	if filename != "" {
		sb.WriteString(fmt.Sprintf("File:       %s\n", filename))
	}
	sb.WriteString(fmt.Sprintf("Experience: %g years\n", profile.Experience))
	sb.WriteString(fmt.Sprintf("Text:       %d characters\n", len([]rune(strings.TrimSpace(profile.ResumeText)))))

	if len(profile.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills (%d):\n", len(profile.Skills)))
		count := min(len(profile.Skills), maxItemsToShow*2)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.Skills[i]))
		}
		if len(profile.Skills) > count {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Skills)-count))
		}
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintATSResult outputs the ATS score, its band, suggestions and line feedback.
func (p *Printer) PrintATSResult(result *types.ATSResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %.0f / 100  %s\n", result.Score, ProgressBar(result.Score/100)))
	sb.WriteString(fmt.Sprintf("%s\n", ats.BandFor(result.Score)))

	if len(result.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range result.Suggestions {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
	}

	if len(result.LineFeedback) > 0 {
		sb.WriteString("\nLine feedback:\n")
		count := min(len(result.LineFeedback), maxItemsToShow)
		for i := 0; i < count; i++ {
			lf := result.LineFeedback[i]
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", lf.Line))
			for _, issue := range lf.Issues {
				sb.WriteString(fmt.Sprintf("    ⚠ %s\n", issue))
			}
			if lf.ImprovedExample != "" {
				sb.WriteString(fmt.Sprintf("  ✓ %s\n", lf.ImprovedExample))
			}
		}
		if len(result.LineFeedback) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.LineFeedback)-maxItemsToShow))
		}
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImprovedResume outputs the rewritten resume text unboxed, since it is
// meant to be copied.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintImprovedResume(text string) {
	p.printBox("IMPROVED RESUME", "Rewritten resume follows.")
	fmt.Fprintln(p.out, text)
}

// PrintArtifact reports where an export was written.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintArtifact(artifact *ats.Artifact, path string) {
	if artifact == nil {
		return
	}
	if artifact.Fallback {
		fmt.Fprintf(p.out, "⚠ PDF export unavailable; saved plain text instead\n")
	}
	fmt.Fprintf(p.out, "✅ Saved %s (%d bytes) to %s\n", artifact.Filename, len(artifact.Data), path)
}

// PrintJobs outputs the job list as filtered by f.
func (p *Printer) PrintJobs(list []types.JobPosting, f jobs.Filter) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Filter: %s  (%d jobs)\n", f, len(list)))

	if len(list) == 0 {
		sb.WriteString("\nNo matching jobs.")
		p.printBox("JOB RECOMMENDATIONS", sb.String())
		return
	}

	for i, job := range list {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, job.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s · %.0f%% match (%s)\n",
			job.JobType, job.ExperienceLevel, job.FinalScore, jobs.Bucket(job.FinalScore)))
		if len(job.Skills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", strings.Join(job.Skills, ", ")))
		}
		if job.LinkedInLink != "" {
			sb.WriteString(fmt.Sprintf("    LinkedIn: %s\n", job.LinkedInLink))
		}
		if job.NaukriLink != "" {
			sb.WriteString(fmt.Sprintf("    Naukri:   %s\n", job.NaukriLink))
		}
	}

	p.printBox("JOB RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCareer outputs the career steps of view with learning progress, followed
// by the unabridged learning resource links.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCareer(rec *types.CareerRecommendation, view career.View, tracker *career.Tracker) {
	if rec == nil {
		return
	}
	if tracker == nil {
		tracker = career.NewTracker()
	}

	steps := career.Steps(rec, view)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("View: %s  (%d paths)\n", view, len(steps)))
	if len(steps) == 0 {
		sb.WriteString("\nNo paths in this view.")
	}

	for _, step := range steps {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s → %s\n", step.CurrentRole, step.NextRole))
		if step.Category != "" {
			sb.WriteString(fmt.Sprintf("  Category: %s\n", step.Category))
		}
		completed, total := tracker.Progress(step.MissingSkills)
		sb.WriteString(fmt.Sprintf("  Progress: %s %d/%d\n", ProgressBar(tracker.Ratio(step.MissingSkills)), completed, total))
		for _, skill := range step.MissingSkills {
			mark := "☐"
			if tracker.Done(skill) {
				mark = "☑"
			}
			labels := make([]string, 0, len(types.Providers))
			for _, link := range step.Links(skill) {
				labels = append(labels, link.Provider.Label())
			}
			line := fmt.Sprintf("  %s %s", mark, skill)
			if len(labels) > 0 {
				line += "  (" + strings.Join(labels, ", ") + ")"
			}
			sb.WriteString(line + "\n")
		}
	}

	p.printBox("CAREER PATH", strings.TrimSuffix(sb.String(), "\n"))

	for _, step := range steps {
		for _, skill := range step.MissingSkills {
			for _, link := range step.Links(skill) {
				fmt.Fprintf(p.out, "  %s · %s: %s\n", skill, link.Provider.Label(), link.URL)
			}
		}
	}
}

// PrintError outputs a user-facing failure message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintError(feature, message string) {
	if message == "" {
		return
	}
	fmt.Fprintf(p.out, "⚠ %s: %s\n", feature, message)
}
