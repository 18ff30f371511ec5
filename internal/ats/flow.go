// Package ats drives the ATS scoring flow: score a resume, apply the suggested
// fixes, then export the rewritten resume.
package ats

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// State is a step of the ATS flow.
type State string

const (
	StateUnscored     State = "UNSCORED"
	StateScored       State = "SCORED"
	StateFixesApplied State = "FIXES_APPLIED"
	StateExported     State = "EXPORTED"
)

// User-facing messages.
const (
	ShortResumeMessage      = "Resume text is empty or too short."
	MissingTextMessage      = "Resume text missing"
	MissingLineMessage      = "Line text missing"
	ScoreFailedMessage      = "Failed to calculate ATS score. Please try again."
	ApplyFixesFailedMessage = "Failed to apply fixes. Please try again."
	RewriteFailedMessage    = "Failed to rewrite line. Please try again."
	NotScoredMessage        = "Calculate the ATS score before applying fixes."
	NothingToExportMessage  = "Apply fixes before exporting."
)

// Artifact file names.
const (
	PDFFilename  = "Improved_Resume.pdf"
	TextFilename = "Improved_Resume.txt"
)

// Backend is the part of the backend contract the flow uses.
type Backend interface {
	ScoreATS(ctx context.Context, profile types.ResumeProfile) (*types.ATSResult, error)
	ApplyFixes(ctx context.Context, req types.ApplyFixesRequest) (string, error)
	ExportPDF(ctx context.Context, resumeText string) ([]byte, error)
	RewriteLine(ctx context.Context, line string) (string, error)
}

// Artifact is a downloadable export.
type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	Fallback    bool   `json:"fallback"` // Plain text substituted for a failed binary export
}

// Flow holds the ATS state for one resume. Failed steps leave earlier results in
// place. State is only locked around reads and commits, never during a backend
// call, so readers are not held up by a slow request.
type Flow struct {
	backend Backend
	logger  *logrus.Logger

	mu             sync.RWMutex
	state          State
	result         *types.ATSResult
	improvedResume string
	artifact       *Artifact
	err            error
	errFallback    string
}

// NewFlow creates a flow in the UNSCORED state.
func NewFlow(backend Backend, logger *logrus.Logger) *Flow {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Flow{backend: backend, logger: logger, state: StateUnscored}
}

// State returns the current step.
func (f *Flow) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Result returns the last ATS result, or nil.
func (f *Flow) Result() *types.ATSResult {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.result
}

// ImprovedResume returns the rewritten resume text, or "".
func (f *Flow) ImprovedResume() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.improvedResume
}

// Artifact returns the last export, or nil.
func (f *Flow) Artifact() *Artifact {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.artifact
}

// Err returns the error of the last step, or nil.
func (f *Flow) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// ErrMessage returns the user-facing message for Err, or "".
func (f *Flow) ErrMessage() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return apiclient.UserMessage(f.err, f.errFallback)
}

// fail records err as the outcome of the last step.
func (f *Flow) fail(err error, fallback string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	f.errFallback = fallback
	return err
}

// Score requests an ATS score. Resumes under the minimum text length are refused
// locally without a request.
func (f *Flow) Score(ctx context.Context, profile types.ResumeProfile) (*types.ATSResult, error) {
	if !profile.HasUsableText() {
		return nil, f.fail(&types.ValidationError{Field: "resume_text", Message: ShortResumeMessage}, "")
	}

	result, err := f.backend.ScoreATS(ctx, profile)
	if err != nil {
		return nil, f.fail(fmt.Errorf("ATS scoring failed: %w", err), ScoreFailedMessage)
	}

	f.mu.Lock()
	f.err = nil
	f.result = result
	// A fresh score invalidates fixes made against the previous feedback.
	f.improvedResume = ""
	f.artifact = nil
	f.state = StateScored
	f.mu.Unlock()

	f.logger.WithFields(logrus.Fields{
		"score":         result.Score,
		"suggestions":   len(result.Suggestions),
		"line_feedback": len(result.LineFeedback),
	}).Debug("ATS score received")

	return result, nil
}

// ApplyFixes sends the received line feedback with the original resume text and
// stores the rewritten resume.
func (f *Flow) ApplyFixes(ctx context.Context, resumeText string) (string, error) {
	result := f.Result()
	if result == nil {
		return "", f.fail(&types.ValidationError{Field: "ats_result", Message: NotScoredMessage}, "")
	}

	req := types.ApplyFixesRequest{ResumeText: resumeText, Feedback: result.LineFeedback}
	if strings.TrimSpace(req.ResumeText) == "" || req.Validate() != nil {
		return "", f.fail(&types.ValidationError{Field: "resume_text", Message: MissingTextMessage}, "")
	}

	improved, err := f.backend.ApplyFixes(ctx, req)
	if err != nil {
		return "", f.fail(fmt.Errorf("applying fixes failed: %w", err), ApplyFixesFailedMessage)
	}

	f.mu.Lock()
	f.err = nil
	f.improvedResume = improved
	f.artifact = nil
	f.state = StateFixesApplied
	f.mu.Unlock()
	return improved, nil
}

// Export renders the rewritten resume as a PDF. When the export request fails the
// rewritten text itself is returned as a plain-text artifact, so a transport
// failure never surfaces as an error here.
func (f *Flow) Export(ctx context.Context) (*Artifact, error) {
	f.mu.RLock()
	state, text := f.state, f.improvedResume
	f.mu.RUnlock()
	if state != StateFixesApplied && state != StateExported {
		return nil, f.fail(&types.ValidationError{Field: "improved_resume", Message: NothingToExportMessage}, "")
	}

	artifact := &Artifact{Filename: PDFFilename, ContentType: "application/pdf"}
	data, err := f.backend.ExportPDF(ctx, text)
	if err != nil {
		f.logger.WithError(err).Warn("PDF export failed; falling back to plain text")
		artifact = TextArtifact(text)
	} else {
		artifact.Data = data
	}

	f.mu.Lock()
	f.err = nil
	f.artifact = artifact
	f.state = StateExported
	f.mu.Unlock()
	return artifact, nil
}

// TextArtifact wraps resume text as a plain-text download.
func TextArtifact(text string) *Artifact {
	return &Artifact{
		Filename:    TextFilename,
		ContentType: "text/plain",
		Data:        []byte(text),
		Fallback:    true,
	}
}

// RewriteLine asks the backend for a stronger version of a single line. It does not
// change the flow state.
func (f *Flow) RewriteLine(ctx context.Context, line string) (string, error) {
	if strings.TrimSpace(line) == "" {
		return "", &types.ValidationError{Field: "line", Message: MissingLineMessage}
	}
	rewritten, err := f.backend.RewriteLine(ctx, line)
	if err != nil {
		return "", fmt.Errorf("line rewrite failed: %w", err)
	}
	return rewritten, nil
}
