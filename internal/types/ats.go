//nolint:revive // types is a standard Go package name pattern
package types

// LineFeedback is the backend's critique of a single resume line.
type LineFeedback struct {
	Line            string   `json:"line"`
	Issues          []string `json:"issues"`
	ImprovedExample string   `json:"improved_example"`
}

// ATSResult is the response of an ATS scoring request.
type ATSResult struct {
	Score        float64        `json:"ats_score" validate:"gte=0,lte=100"`
	Suggestions  []string       `json:"suggestions"`
	LineFeedback []LineFeedback `json:"line_feedback"`
}

// Validate validates the ATSResult using the validator.
func (r *ATSResult) Validate() error {
	return validate.Struct(r)
}

// ApplyFixesRequest asks the backend to rewrite a resume using earlier line feedback.
type ApplyFixesRequest struct {
	ResumeText string         `json:"resume_text" validate:"required"`
	Feedback   []LineFeedback `json:"feedback"`
}

// Validate validates the ApplyFixesRequest using the validator.
func (r *ApplyFixesRequest) Validate() error {
	return validate.Struct(r)
}

// ApplyFixesResponse carries the rewritten resume text.
type ApplyFixesResponse struct {
	ImprovedResume string `json:"improved_resume"`
}

// ExportRequest asks the backend to render resume text as a document.
type ExportRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
}

// RewriteLineRequest asks the backend to rewrite one resume line.
type RewriteLineRequest struct {
	Line string `json:"line" validate:"required"`
}

// RewriteLineResponse carries a single rewritten line.
type RewriteLineResponse struct {
	Rewritten string `json:"rewritten"`
}
