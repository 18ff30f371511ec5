// Package backend implements the typed request/response contract of the resume analysis backend.
package backend

import (
	"context"
	"encoding/json"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
	schemafiles "github.com/jonathan/resume-analyzer/schemas"
)

// Backend endpoints.
const (
	EndpointHealth          = "/"
	EndpointResumeUpload    = "/resume/upload"
	EndpointATSScore        = "/ats/score"
	EndpointATSApplyFixes   = "/ats/apply-fixes"
	EndpointATSExportPDF    = "/ats/export-pdf"
	EndpointATSRewriteLine  = "/ats/ai-rewrite"
	EndpointJobsRecommend   = "/jobs/recommend"
	EndpointCareerRecommend = "/career/recommend"
)

// Transport is the subset of *apiclient.Client the contract needs.
type Transport interface {
	Post(ctx context.Context, endpoint string, body any, opts *apiclient.RequestOptions) (*apiclient.Response, error)
	Get(ctx context.Context, endpoint string) (*apiclient.Response, error)
}

// Service is the full backend contract. *Client implements it; the demo package
// provides an offline implementation.
type Service interface {
	UploadResume(ctx context.Context, file *apiclient.MultipartFile) (json.RawMessage, error)
	ScoreATS(ctx context.Context, profile types.ResumeProfile) (*types.ATSResult, error)
	ApplyFixes(ctx context.Context, req types.ApplyFixesRequest) (string, error)
	ExportPDF(ctx context.Context, resumeText string) ([]byte, error)
	RewriteLine(ctx context.Context, line string) (string, error)
	RecommendJobs(ctx context.Context, profile types.ResumeProfile) ([]types.JobPosting, error)
	RecommendCareer(ctx context.Context, skills []string) (*types.CareerRecommendation, error)
	Health(ctx context.Context) (string, error)
}

// Client calls the backend through a Transport.
type Client struct {
	transport Transport
}

var _ Service = (*Client)(nil)

// New creates a backend client.
func New(transport Transport) *Client {
	return &Client{transport: transport}
}

// UploadResume sends a document and returns the raw response body. The body has
// several possible shapes; normalization lives in the resume package.
func (c *Client) UploadResume(ctx context.Context, file *apiclient.MultipartFile) (json.RawMessage, error) {
	resp, err := c.transport.Post(ctx, EndpointResumeUpload, file, nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(resp.Body) {
		return nil, &apiclient.DecodeError{Endpoint: EndpointResumeUpload, Message: "response is not JSON"}
	}
	return json.RawMessage(resp.Body), nil
}

// ScoreATS requests an ATS score and feedback for a resume.
func (c *Client) ScoreATS(ctx context.Context, profile types.ResumeProfile) (*types.ATSResult, error) {
	var result types.ATSResult
	if err := c.postJSON(ctx, EndpointATSScore, profile.WithDefaults(), schemafiles.ATSResult, &result); err != nil {
		return nil, err
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	if result.LineFeedback == nil {
		result.LineFeedback = []types.LineFeedback{}
	}
	return &result, nil
}

// ApplyFixes sends earlier line feedback and returns the rewritten resume text.
func (c *Client) ApplyFixes(ctx context.Context, req types.ApplyFixesRequest) (string, error) {
	if req.Feedback == nil {
		req.Feedback = []types.LineFeedback{}
	}
	var resp types.ApplyFixesResponse
	if err := c.postJSON(ctx, EndpointATSApplyFixes, req, schemafiles.ApplyFixes, &resp); err != nil {
		return "", err
	}
	return resp.ImprovedResume, nil
}

// ExportPDF renders resume text to a binary document.
func (c *Client) ExportPDF(ctx context.Context, resumeText string) ([]byte, error) {
	resp, err := c.transport.Post(ctx, EndpointATSExportPDF, types.ExportRequest{ResumeText: resumeText},
		&apiclient.RequestOptions{ResponseType: apiclient.ResponseBinary})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// RewriteLine asks the backend to rewrite a single resume line.
func (c *Client) RewriteLine(ctx context.Context, line string) (string, error) {
	var resp types.RewriteLineResponse
	if err := c.postJSON(ctx, EndpointATSRewriteLine, types.RewriteLineRequest{Line: line}, schemafiles.RewriteLine, &resp); err != nil {
		return "", err
	}
	return resp.Rewritten, nil
}

// RecommendJobs returns job postings in backend order. A missing list decodes as empty.
func (c *Client) RecommendJobs(ctx context.Context, profile types.ResumeProfile) ([]types.JobPosting, error) {
	var resp types.JobRecommendations
	if err := c.postJSON(ctx, EndpointJobsRecommend, profile.WithDefaults(), schemafiles.JobRecommendations, &resp); err != nil {
		return nil, err
	}
	if resp.RecommendedJobs == nil {
		return []types.JobPosting{}, nil
	}
	return resp.RecommendedJobs, nil
}

// RecommendCareer returns the primary and alternate career transitions for a skill list.
func (c *Client) RecommendCareer(ctx context.Context, skills []string) (*types.CareerRecommendation, error) {
	var resp types.CareerRecommendation
	if err := c.postJSON(ctx, EndpointCareerRecommend, types.CareerRequest{Skills: skills}, schemafiles.CareerRecommendation, &resp); err != nil {
		return nil, err
	}
	resp = resp.WithDefaults()
	return &resp, nil
}

// Health returns the backend's status message.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.transport.Get(ctx, EndpointHealth)
	if err != nil {
		return "", err
	}
	if err := schemas.Validate(schemafiles.Health, resp.Body); err != nil {
		return "", &apiclient.DecodeError{Endpoint: EndpointHealth, Message: "unexpected health payload", Cause: err}
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", &apiclient.DecodeError{Endpoint: EndpointHealth, Message: "invalid JSON", Cause: err}
	}
	return out.Message, nil
}

// postJSON posts body, checks the response against schemaName and decodes it into out.
func (c *Client) postJSON(ctx context.Context, endpoint string, body any, schemaName string, out any) error {
	resp, err := c.transport.Post(ctx, endpoint, body, nil)
	if err != nil {
		return err
	}
	if err := schemas.Validate(schemaName, resp.Body); err != nil {
		return &apiclient.DecodeError{Endpoint: endpoint, Message: "response does not match " + schemaName, Cause: err}
	}
	if err := resp.Decode(out); err != nil {
		return &apiclient.DecodeError{Endpoint: endpoint, Message: "invalid JSON", Cause: err}
	}
	if v, ok := out.(validatable); ok {
		if err := v.Validate(); err != nil {
			return &apiclient.DecodeError{Endpoint: endpoint, Message: "response failed validation", Cause: err}
		}
	}
	return nil
}

type validatable interface {
	Validate() error
}
