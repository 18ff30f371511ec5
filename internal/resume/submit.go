package resume

import (
	"context"
	"encoding/json"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// UploadFailedMessage is shown when an upload fails without a server-provided detail.
const UploadFailedMessage = "Failed to parse resume. Please upload a valid resume."

// Uploader sends a document to the backend and returns the raw response.
type Uploader interface {
	UploadResume(ctx context.Context, file *apiclient.MultipartFile) (json.RawMessage, error)
}

// Submit validates doc, uploads it and normalizes the parsed result. No request is
// sent when validation fails.
func Submit(ctx context.Context, uploader Uploader, doc *Document) (*types.ResumeProfile, error) {
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	raw, err := uploader.UploadResume(ctx, doc.MultipartFile())
	if err != nil {
		return nil, err
	}

	return Normalize(raw)
}
