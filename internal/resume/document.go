// Package resume validates resume documents before upload and normalizes the backend's parsed result.
package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Accepted document MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AcceptedTypes lists the MIME types a resume upload may declare.
var AcceptedTypes = []string{MIMEPDF, MIMEDOC, MIMEDOCX}

// InvalidFileMessage is shown when no file or an unsupported file is selected.
const InvalidFileMessage = "Please upload a valid PDF, DOC, or DOCX file."

// Document is a resume file selected for upload.
type Document struct {
	Name        string
	ContentType string // Declared MIME type
	Data        []byte
}

// IsAccepted reports whether contentType is one of the accepted MIME types.
// Parameters such as "; charset=binary" are ignored.
func IsAccepted(contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	return slices.Contains(AcceptedTypes, strings.TrimSpace(strings.ToLower(base)))
}

// ValidateDocument rejects a missing document or one whose declared type is not accepted.
func ValidateDocument(doc *Document) error {
	if doc == nil || !IsAccepted(doc.ContentType) {
		return &types.ValidationError{Field: "file", Message: InvalidFileMessage}
	}
	return nil
}

// LoadDocument reads a file from disk. When declaredType is empty the type is
// detected from the file contents.
func LoadDocument(path, declaredType string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file %s: %w", path, err)
	}

	contentType := declaredType
	if contentType == "" {
		contentType = DetectType(path, data)
	}

	return &Document{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// DetectType sniffs the MIME type of data. Legacy .doc files are OLE containers,
// so the extension decides between Word and other OLE formats.
func DetectType(path string, data []byte) string {
	mtype := mimetype.Detect(data)
	if mtype.Is(MIMEDOC) || mtype.Is(MIMEPDF) || mtype.Is(MIMEDOCX) {
		return mimeBase(mtype.String())
	}
	if mtype.Is("application/x-ole-storage") && strings.EqualFold(filepath.Ext(path), ".doc") {
		return MIMEDOC
	}
	return mimeBase(mtype.String())
}

func mimeBase(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(base)
}

// MultipartFile converts the document to an upload body.
func (d *Document) MultipartFile() *apiclient.MultipartFile {
	return &apiclient.MultipartFile{
		FieldName:   "file",
		FileName:    d.Name,
		ContentType: d.ContentType,
		Data:        d.Data,
	}
}
