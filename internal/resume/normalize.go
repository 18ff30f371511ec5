package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
	schemafiles "github.com/jonathan/resume-analyzer/schemas"
)

// ErrInvalidResumeContent is returned when no known response shape yields usable resume text.
var ErrInvalidResumeContent = errors.New("invalid resume content")

// errShapeMismatch means a decoder's shape is absent from the response.
var errShapeMismatch = errors.New("shape mismatch")

// Decoder tries to extract a profile from one known response shape.
type Decoder struct {
	Name   string
	Decode func(raw json.RawMessage) (*types.ResumeProfile, error)
}

// Decoders lists the known upload response shapes in priority order.
var Decoders = []Decoder{
	{Name: "parsed_resume", Decode: wrapped("parsed_resume")},
	{Name: "parsedResume", Decode: wrapped("parsedResume")},
	{Name: "bare", Decode: bare},
}

// wrapped decodes a profile nested under key.
func wrapped(key string) func(json.RawMessage) (*types.ResumeProfile, error) {
	return func(raw json.RawMessage) (*types.ResumeProfile, error) {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, errShapeMismatch
		}
		inner, ok := envelope[key]
		if !ok || isFalsy(inner) {
			return nil, errShapeMismatch
		}
		return decodeProfile(inner)
	}
}

// bare decodes a profile that is the response object itself.
func bare(raw json.RawMessage) (*types.ResumeProfile, error) {
	var probe struct {
		ResumeText *string `json:"resume_text"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.ResumeText == nil || *probe.ResumeText == "" {
		return nil, errShapeMismatch
	}
	return decodeProfile(raw)
}

func decodeProfile(raw json.RawMessage) (*types.ResumeProfile, error) {
	if err := schemas.Validate(schemafiles.ResumeProfile, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResumeContent, err)
	}

	var p types.ResumeProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResumeContent, err)
	}
	p = p.WithDefaults()
	return &p, nil
}

// isFalsy reports whether a wrapper value is empty enough to skip: null, false,
// zero or the empty string. Any object, even {}, selects its shape.
func isFalsy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "null", "false", "0", `""`:
		return true
	}
	return false
}

// Normalize runs the decoders in order; the first one whose shape is present wins,
// even when its content turns out to be malformed. The winning profile must carry
// at least MinResumeTextLength characters of trimmed text, otherwise
// ErrInvalidResumeContent is returned.
func Normalize(raw json.RawMessage) (*types.ResumeProfile, error) {
	for _, d := range Decoders {
		p, err := d.Decode(raw)
		if errors.Is(err, errShapeMismatch) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !p.HasUsableText() {
			return nil, ErrInvalidResumeContent
		}
		return p, nil
	}
	return nil, ErrInvalidResumeContent
}
