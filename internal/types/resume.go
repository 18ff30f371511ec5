// Package types provides the value records exchanged between the resume analyzer and its backend.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"unicode/utf8"
)

// MinResumeTextLength is the trimmed text length a resume needs before it can be scored or matched.
const MinResumeTextLength = 50

// ResumeProfile is the normalized result of a resume upload. It doubles as the
// request body for ATS scoring and job matching.
type ResumeProfile struct {
	ResumeText string   `json:"resume_text" validate:"required"`
	Skills     []string `json:"skills"`
	Experience float64  `json:"experience" validate:"gte=0"`
}

// HasUsableText reports whether the resume text meets the minimum trimmed length.
func (p *ResumeProfile) HasUsableText() bool {
	if p == nil {
		return false
	}
	return HasUsableText(p.ResumeText)
}

// HasUsableText reports whether text has at least MinResumeTextLength characters
// once trimmed. Characters are runes, not bytes.
func HasUsableText(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinResumeTextLength
}

// WithDefaults returns a copy with a non-nil skill list and a non-negative experience.
func (p ResumeProfile) WithDefaults() ResumeProfile {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	return p
}

// Validate validates the ResumeProfile using the validator.
func (p *ResumeProfile) Validate() error {
	return validate.Struct(p)
}
