// Package schemas embeds the JSON Schemas describing every backend response body.
package schemas

import "embed"

// Schema file names.
const (
	ResumeProfile        = "resume_profile.schema.json"
	ATSResult            = "ats_result.schema.json"
	ApplyFixes           = "apply_fixes.schema.json"
	RewriteLine          = "rewrite_line.schema.json"
	JobRecommendations   = "job_recommendations.schema.json"
	CareerRecommendation = "career_recommendation.schema.json"
	Health               = "health.schema.json"
)

// All lists every embedded schema.
var All = []string{
	ResumeProfile,
	ATSResult,
	ApplyFixes,
	RewriteLine,
	JobRecommendations,
	CareerRecommendation,
	Health,
}

// FS holds the schema files.
//
//go:embed *.schema.json
var FS embed.FS
