//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasUsableText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: false},
		{name: "49 chars", text: strings.Repeat("a", 49), want: false},
		{name: "50 chars", text: strings.Repeat("a", 50), want: true},
		{name: "padded short text", text: "   " + strings.Repeat("a", 40) + "\n\n\n\n\n\n\n\n\n\n\n", want: false},
		{name: "20 multibyte chars", text: strings.Repeat("履", 20), want: false},
		{name: "49 multibyte chars", text: strings.Repeat("é", 49), want: false},
		{name: "50 multibyte chars", text: strings.Repeat("履", 50), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasUsableText(tt.text))
		})
	}
}

func TestResumeProfile_NilHasNoText(t *testing.T) {
	var p *ResumeProfile
	assert.False(t, p.HasUsableText())
}

func TestResumeProfile_WithDefaults(t *testing.T) {
	p := ResumeProfile{ResumeText: "text", Experience: -2}.WithDefaults()
	assert.NotNil(t, p.Skills)
	assert.Empty(t, p.Skills)
	assert.Zero(t, p.Experience)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"skills":[]`)
}

func TestResumeProfile_Validate(t *testing.T) {
	assert.NoError(t, (&ResumeProfile{ResumeText: "x"}).Validate())
	assert.Error(t, (&ResumeProfile{}).Validate())
	assert.Error(t, (&ResumeProfile{ResumeText: "x", Experience: -1}).Validate())
}

func TestATSResult_ScoreBounds(t *testing.T) {
	tests := []struct {
		score   float64
		wantErr bool
	}{
		{0, false},
		{72, false},
		{100, false},
		{-1, true},
		{100.5, true},
	}

	for _, tt := range tests {
		r := &ATSResult{Score: tt.score}
		if tt.wantErr {
			assert.Error(t, r.Validate(), "score %v", tt.score)
		} else {
			assert.NoError(t, r.Validate(), "score %v", tt.score)
		}
	}
}

func TestATSResult_DecodesBackendShape(t *testing.T) {
	body := `{
		"ats_score": 72,
		"suggestions": ["Use action verbs", "Add metrics"],
		"line_feedback": [
			{"line": "Worked on projects", "issues": ["Too vague"], "improved_example": "Led 5 projects"}
		]
	}`

	var r ATSResult
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	assert.Equal(t, 72.0, r.Score)
	assert.Len(t, r.Suggestions, 2)
	require.Len(t, r.LineFeedback, 1)
	assert.Equal(t, "Led 5 projects", r.LineFeedback[0].ImprovedExample)
}

func TestJobPosting_Validate(t *testing.T) {
	valid := JobPosting{
		Title:        "Backend Intern",
		JobType:      JobTypeInternship,
		FinalScore:   80,
		LinkedInLink: "https://www.linkedin.com/jobs/search/?keywords=backend",
	}
	assert.NoError(t, valid.Validate())

	badType := valid
	badType.JobType = "EXPERIENCED"
	assert.Error(t, badType.Validate())

	badScore := valid
	badScore.FinalScore = 140
	assert.Error(t, badScore.Validate())

	badLink := valid
	badLink.NaukriLink = "not a url"
	assert.Error(t, badLink.Validate())
}

func TestJobRecommendations_ValidateDivesIntoPostings(t *testing.T) {
	r := &JobRecommendations{RecommendedJobs: []JobPosting{
		{Title: "A", JobType: JobTypeFresher},
		{Title: "", JobType: JobTypeFresher},
	}}
	assert.Error(t, r.Validate())
}

func TestCareerStep_LinksInProviderOrder(t *testing.T) {
	var step CareerStep
	body := `{
		"current_role": "Data Analyst",
		"next_role": "Data Scientist",
		"missing_skills": ["python", "sql"],
		"learning_resources": {
			"python": {"w3schools": "https://w3.example/python", "youtube": "https://yt.example/python"},
			"sql": {}
		}
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &step))

	links := step.Links("python")
	require.Len(t, links, 2)
	assert.Equal(t, ProviderYouTube, links[0].Provider)
	assert.Equal(t, ProviderW3Schools, links[1].Provider)

	assert.Nil(t, step.Links("sql"))
	assert.Nil(t, step.Links("missing"))
}

func TestProvider_Label(t *testing.T) {
	assert.Equal(t, "GFG", ProviderGFG.Label())
	assert.Equal(t, "W3", ProviderW3Schools.Label())
	assert.Equal(t, "other", Provider("other").Label())
}

func TestCareerRecommendation_WithDefaults(t *testing.T) {
	var r CareerRecommendation
	require.NoError(t, json.Unmarshal([]byte(`{"primary_path": {"current_role": "a", "next_role": "b"}}`), &r))

	r = r.WithDefaults()
	assert.NotNil(t, r.TechPaths)
	assert.NotNil(t, r.NonTechPaths)
	assert.NotNil(t, r.Primary.MissingSkills)
	assert.NoError(t, r.Validate())
}

func TestCareerRequest_RequiresSkills(t *testing.T) {
	assert.Error(t, validate.Struct(&CareerRequest{}))
	assert.Error(t, validate.Struct(&CareerRequest{Skills: []string{}}))
	assert.NoError(t, validate.Struct(&CareerRequest{Skills: []string{"go"}}))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "skills", Message: "empty"}
	assert.Equal(t, "validation error in skills: empty", err.Error())
	assert.True(t, IsValidationError(err))

	bare := &ValidationError{Message: "too short"}
	assert.Equal(t, "validation error: too short", bare.Error())
}
