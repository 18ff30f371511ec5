package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New()
	require.NoError(t, err)
	return b
}

func TestUploadResume_Normalizes(t *testing.T) {
	b := newBackend(t)

	raw, err := b.UploadResume(context.Background(), &apiclient.MultipartFile{FileName: "cv.pdf"})
	require.NoError(t, err)

	profile, err := resume.Normalize(raw)
	require.NoError(t, err)
	assert.True(t, profile.HasUsableText())
	assert.Contains(t, profile.Skills, "python")
	assert.Equal(t, 2.0, profile.Experience)
}

func TestScoreATS_SampleResult(t *testing.T) {
	b := newBackend(t)

	result, err := b.ScoreATS(context.Background(), types.ResumeProfile{ResumeText: "x"})
	require.NoError(t, err)

	assert.Equal(t, 72.0, result.Score)
	assert.Len(t, result.Suggestions, 4)
	require.Len(t, result.LineFeedback, 2)
	assert.Equal(t, "Worked on various projects", result.LineFeedback[0].Line)
	assert.NoError(t, result.Validate())
}

func TestApplyFixes_UsesScoredProfile(t *testing.T) {
	b := newBackend(t)
	_, err := b.ScoreATS(context.Background(), types.ResumeProfile{
		ResumeText: "resume",
		Skills:     []string{"Go", "SQL", "Docker", "AWS"},
		Experience: 3,
	})
	require.NoError(t, err)

	improved, err := b.ApplyFixes(context.Background(), types.ApplyFixesRequest{ResumeText: "resume"})
	require.NoError(t, err)

	assert.Contains(t, improved, "IMPROVED RESUME")
	assert.Contains(t, improved, "3+ years of experience in Go, SQL, Docker.")
	assert.Contains(t, improved, "Go • SQL • Docker • AWS")
}

func TestExportPDF_Unavailable(t *testing.T) {
	_, err := newBackend(t).ExportPDF(context.Background(), "text")
	assert.ErrorIs(t, err, ErrExportUnavailable)
}

func TestRecommendJobs_SortedByScore(t *testing.T) {
	b := newBackend(t)

	jobs, err := b.RecommendJobs(context.Background(), types.ResumeProfile{Skills: []string{"Python", "flask", "sql"}})
	require.NoError(t, err)
	require.NotEmpty(t, jobs)

	assert.Equal(t, "Backend Developer Intern", jobs[0].Title)
	assert.Equal(t, 100.0, jobs[0].FinalScore)
	for i := 1; i < len(jobs); i++ {
		assert.GreaterOrEqual(t, jobs[i-1].FinalScore, jobs[i].FinalScore)
	}
	for _, job := range jobs {
		assert.NoError(t, job.Validate())
	}
}

func TestRecommendCareer(t *testing.T) {
	b := newBackend(t)

	rec, err := b.RecommendCareer(context.Background(), []string{"python", "sql"})
	require.NoError(t, err)

	assert.Equal(t, "Software Engineer", rec.Primary.CurrentRole)
	assert.Equal(t, []string{"git"}, rec.Primary.MissingSkills)
	assert.NotEmpty(t, rec.NonTechPaths)
	assert.NoError(t, rec.Validate())

	backendDev := rec.TechPaths[1]
	assert.Equal(t, "Backend Developer", backendDev.CurrentRole)
	links := backendDev.Links("flask")
	require.Len(t, links, 3)
	assert.Equal(t, types.ProviderYouTube, links[0].Provider)
}

func TestRecommendCareer_FallbackPath(t *testing.T) {
	rec, err := newBackend(t).RecommendCareer(context.Background(), []string{"knitting"})
	require.NoError(t, err)

	assert.Equal(t, "Specialist Engineer", rec.Primary.NextRole)
	assert.Empty(t, rec.NonTechPaths)
}

func TestRewriteLineAndHealth(t *testing.T) {
	b := newBackend(t)

	line, err := b.RewriteLine(context.Background(), "Managed the team.")
	require.NoError(t, err)
	assert.Equal(t, "Delivered measurable results by managed the team, improving team outcomes by 20%.", line)

	line, err = b.RewriteLine(context.Background(), "Été spent leading the launch")
	require.NoError(t, err)
	assert.Equal(t, "Delivered measurable results by été spent leading the launch, improving team outcomes by 20%.", line)

	msg, err := b.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HealthMessage, msg)
}
