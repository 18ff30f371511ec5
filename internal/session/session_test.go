package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/ats"
	"github.com/jonathan/resume-analyzer/internal/career"
	"github.com/jonathan/resume-analyzer/internal/jobs"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var resumeText = strings.Repeat("Backend engineer shipping Go services. ", 3)

// fakeService is an in-memory backend.Service.
type fakeService struct {
	mu    sync.Mutex
	calls map[string]int

	uploadBody json.RawMessage
	uploadErr  error
	scoreErr   error
	jobsErr    error
	careerErr  error

	// When set, RecommendJobs signals jobsStarted and waits for jobsRelease.
	jobsStarted chan struct{}
	jobsRelease chan struct{}
}

func newFakeService() *fakeService {
	body, _ := json.Marshal(map[string]any{
		"filename": "cv.pdf",
		"parsed_resume": map[string]any{
			"resume_text": resumeText,
			"skills":      []string{"go", "sql"},
			"experience":  2,
		},
	})
	return &fakeService{calls: map[string]int{}, uploadBody: body}
}

func (f *fakeService) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeService) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeService) UploadResume(_ context.Context, _ *apiclient.MultipartFile) (json.RawMessage, error) {
	f.count("upload")
	return f.uploadBody, f.uploadErr
}

func (f *fakeService) ScoreATS(_ context.Context, _ types.ResumeProfile) (*types.ATSResult, error) {
	f.count("score")
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	return &types.ATSResult{
		Score:        72,
		Suggestions:  []string{"a", "b", "c", "d"},
		LineFeedback: []types.LineFeedback{{Line: "x"}, {Line: "y"}},
	}, nil
}

func (f *fakeService) ApplyFixes(_ context.Context, _ types.ApplyFixesRequest) (string, error) {
	f.count("fix")
	return "ABC", nil
}

func (f *fakeService) ExportPDF(_ context.Context, _ string) ([]byte, error) {
	f.count("export")
	return nil, &apiclient.NetworkError{URL: "http://localhost:8000/ats/export-pdf", Message: "HTTP request failed"}
}

func (f *fakeService) RewriteLine(_ context.Context, line string) (string, error) {
	return strings.ToUpper(line), nil
}

func (f *fakeService) RecommendJobs(_ context.Context, _ types.ResumeProfile) ([]types.JobPosting, error) {
	f.count("jobs")
	if f.jobsStarted != nil {
		f.jobsStarted <- struct{}{}
		<-f.jobsRelease
	}
	if f.jobsErr != nil {
		return nil, f.jobsErr
	}
	return []types.JobPosting{
		{Title: "Intern", JobType: types.JobTypeInternship, FinalScore: 90},
		{Title: "Fresher", JobType: types.JobTypeFresher, FinalScore: 71},
	}, nil
}

func (f *fakeService) RecommendCareer(_ context.Context, _ []string) (*types.CareerRecommendation, error) {
	f.count("career")
	if f.careerErr != nil {
		return nil, f.careerErr
	}
	return &types.CareerRecommendation{
		Primary: types.CareerStep{CurrentRole: "Dev", NextRole: "Senior Dev", MissingSkills: []string{"docker", "k8s"}},
	}, nil
}

func (f *fakeService) Health(_ context.Context) (string, error) {
	return "API is running successfully", nil
}

func pdfDoc() *resume.Document {
	return &resume.Document{Name: "cv.pdf", ContentType: resume.MIMEPDF, Data: []byte("%PDF-1.4")}
}

func uploaded(t *testing.T, svc *fakeService) *Controller {
	t.Helper()
	c := New(svc, nil)
	_, err := c.Upload(context.Background(), pdfDoc())
	require.NoError(t, err)
	return c
}

func TestController_UploadRejectsInvalidFileLocally(t *testing.T) {
	svc := newFakeService()
	c := New(svc, nil)

	_, err := c.Upload(context.Background(), &resume.Document{Name: "cv.png", ContentType: "image/png"})
	require.Error(t, err)

	assert.Equal(t, 0, svc.called("upload"))
	assert.Nil(t, c.Profile())
	assert.Equal(t, resume.InvalidFileMessage, c.Snapshot().UploadError)
}

func TestController_UploadStoresProfile(t *testing.T) {
	c := uploaded(t, newFakeService())

	p := c.Profile()
	require.NotNil(t, p)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
	assert.Equal(t, 2.0, p.Experience)

	snap := c.Snapshot()
	assert.Equal(t, "cv.pdf", snap.Filename)
	assert.Equal(t, c.ID(), snap.SessionID)
	assert.Empty(t, snap.UploadError)
}

func TestController_FailedUploadKeepsProfile(t *testing.T) {
	svc := newFakeService()
	c := uploaded(t, svc)

	svc.uploadErr = &apiclient.HTTPError{StatusCode: 400, Detail: "Unsupported file"}
	_, err := c.Upload(context.Background(), pdfDoc())
	require.Error(t, err)

	assert.NotNil(t, c.Profile())
	assert.Equal(t, "Unsupported file", c.Snapshot().UploadError)
}

func TestController_FeaturesNeedResume(t *testing.T) {
	svc := newFakeService()
	c := New(svc, nil)

	_, err := c.Score(context.Background())
	assert.True(t, types.IsValidationError(err))

	_, err = c.SearchJobs(context.Background())
	assert.Equal(t, jobs.NoResumeMessage, apiclient.UserMessage(err, ""))

	_, err = c.RecommendCareer(context.Background())
	assert.Equal(t, career.NoSkillsMessage, apiclient.UserMessage(err, ""))

	assert.True(t, types.IsValidationError(c.Analyze(context.Background())))
	assert.Equal(t, 0, svc.called("score")+svc.called("jobs")+svc.called("career"))
}

func TestController_FullATSFlowWithExportFallback(t *testing.T) {
	c := uploaded(t, newFakeService())
	ctx := context.Background()

	_, err := c.Score(ctx)
	require.NoError(t, err)
	_, err = c.ApplyFixes(ctx)
	require.NoError(t, err)

	artifact, err := c.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, ats.TextFilename, artifact.Filename)
	assert.Equal(t, "ABC", string(artifact.Data))

	snap := c.Snapshot()
	assert.Equal(t, ats.StateExported, snap.ATS.State)
	assert.Equal(t, ats.BandGood, snap.ATS.Band)
	assert.Equal(t, "ABC", snap.ATS.ImprovedResume)
}

func TestController_AnalyzeIsolatesFailures(t *testing.T) {
	svc := newFakeService()
	svc.jobsErr = errors.New("connection refused")
	c := uploaded(t, svc)

	require.NoError(t, c.Analyze(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, ats.StateScored, snap.ATS.State)
	assert.Empty(t, snap.ATS.Error)
	assert.Equal(t, jobs.SearchFailedMessage, snap.Jobs.Error)
	assert.False(t, snap.Jobs.Loaded)
	require.NotNil(t, snap.Career.Recommendation)
	assert.Equal(t, "Senior Dev", snap.Career.Recommendation.Primary.NextRole)
	assert.Empty(t, snap.Career.Error)
}

func TestController_ScoreFailureMessage(t *testing.T) {
	svc := newFakeService()
	svc.scoreErr = errors.New("boom")
	c := uploaded(t, svc)

	_, err := c.Score(context.Background())
	require.Error(t, err)
	assert.Equal(t, ats.ScoreFailedMessage, c.Snapshot().ATS.Error)
}

func TestController_JobFilterAndCareerProgress(t *testing.T) {
	c := uploaded(t, newFakeService())
	ctx := context.Background()

	_, err := c.SearchJobs(ctx)
	require.NoError(t, err)
	visible := c.SetJobFilter(jobs.FilterInternship)
	require.Len(t, visible, 1)
	assert.Equal(t, "Intern", visible[0].Title)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Jobs.Total)
	assert.Len(t, snap.Jobs.Jobs, 1)

	_, err = c.RecommendCareer(ctx)
	require.NoError(t, err)
	assert.True(t, c.ToggleSkill("docker"))

	snap = c.Snapshot()
	require.Len(t, snap.Career.Steps, 1)
	assert.Equal(t, 1, snap.Career.Steps[0].Completed)
	assert.Equal(t, 2, snap.Career.Steps[0].Total)
	assert.InDelta(t, 0.5, snap.Career.Steps[0].Ratio, 1e-9)

	assert.Empty(t, c.SetCareerView(career.ViewTech))
}

func TestController_NewUploadResetsFeatures(t *testing.T) {
	c := uploaded(t, newFakeService())
	ctx := context.Background()
	require.NoError(t, c.Analyze(ctx))
	c.ToggleSkill("docker")

	_, err := c.Upload(ctx, pdfDoc())
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.Equal(t, ats.StateUnscored, snap.ATS.State)
	assert.Nil(t, snap.ATS.Result)
	assert.False(t, snap.Jobs.Loaded)
	assert.Empty(t, snap.Jobs.Jobs)
	assert.Nil(t, snap.Career.Recommendation)
	assert.Empty(t, snap.Career.Learned)
}

func TestController_SetProfile(t *testing.T) {
	c := New(newFakeService(), nil)

	err := c.SetProfile(types.ResumeProfile{ResumeText: "short"}, "cv.txt")
	assert.ErrorIs(t, err, resume.ErrInvalidResumeContent)

	require.NoError(t, c.SetProfile(types.ResumeProfile{ResumeText: resumeText}, "cv.txt"))
	assert.NotNil(t, c.Profile().Skills)
}

func TestController_RewriteLine(t *testing.T) {
	c := New(newFakeService(), nil)
	line, err := c.RewriteLine(context.Background(), "led team")
	require.NoError(t, err)
	assert.Equal(t, "LED TEAM", line)
}

func TestController_AnalyzeNotify(t *testing.T) {
	svc := newFakeService()
	svc.careerErr = errors.New("down")
	c := uploaded(t, svc)

	var (
		mu   sync.Mutex
		seen = map[Feature]error{}
	)
	err := c.AnalyzeNotify(context.Background(), func(f Feature, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen[f] = err
	})
	require.NoError(t, err)

	require.Len(t, seen, 3)
	assert.NoError(t, seen[FeatureATS])
	assert.NoError(t, seen[FeatureJobs])
	assert.Error(t, seen[FeatureCareer])
}

func TestController_ReadsDoNotWaitForInFlightRequests(t *testing.T) {
	svc := newFakeService()
	svc.jobsStarted = make(chan struct{})
	svc.jobsRelease = make(chan struct{})
	release := sync.OnceFunc(func() { close(svc.jobsRelease) })
	t.Cleanup(release)

	c := uploaded(t, svc)
	_, err := c.RecommendCareer(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.SearchJobs(context.Background())
		done <- err
	}()
	<-svc.jobsStarted

	read := make(chan Snapshot, 1)
	go func() {
		c.SetJobFilter(jobs.FilterInternship)
		c.SetCareerView(career.ViewTech)
		c.ToggleSkill("docker")
		read <- c.Snapshot()
	}()

	select {
	case snap := <-read:
		assert.False(t, snap.Jobs.Loaded)
		assert.Equal(t, jobs.FilterInternship, snap.Jobs.Filter)
		assert.Equal(t, career.ViewTech, snap.Career.View)
		assert.True(t, snap.Career.Learned["docker"])
	case <-time.After(2 * time.Second):
		t.Fatal("session reads blocked behind an in-flight job search")
	}

	release()
	require.NoError(t, <-done)

	snap := c.Snapshot()
	assert.True(t, snap.Jobs.Loaded)
	assert.Equal(t, 2, snap.Jobs.Total)
	require.Len(t, snap.Jobs.Jobs, 1)
	assert.Equal(t, "Intern", snap.Jobs.Jobs[0].Title)
}
