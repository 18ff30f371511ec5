package ats

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/types"
)

type fakeBackend struct {
	scoreCalls  int
	fixCalls    int
	exportCalls int

	result    *types.ATSResult
	improved  string
	pdf       []byte
	scoreErr  error
	fixErr    error
	exportErr error

	lastFix    types.ApplyFixesRequest
	lastExport string
}

func (f *fakeBackend) ScoreATS(_ context.Context, _ types.ResumeProfile) (*types.ATSResult, error) {
	f.scoreCalls++
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	return f.result, nil
}

func (f *fakeBackend) ApplyFixes(_ context.Context, req types.ApplyFixesRequest) (string, error) {
	f.fixCalls++
	f.lastFix = req
	if f.fixErr != nil {
		return "", f.fixErr
	}
	return f.improved, nil
}

func (f *fakeBackend) ExportPDF(_ context.Context, text string) ([]byte, error) {
	f.exportCalls++
	f.lastExport = text
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return f.pdf, nil
}

func (f *fakeBackend) RewriteLine(_ context.Context, line string) (string, error) {
	return "Rewritten: " + line, nil
}

var profile = types.ResumeProfile{
	ResumeText: strings.Repeat("Built Go services. ", 5),
	Skills:     []string{"go"},
	Experience: 2,
}

func sampleResult() *types.ATSResult {
	return &types.ATSResult{
		Score:       72,
		Suggestions: []string{"Add metrics", "Use action verbs", "Add keywords", "Keep formatting consistent"},
		LineFeedback: []types.LineFeedback{
			{Line: "Worked on various projects", Issues: []string{"Too vague"}, ImprovedExample: "Led 5 projects"},
			{Line: "Good communication skills", Issues: []string{"Subjective"}, ImprovedExample: "Presented to 3 departments"},
		},
	}
}

func TestFlow_StartsUnscored(t *testing.T) {
	flow := NewFlow(&fakeBackend{}, nil)
	assert.Equal(t, StateUnscored, flow.State())
	assert.Nil(t, flow.Result())
}

func TestFlow_ScoreRefusesShortResume(t *testing.T) {
	backend := &fakeBackend{result: sampleResult()}
	flow := NewFlow(backend, nil)

	_, err := flow.Score(context.Background(), types.ResumeProfile{ResumeText: "  too short  "})
	require.Error(t, err)

	assert.True(t, types.IsValidationError(err))
	assert.Equal(t, 0, backend.scoreCalls)
	assert.Equal(t, StateUnscored, flow.State())
	assert.Equal(t, err, flow.Err())
}

func TestFlow_ScoreRendersResult(t *testing.T) {
	backend := &fakeBackend{result: sampleResult()}
	flow := NewFlow(backend, nil)

	result, err := flow.Score(context.Background(), profile)
	require.NoError(t, err)

	assert.Equal(t, StateScored, flow.State())
	assert.Equal(t, 72.0, result.Score)
	assert.Len(t, result.Suggestions, 4)
	assert.Len(t, result.LineFeedback, 2)
	assert.Equal(t, BandGood, BandFor(result.Score))
}

func TestFlow_ScoreFailureKeepsPreviousResult(t *testing.T) {
	backend := &fakeBackend{result: sampleResult()}
	flow := NewFlow(backend, nil)
	_, err := flow.Score(context.Background(), profile)
	require.NoError(t, err)

	backend.scoreErr = &apiclient.NetworkError{URL: "u", Message: "HTTP request failed"}
	_, err = flow.Score(context.Background(), profile)
	require.Error(t, err)

	assert.Equal(t, StateScored, flow.State())
	assert.Equal(t, 72.0, flow.Result().Score)
	assert.Equal(t, ScoreFailedMessage, apiclient.UserMessage(flow.Err(), ScoreFailedMessage))
}

func TestFlow_ApplyFixesRequiresScore(t *testing.T) {
	backend := &fakeBackend{}
	flow := NewFlow(backend, nil)

	_, err := flow.ApplyFixes(context.Background(), profile.ResumeText)
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))
	assert.Equal(t, 0, backend.fixCalls)
}

func TestFlow_ApplyFixesSendsFeedback(t *testing.T) {
	backend := &fakeBackend{result: sampleResult(), improved: "IMPROVED RESUME"}
	flow := NewFlow(backend, nil)
	_, err := flow.Score(context.Background(), profile)
	require.NoError(t, err)

	improved, err := flow.ApplyFixes(context.Background(), profile.ResumeText)
	require.NoError(t, err)

	assert.Equal(t, "IMPROVED RESUME", improved)
	assert.Equal(t, StateFixesApplied, flow.State())
	assert.Equal(t, profile.ResumeText, backend.lastFix.ResumeText)
	assert.Equal(t, sampleResult().LineFeedback, backend.lastFix.Feedback)
}

func TestFlow_ApplyFixesFailureKeepsScore(t *testing.T) {
	backend := &fakeBackend{result: sampleResult(), fixErr: errors.New("boom")}
	flow := NewFlow(backend, nil)
	_, err := flow.Score(context.Background(), profile)
	require.NoError(t, err)

	_, err = flow.ApplyFixes(context.Background(), profile.ResumeText)
	require.Error(t, err)

	assert.Equal(t, StateScored, flow.State())
	assert.NotNil(t, flow.Result())
	assert.Empty(t, flow.ImprovedResume())
}

func TestFlow_ExportRequiresFixes(t *testing.T) {
	backend := &fakeBackend{result: sampleResult()}
	flow := NewFlow(backend, nil)
	_, err := flow.Score(context.Background(), profile)
	require.NoError(t, err)

	_, err = flow.Export(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))
	assert.Equal(t, 0, backend.exportCalls)
}

func TestFlow_ExportPDF(t *testing.T) {
	backend := &fakeBackend{result: sampleResult(), improved: "ABC", pdf: []byte("%PDF-1.4")}
	flow := NewFlow(backend, nil)
	_, _ = flow.Score(context.Background(), profile)
	_, _ = flow.ApplyFixes(context.Background(), profile.ResumeText)

	artifact, err := flow.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateExported, flow.State())
	assert.Equal(t, "ABC", backend.lastExport)
	assert.Equal(t, PDFFilename, artifact.Filename)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.False(t, artifact.Fallback)
	assert.Equal(t, []byte("%PDF-1.4"), artifact.Data)
}

func TestFlow_ExportFallsBackToText(t *testing.T) {
	backend := &fakeBackend{
		result:    sampleResult(),
		improved:  "ABC",
		exportErr: &apiclient.NetworkError{URL: "u", Message: "HTTP request failed"},
	}
	flow := NewFlow(backend, nil)
	_, _ = flow.Score(context.Background(), profile)
	_, _ = flow.ApplyFixes(context.Background(), profile.ResumeText)

	artifact, err := flow.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, TextFilename, artifact.Filename)
	assert.Equal(t, "text/plain", artifact.ContentType)
	assert.True(t, artifact.Fallback)
	assert.Equal(t, "ABC", string(artifact.Data))
	assert.Equal(t, "ABC", flow.ImprovedResume(), "rewritten text stays available")
	assert.NoError(t, flow.Err())
}

func TestFlow_ExportCanRepeat(t *testing.T) {
	backend := &fakeBackend{result: sampleResult(), improved: "ABC", pdf: []byte("%PDF")}
	flow := NewFlow(backend, nil)
	_, _ = flow.Score(context.Background(), profile)
	_, _ = flow.ApplyFixes(context.Background(), profile.ResumeText)

	_, err := flow.Export(context.Background())
	require.NoError(t, err)
	_, err = flow.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, backend.exportCalls)
}

func TestFlow_RewriteLine(t *testing.T) {
	flow := NewFlow(&fakeBackend{}, nil)

	line, err := flow.RewriteLine(context.Background(), "managed team")
	require.NoError(t, err)
	assert.Equal(t, "Rewritten: managed team", line)

	_, err = flow.RewriteLine(context.Background(), "   ")
	assert.True(t, types.IsValidationError(err))
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{100, BandExcellent},
		{80, BandExcellent},
		{79.9, BandGood},
		{60, BandGood},
		{59, BandWeak},
		{0, BandWeak},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.score), "score %v", tt.score)
	}
}
