package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ats"
	"github.com/jonathan/resume-analyzer/internal/career"
	"github.com/jonathan/resume-analyzer/internal/jobs"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// HealthResponse represents the response for /health
type HealthResponse struct {
	Status       string `json:"status"`
	Backend      string `json:"backend,omitempty"`
	BackendError string `json:"backend_error,omitempty"`
}

// UploadResponse represents the response for /api/resume
type UploadResponse struct {
	Filename string               `json:"filename"`
	Profile  *types.ResumeProfile `json:"profile"`
}

// ScoreResponse represents the response for /api/ats/score
type ScoreResponse struct {
	*types.ATSResult
	Band ats.Band `json:"band"`
}

// FixesResponse represents the response for /api/ats/fixes
type FixesResponse struct {
	ImprovedResume string `json:"improved_resume"`
}

// ToggleResponse represents the response for /api/career/skills/{skill}/toggle
type ToggleResponse struct {
	Skill  string                 `json:"skill"`
	Done   bool                   `json:"done"`
	Career session.CareerSnapshot `json:"career"`
}

// handleHealth reports server health and, when reachable, the backend's health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	msg, err := s.backend.Health(r.Context())
	if err != nil {
		resp.Status = "degraded"
		resp.BackendError = err.Error()
	} else {
		resp.Backend = msg
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSession returns the whole session state
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.Snapshot())
}

// handleUpload accepts a multipart resume under the "file" field
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
			return
		}
		s.logger.WithError(err).Debug("upload is not a multipart form")
		s.failure(w, &types.ValidationError{Field: "file", Message: resume.InvalidFileMessage}, "")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.failure(w, &types.ValidationError{Field: "file", Message: resume.InvalidFileMessage}, "")
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = resume.DetectType(header.Filename, data)
	}

	doc := &resume.Document{Name: header.Filename, ContentType: contentType, Data: data}
	profile, err := s.session.Upload(r.Context(), doc)
	if err != nil {
		s.failure(w, err, resume.UploadFailedMessage)
		return
	}

	s.jsonResponse(w, http.StatusOK, UploadResponse{Filename: header.Filename, Profile: profile})
}

// handleAnalyze runs all three analyses and returns the resulting session
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Analyze(r.Context()); err != nil {
		s.failure(w, err, "")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.Snapshot())
}

// handleAnalyzeStream runs all three analyses and streams an event as each finishes
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	if s.session.Profile() == nil {
		s.failure(w, &types.ValidationError{Field: "resume", Message: session.NoResumeMessage}, "")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	err = s.session.AnalyzeNotify(r.Context(), func(feature session.Feature, ferr error) {
		if werr := sse.WriteFeature(feature, ferr, featureFallback(feature)); werr != nil {
			s.logger.WithError(werr).WithField("feature", feature).Warn("failed to write stream event")
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(s.session.Snapshot())
}

// featureFallback is the message shown for a feature failure without a backend detail
func featureFallback(feature session.Feature) string {
	switch feature {
	case session.FeatureATS:
		return ats.ScoreFailedMessage
	case session.FeatureJobs:
		return jobs.SearchFailedMessage
	case session.FeatureCareer:
		return career.RecommendFailedMessage
	default:
		return ""
	}
}

// handleScore scores the uploaded resume
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	result, err := s.session.Score(r.Context())
	if err != nil {
		s.failure(w, err, ats.ScoreFailedMessage)
		return
	}
	s.jsonResponse(w, http.StatusOK, ScoreResponse{ATSResult: result, Band: ats.BandFor(result.Score)})
}

// handleApplyFixes rewrites the uploaded resume with the ATS feedback
func (s *Server) handleApplyFixes(w http.ResponseWriter, r *http.Request) {
	improved, err := s.session.ApplyFixes(r.Context())
	if err != nil {
		s.failure(w, err, ats.ApplyFixesFailedMessage)
		return
	}
	s.jsonResponse(w, http.StatusOK, FixesResponse{ImprovedResume: improved})
}

// handleExport downloads the rewritten resume as PDF, or as plain text when the
// backend cannot render it
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.session.Export(r.Context())
	if err != nil {
		s.failure(w, err, "")
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	if artifact.Fallback {
		w.Header().Set("X-Export-Fallback", "true")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		s.logger.WithError(err).Warn("failed to write export")
	}
}

// handleRewriteLine rewrites a single line
func (s *Server) handleRewriteLine(w http.ResponseWriter, r *http.Request) {
	var req types.RewriteLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rewritten, err := s.session.RewriteLine(r.Context(), req.Line)
	if err != nil {
		s.failure(w, err, ats.RewriteFailedMessage)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.RewriteLineResponse{Rewritten: rewritten})
}

// handleSearchJobs requests job recommendations
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.SearchJobs(r.Context()); err != nil {
		s.failure(w, err, jobs.SearchFailedMessage)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.Snapshot().Jobs)
}

// handleListJobs applies the ?type= filter to the last search
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobs.ParseFilter(r.URL.Query().Get("type"))
	if err != nil {
		s.failure(w, err, "")
		return
	}
	s.session.SetJobFilter(filter)
	s.jsonResponse(w, http.StatusOK, s.session.Snapshot().Jobs)
}

// handleRecommendCareer requests a career path
func (s *Server) handleRecommendCareer(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.RecommendCareer(r.Context()); err != nil {
		s.failure(w, err, career.RecommendFailedMessage)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.Snapshot().Career)
}

// handleGetCareer applies the ?view= selection to the last recommendation
func (s *Server) handleGetCareer(w http.ResponseWriter, r *http.Request) {
	view, err := career.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		s.failure(w, err, "")
		return
	}
	s.session.SetCareerView(view)
	s.jsonResponse(w, http.StatusOK, s.session.Snapshot().Career)
}

// handleToggleSkill flips the learned mark of a skill
func (s *Server) handleToggleSkill(w http.ResponseWriter, r *http.Request) {
	skill := strings.TrimSpace(r.PathValue("skill"))
	if skill == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill is required")
		return
	}

	done := s.session.ToggleSkill(skill)
	s.jsonResponse(w, http.StatusOK, ToggleResponse{
		Skill:  skill,
		Done:   done,
		Career: s.session.Snapshot().Career,
	})
}
