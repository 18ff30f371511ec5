// Package jobs requests job recommendations for a resume and projects them through
// the local job type filter.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// User-facing messages.
const (
	NoResumeMessage     = "Please upload a valid resume before searching for jobs."
	SearchFailedMessage = "Failed to fetch job recommendations. Try again."
)

// Backend is the part of the backend contract job matching uses.
type Backend interface {
	RecommendJobs(ctx context.Context, profile types.ResumeProfile) ([]types.JobPosting, error)
}

// Search holds the last job list and the selected filter. Its state is never
// locked across a backend call, so filtering stays available during a search.
type Search struct {
	backend Backend
	logger  *logrus.Logger

	mu     sync.RWMutex
	jobs   []types.JobPosting
	filter Filter
	loaded bool
	err    error
}

// NewSearch creates an empty search with the ALL filter selected.
func NewSearch(backend Backend, logger *logrus.Logger) *Search {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Search{backend: backend, logger: logger, filter: FilterAll}
}

// Run requests recommendations for profile. A failed request clears the list.
func (s *Search) Run(ctx context.Context, profile types.ResumeProfile) ([]types.JobPosting, error) {
	if !profile.HasUsableText() {
		err := &types.ValidationError{Field: "resume_text", Message: NoResumeMessage}
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return nil, err
	}

	jobs, err := s.backend.RecommendJobs(ctx, profile.WithDefaults())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.jobs = nil
		s.loaded = false
		s.err = fmt.Errorf("job search failed: %w", err)
		return nil, s.err
	}
	if jobs == nil {
		jobs = []types.JobPosting{}
	}

	s.jobs = jobs
	s.loaded = true
	s.err = nil
	s.logger.WithField("jobs", len(jobs)).Debug("job recommendations received")
	return jobs, nil
}

// Jobs returns the full list in backend order.
func (s *Search) Jobs() []types.JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs
}

// Loaded reports whether the last search succeeded.
func (s *Search) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err returns the error of the last search, or nil.
func (s *Search) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Filter returns the selected filter.
func (s *Search) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter selects a filter. It never triggers a request.
func (s *Search) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Visible returns the list projected through the selected filter.
func (s *Search) Visible() []types.JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Apply(s.jobs, s.filter)
}

// Filter selects which job types are shown.
type Filter string

const (
	FilterAll        Filter = "ALL"
	FilterInternship Filter = Filter(types.JobTypeInternship)
	FilterFresher    Filter = Filter(types.JobTypeFresher)
)

// ParseFilter parses a filter name case-insensitively. An empty name is ALL.
func ParseFilter(name string) (Filter, error) {
	switch Filter(strings.ToUpper(strings.TrimSpace(name))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterInternship:
		return FilterInternship, nil
	case FilterFresher:
		return FilterFresher, nil
	default:
		return "", &types.ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("unknown job type %q (want ALL, INTERNSHIP or FRESHER)", name),
		}
	}
}

// Apply returns the jobs matching f, preserving order. The input is not modified.
func Apply(jobs []types.JobPosting, f Filter) []types.JobPosting {
	out := make([]types.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if f == FilterAll || string(job.JobType) == string(f) {
			out = append(out, job)
		}
	}
	return out
}

// ScoreBucket is the display class of a match score.
type ScoreBucket string

const (
	BucketHigh   ScoreBucket = "high"
	BucketMedium ScoreBucket = "medium"
	BucketLow    ScoreBucket = "low"
)

// Bucket classifies a final score for display. It never affects ordering.
func Bucket(score float64) ScoreBucket {
	switch {
	case score >= 85:
		return BucketHigh
	case score >= 70:
		return BucketMedium
	default:
		return BucketLow
	}
}
