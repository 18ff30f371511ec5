// Package session ties the resume upload and the three analysis features together.
//
// A Controller owns the uploaded ResumeProfile and one state slice per feature.
// Each feature only ever sees its own slice, so a failure in one feature never
// disturbs another. Uploading a new resume replaces every slice.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/ats"
	"github.com/jonathan/resume-analyzer/internal/backend"
	"github.com/jonathan/resume-analyzer/internal/career"
	"github.com/jonathan/resume-analyzer/internal/jobs"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// NoResumeMessage is returned by operations that need an uploaded resume.
const NoResumeMessage = "Upload a resume first."

// Controller is safe for concurrent use.
type Controller struct {
	id      string
	backend backend.Service
	logger  *logrus.Logger

	mu        sync.RWMutex
	profile   *types.ResumeProfile
	filename  string
	uploadErr error
	ats       *atsSlice
	jobs      *jobsSlice
	career    *careerSlice
}

// Each slice's run mutex keeps at most one request in flight per feature. It is
// held across the backend call; reads and local selections never take it.

type atsSlice struct {
	run  sync.Mutex
	flow *ats.Flow
}

type jobsSlice struct {
	run    sync.Mutex
	search *jobs.Search
}

type careerSlice struct {
	run   sync.Mutex
	guide *career.Guide
}

// New creates an empty session.
func New(svc backend.Service, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	c := &Controller{
		id:      uuid.New().String(),
		backend: svc,
		logger:  logger,
	}
	c.resetFeatures()
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// resetFeatures replaces every feature slice. Callers hold c.mu for writing, or
// own c exclusively.
func (c *Controller) resetFeatures() {
	c.ats = &atsSlice{flow: ats.NewFlow(c.backend, c.logger)}
	c.jobs = &jobsSlice{search: jobs.NewSearch(c.backend, c.logger)}
	c.career = &careerSlice{guide: career.NewGuide(c.backend, c.logger)}
}

// Upload validates, uploads and normalizes doc. On success the profile is stored
// and all feature state is reset. On failure the previous profile is kept.
func (c *Controller) Upload(ctx context.Context, doc *resume.Document) (*types.ResumeProfile, error) {
	profile, err := resume.Submit(ctx, c.backend, doc)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.uploadErr = err
		c.logger.WithError(err).Warn("resume upload failed")
		return nil, err
	}

	c.setProfileLocked(profile, doc.Name)
	c.logger.WithFields(logrus.Fields{
		"session":  c.id,
		"filename": doc.Name,
		"skills":   len(profile.Skills),
	}).Info("resume uploaded")
	return profile, nil
}

// SetProfile installs an already parsed profile, as a successful upload would.
func (c *Controller) SetProfile(profile types.ResumeProfile, filename string) error {
	p := profile.WithDefaults()
	if !p.HasUsableText() {
		return resume.ErrInvalidResumeContent
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setProfileLocked(&p, filename)
	return nil
}

func (c *Controller) setProfileLocked(profile *types.ResumeProfile, filename string) {
	c.profile = profile
	c.filename = filename
	c.uploadErr = nil
	c.resetFeatures()
}

// Profile returns a copy of the current profile, or nil.
func (c *Controller) Profile() *types.ResumeProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.profile == nil {
		return nil
	}
	p := *c.profile
	return &p
}

// current returns the profile and slices under one read lock.
func (c *Controller) current() (*types.ResumeProfile, *atsSlice, *jobsSlice, *careerSlice) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile, c.ats, c.jobs, c.career
}

func noResume() error {
	return &types.ValidationError{Field: "resume", Message: NoResumeMessage}
}

// Score runs ATS scoring on the current profile.
func (c *Controller) Score(ctx context.Context) (*types.ATSResult, error) {
	profile, slice, _, _ := c.current()
	if profile == nil {
		return nil, noResume()
	}
	slice.run.Lock()
	defer slice.run.Unlock()
	return slice.flow.Score(ctx, *profile)
}

// ApplyFixes applies the ATS feedback to the current resume text.
func (c *Controller) ApplyFixes(ctx context.Context) (string, error) {
	profile, slice, _, _ := c.current()
	if profile == nil {
		return "", noResume()
	}
	slice.run.Lock()
	defer slice.run.Unlock()
	return slice.flow.ApplyFixes(ctx, profile.ResumeText)
}

// Export exports the rewritten resume.
func (c *Controller) Export(ctx context.Context) (*ats.Artifact, error) {
	_, slice, _, _ := c.current()
	slice.run.Lock()
	defer slice.run.Unlock()
	return slice.flow.Export(ctx)
}

// RewriteLine rewrites a single resume line. It needs no uploaded resume.
func (c *Controller) RewriteLine(ctx context.Context, line string) (string, error) {
	_, slice, _, _ := c.current()
	return slice.flow.RewriteLine(ctx, line)
}

// SearchJobs requests job recommendations for the current profile.
func (c *Controller) SearchJobs(ctx context.Context) ([]types.JobPosting, error) {
	profile, _, slice, _ := c.current()
	p := types.ResumeProfile{}
	if profile != nil {
		p = *profile
	}
	slice.run.Lock()
	defer slice.run.Unlock()
	return slice.search.Run(ctx, p)
}

// SetJobFilter selects the job type filter and returns the visible jobs.
func (c *Controller) SetJobFilter(f jobs.Filter) []types.JobPosting {
	_, _, slice, _ := c.current()
	slice.search.SetFilter(f)
	return slice.search.Visible()
}

// RecommendCareer requests a career path for the current profile's skills.
func (c *Controller) RecommendCareer(ctx context.Context) (*types.CareerRecommendation, error) {
	profile, _, _, slice := c.current()
	var skills []string
	if profile != nil {
		skills = profile.Skills
	}
	slice.run.Lock()
	defer slice.run.Unlock()
	return slice.guide.Recommend(ctx, skills)
}

// SetCareerView selects the career view and returns its steps.
func (c *Controller) SetCareerView(v career.View) []types.CareerStep {
	_, _, _, slice := c.current()
	slice.guide.SetView(v)
	return slice.guide.Steps()
}

// ToggleSkill flips the learned mark of a missing skill.
func (c *Controller) ToggleSkill(skill string) bool {
	_, _, _, slice := c.current()
	return slice.guide.Tracker().Toggle(skill)
}

// Feature names a concurrently analyzed feature.
type Feature string

const (
	FeatureATS    Feature = "ats"
	FeatureJobs   Feature = "jobs"
	FeatureCareer Feature = "career"
)

// Analyze runs ATS scoring, job search and career recommendation concurrently.
// Each feature records its own outcome; Analyze fails only when no resume has been
// uploaded.
func (c *Controller) Analyze(ctx context.Context) error {
	return c.AnalyzeNotify(ctx, nil)
}

// AnalyzeNotify is Analyze with a callback invoked as each feature finishes. The
// callback may be called from several goroutines at once.
func (c *Controller) AnalyzeNotify(ctx context.Context, notify func(Feature, error)) error {
	if c.Profile() == nil {
		return noResume()
	}

	run := func(feature Feature, fn func() error) func() error {
		return func() error {
			err := fn()
			if err != nil {
				c.logger.WithError(err).WithField("feature", feature).Debug("analysis step failed")
			}
			if notify != nil {
				notify(feature, err)
			}
			return nil
		}
	}

	var g errgroup.Group
	g.Go(run(FeatureATS, func() error {
		_, err := c.Score(ctx)
		return err
	}))
	g.Go(run(FeatureJobs, func() error {
		_, err := c.SearchJobs(ctx)
		return err
	}))
	g.Go(run(FeatureCareer, func() error {
		_, err := c.RecommendCareer(ctx)
		return err
	}))
	return g.Wait()
}

// Snapshot is a read-only view of the whole session.
type Snapshot struct {
	SessionID   string               `json:"session_id"`
	Filename    string               `json:"filename,omitempty"`
	Profile     *types.ResumeProfile `json:"profile,omitempty"`
	UploadError string               `json:"upload_error,omitempty"`
	ATS         ATSSnapshot          `json:"ats"`
	Jobs        JobsSnapshot         `json:"jobs"`
	Career      CareerSnapshot       `json:"career"`
}

// ATSSnapshot is the ATS feature slice.
type ATSSnapshot struct {
	State          ats.State        `json:"state"`
	Result         *types.ATSResult `json:"result,omitempty"`
	Band           ats.Band         `json:"band,omitempty"`
	ImprovedResume string           `json:"improved_resume,omitempty"`
	Artifact       *ats.Artifact    `json:"artifact,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// JobsSnapshot is the job matching slice. Jobs holds the filtered list.
type JobsSnapshot struct {
	Filter jobs.Filter        `json:"filter"`
	Loaded bool               `json:"loaded"`
	Total  int                `json:"total"`
	Jobs   []types.JobPosting `json:"jobs"`
	Error  string             `json:"error,omitempty"`
}

// CareerSnapshot is the career guidance slice.
type CareerSnapshot struct {
	View           career.View                 `json:"view"`
	Recommendation *types.CareerRecommendation `json:"recommendation,omitempty"`
	Steps          []StepProgress              `json:"steps"`
	Learned        map[string]bool             `json:"learned"`
	Error          string                      `json:"error,omitempty"`
}

// StepProgress is a career step with its local learning progress.
type StepProgress struct {
	types.CareerStep
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Ratio     float64 `json:"ratio"`
}

// Snapshot captures the current session state. Error fields hold user-facing
// messages.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	snap := Snapshot{SessionID: c.id, Filename: c.filename}
	if c.profile != nil {
		p := *c.profile
		snap.Profile = &p
	}
	snap.UploadError = apiclient.UserMessage(c.uploadErr, resume.UploadFailedMessage)
	atsS, jobsS, careerS := c.ats, c.jobs, c.career
	c.mu.RUnlock()

	snap.ATS = ATSSnapshot{
		State:          atsS.flow.State(),
		Result:         atsS.flow.Result(),
		ImprovedResume: atsS.flow.ImprovedResume(),
		Artifact:       atsS.flow.Artifact(),
		Error:          atsS.flow.ErrMessage(),
	}
	if snap.ATS.Result != nil {
		snap.ATS.Band = ats.BandFor(snap.ATS.Result.Score)
	}

	snap.Jobs = JobsSnapshot{
		Filter: jobsS.search.Filter(),
		Loaded: jobsS.search.Loaded(),
		Total:  len(jobsS.search.Jobs()),
		Jobs:   jobsS.search.Visible(),
		Error:  apiclient.UserMessage(jobsS.search.Err(), jobs.SearchFailedMessage),
	}

	guide := careerS.guide
	snap.Career = CareerSnapshot{
		View:           guide.View(),
		Recommendation: guide.Recommendation(),
		Steps:          []StepProgress{},
		Learned:        guide.Tracker().Snapshot(),
		Error:          apiclient.UserMessage(guide.Err(), career.RecommendFailedMessage),
	}
	for _, step := range guide.Steps() {
		completed, total := guide.Tracker().Progress(step.MissingSkills)
		snap.Career.Steps = append(snap.Career.Steps, StepProgress{
			CareerStep: step,
			Completed:  completed,
			Total:      total,
			Ratio:      guide.Tracker().Ratio(step.MissingSkills),
		})
	}

	return snap
}
