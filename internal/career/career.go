// Package career requests a career path for a skill set and tracks learning
// progress on the missing skills locally.
package career

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
	NoSkillsMessage        = "Upload resume to get career guidance."
	RecommendFailedMessage = "Failed to generate career path. Please try again."
)

// Backend is the part of the backend contract career guidance uses.
type Backend interface {
	RecommendCareer(ctx context.Context, skills []string) (*types.CareerRecommendation, error)
}

// Guide holds the last recommendation, the selected view and the progress tracker.
// Its state is never locked across a backend call.
type Guide struct {
	backend Backend
	logger  *logrus.Logger
	tracker *Tracker

	mu             sync.RWMutex
	recommendation *types.CareerRecommendation
	view           View
	err            error
}

// NewGuide creates a guide with the PRIMARY view selected.
func NewGuide(backend Backend, logger *logrus.Logger) *Guide {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Guide{backend: backend, logger: logger, view: ViewPrimary, tracker: NewTracker()}
}

// Recommend requests a career path for skills. An empty skill list is refused
// locally. A successful fetch resets progress and selects the PRIMARY view; a
// failed one clears the recommendation.
func (g *Guide) Recommend(ctx context.Context, skills []string) (*types.CareerRecommendation, error) {
	skills = cleanSkills(skills)
	if len(skills) == 0 {
		err := &types.ValidationError{Field: "skills", Message: NoSkillsMessage}
		g.mu.Lock()
		g.err = err
		g.mu.Unlock()
		return nil, err
	}

	rec, err := g.backend.RecommendCareer(ctx, skills)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.recommendation = nil
		g.err = fmt.Errorf("career recommendation failed: %w", err)
		return nil, g.err
	}

	normalized := rec.WithDefaults()
	g.recommendation = &normalized
	g.view = ViewPrimary
	g.err = nil
	g.tracker.Reset()

	g.logger.WithFields(logrus.Fields{
		"next_role":      normalized.Primary.NextRole,
		"missing_skills": len(normalized.Primary.MissingSkills),
	}).Debug("career path received")
	return g.recommendation, nil
}

// Recommendation returns the last recommendation, or nil.
func (g *Guide) Recommendation() *types.CareerRecommendation {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.recommendation
}

// Tracker returns the progress tracker.
func (g *Guide) Tracker() *Tracker { return g.tracker }

// Err returns the error of the last request, or nil.
func (g *Guide) Err() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}

// View returns the selected view.
func (g *Guide) View() View {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.view
}

// SetView selects a view. It never triggers a request.
func (g *Guide) SetView(v View) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.view = v
}

// Steps returns the career steps of the selected view.
func (g *Guide) Steps() []types.CareerStep {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Steps(g.recommendation, g.view)
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// View selects which paths of a recommendation are shown.
type View string

const (
	ViewPrimary View = "PRIMARY"
	ViewTech    View = "TECH"
	ViewNonTech View = "NONTECH"
)

// ParseView parses a view name case-insensitively. An empty name is PRIMARY.
func ParseView(name string) (View, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "", "_", "").Replace(normalized)
	switch View(normalized) {
	case "", ViewPrimary:
		return ViewPrimary, nil
	case ViewTech:
		return ViewTech, nil
	case ViewNonTech:
		return ViewNonTech, nil
	default:
		return "", &types.ValidationError{
			Field:   "view",
			Message: fmt.Sprintf("unknown view %q (want PRIMARY, TECH or NONTECH)", name),
		}
	}
}

// Steps returns the steps of rec shown under v.
func Steps(rec *types.CareerRecommendation, v View) []types.CareerStep {
	if rec == nil {
		return nil
	}
	switch v {
	case ViewTech:
		return rec.TechPaths
	case ViewNonTech:
		return rec.NonTechPaths
	default:
		return []types.CareerStep{rec.Primary}
	}
}
