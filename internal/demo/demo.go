// Package demo provides an offline backend that serves canned sample data. It is
// used only when demo mode is explicitly requested and never as a silent fallback
// for a failing backend.
package demo

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/backend"
	"github.com/jonathan/resume-analyzer/internal/types"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ErrExportUnavailable is returned by ExportPDF; demo mode cannot render documents.
var ErrExportUnavailable = errors.New("demo mode cannot render PDF documents")

// HealthMessage is the demo health response.
const HealthMessage = "API is running successfully (demo mode)"

type catalog struct {
	ATS struct {
		Score        float64  `yaml:"ats_score"`
		Suggestions  []string `yaml:"suggestions"`
		LineFeedback []struct {
			Line            string   `yaml:"line"`
			Issues          []string `yaml:"issues"`
			ImprovedExample string   `yaml:"improved_example"`
		} `yaml:"line_feedback"`
	} `yaml:"ats"`
	SampleResume     string   `yaml:"sample_resume"`
	SampleSkills     []string `yaml:"sample_skills"`
	SampleExperience float64  `yaml:"sample_experience"`
	Jobs             []struct {
		Title           string   `yaml:"title"`
		JobType         string   `yaml:"job_type"`
		ExperienceLevel string   `yaml:"experience_level"`
		Skills          []string `yaml:"skills"`
		LinkedInLink    string   `yaml:"linkedin_link"`
		NaukriLink      string   `yaml:"naukri_link"`
	} `yaml:"jobs"`
	CareerPaths []struct {
		Role     string   `yaml:"role"`
		Category string   `yaml:"category"`
		Required []string `yaml:"required"`
		Next     string   `yaml:"next"`
	} `yaml:"career_paths"`
	LearningLinks map[string]map[string]string `yaml:"learning_links"`
}

func loadCatalog() (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse demo catalog: %w", err)
	}
	return &c, nil
}

// Backend implements backend.Service from the embedded catalog.
type Backend struct {
	catalog *catalog

	mu      sync.Mutex
	profile types.ResumeProfile
}

var _ backend.Service = (*Backend)(nil)

// New loads the embedded catalog.
func New() (*Backend, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return &Backend{
		catalog: c,
		profile: types.ResumeProfile{
			ResumeText: c.SampleResume,
			Skills:     c.SampleSkills,
			Experience: c.SampleExperience,
		},
	}, nil
}

// UploadResume ignores the document content and returns the sample resume in
// the wrapped upload shape.
func (b *Backend) UploadResume(_ context.Context, file *apiclient.MultipartFile) (json.RawMessage, error) {
	name := ""
	if file != nil {
		name = file.FileName
	}
	b.mu.Lock()
	profile := b.profile
	b.mu.Unlock()

	body, err := json.Marshal(map[string]any{
		"filename":      name,
		"parsed_resume": profile,
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// ScoreATS returns the sample score and feedback.
func (b *Backend) ScoreATS(_ context.Context, profile types.ResumeProfile) (*types.ATSResult, error) {
	b.mu.Lock()
	b.profile = profile.WithDefaults()
	b.mu.Unlock()

	src := b.catalog.ATS
	result := &types.ATSResult{
		Score:        src.Score,
		Suggestions:  append([]string(nil), src.Suggestions...),
		LineFeedback: make([]types.LineFeedback, 0, len(src.LineFeedback)),
	}
	for _, lf := range src.LineFeedback {
		result.LineFeedback = append(result.LineFeedback, types.LineFeedback{
			Line:            lf.Line,
			Issues:          append([]string(nil), lf.Issues...),
			ImprovedExample: lf.ImprovedExample,
		})
	}
	return result, nil
}

// ApplyFixes builds a rewritten resume from the last scored profile.
func (b *Backend) ApplyFixes(_ context.Context, _ types.ApplyFixesRequest) (string, error) {
	b.mu.Lock()
	profile := b.profile
	b.mu.Unlock()

	top := profile.Skills
	if len(top) > 3 {
		top = top[:3]
	}

	var sb strings.Builder
	sb.WriteString("IMPROVED RESUME\n\n")
	sb.WriteString("PROFESSIONAL SUMMARY\n")
	fmt.Fprintf(&sb, "Results-driven software engineer with %s+ years of experience in %s. ",
		formatYears(profile.Experience), strings.Join(top, ", "))
	sb.WriteString("Proven track record of delivering high-quality solutions.\n\n")
	sb.WriteString("SKILLS\n")
	sb.WriteString(strings.Join(profile.Skills, " • "))
	sb.WriteString("\n\nEXPERIENCE\n")
	sb.WriteString("• Led development of 5+ full-stack applications, improving user engagement by 40%\n")
	sb.WriteString("• Collaborated with cross-functional teams of 10+ members to deliver projects on time\n")
	sb.WriteString("• Implemented automated testing frameworks, reducing bug reports by 60%\n")
	sb.WriteString("• Mentored 3 junior developers, improving team productivity by 25%")
	return sb.String(), nil
}

func formatYears(years float64) string {
	if years == math.Trunc(years) {
		return fmt.Sprintf("%d", int(years))
	}
	return fmt.Sprintf("%.1f", years)
}

// ExportPDF always fails, so callers fall back to a plain-text export.
func (b *Backend) ExportPDF(_ context.Context, _ string) ([]byte, error) {
	return nil, ErrExportUnavailable
}

// RewriteLine prefixes the line with an action verb and an impact clause.
func (b *Backend) RewriteLine(_ context.Context, line string) (string, error) {
	line = strings.TrimSpace(strings.TrimRight(line, "."))
	if line == "" {
		return "", nil
	}
	first, size := utf8.DecodeRuneInString(line)
	lower := string(unicode.ToLower(first)) + line[size:]
	return fmt.Sprintf("Delivered measurable results by %s, improving team outcomes by 20%%.", lower), nil
}

// RecommendJobs scores the sample jobs by skill overlap, highest score first.
func (b *Backend) RecommendJobs(_ context.Context, profile types.ResumeProfile) ([]types.JobPosting, error) {
	have := skillSet(profile.Skills)
	jobs := make([]types.JobPosting, 0, len(b.catalog.Jobs))
	for _, j := range b.catalog.Jobs {
		matched := 0
		for _, s := range j.Skills {
			if have[strings.ToLower(s)] {
				matched++
			}
		}
		score := 50.0
		if len(j.Skills) > 0 {
			score += math.Round(50 * float64(matched) / float64(len(j.Skills)))
		}
		jobs = append(jobs, types.JobPosting{
			Title:           j.Title,
			JobType:         types.JobType(j.JobType),
			ExperienceLevel: j.ExperienceLevel,
			Skills:          append([]string(nil), j.Skills...),
			FinalScore:      score,
			LinkedInLink:    j.LinkedInLink,
			NaukriLink:      j.NaukriLink,
		})
	}
	sort.SliceStable(jobs, func(i, k int) bool { return jobs[i].FinalScore > jobs[k].FinalScore })
	return jobs, nil
}

// RecommendCareer ranks the catalog career paths by the number of required skills
// already held and lists the rest as missing skills.
func (b *Backend) RecommendCareer(_ context.Context, skills []string) (*types.CareerRecommendation, error) {
	have := skillSet(skills)
	tech := []types.CareerStep{}
	nonTech := []types.CareerStep{}

	for _, p := range b.catalog.CareerPaths {
		matched := 0
		missing := []string{}
		for _, req := range p.Required {
			if have[req] {
				matched++
			} else {
				missing = append(missing, req)
			}
		}
		if matched == 0 {
			continue
		}

		step := types.CareerStep{
			CurrentRole:       p.Role,
			NextRole:          p.Next,
			Category:          p.Category,
			MatchScore:        float64(matched),
			MissingSkills:     missing,
			LearningResources: b.resourcesFor(missing),
		}
		if p.Category == "Tech" {
			tech = append(tech, step)
		} else {
			nonTech = append(nonTech, step)
		}
	}

	byMatch := func(steps []types.CareerStep) {
		sort.SliceStable(steps, func(i, k int) bool { return steps[i].MatchScore > steps[k].MatchScore })
	}
	byMatch(tech)
	byMatch(nonTech)

	if len(tech) == 0 && len(nonTech) == 0 {
		tech = append(tech, types.CareerStep{
			CurrentRole:       "Software Engineer",
			NextRole:          "Specialist Engineer",
			Category:          "Tech",
			MissingSkills:     []string{"system design", "cloud", "data structures"},
			LearningResources: types.LearningResources{},
		})
	}

	rec := &types.CareerRecommendation{TechPaths: tech, NonTechPaths: nonTech}
	if len(tech) > 0 {
		rec.Primary = tech[0]
	} else {
		rec.Primary = nonTech[0]
	}
	return rec, nil
}

func (b *Backend) resourcesFor(skills []string) types.LearningResources {
	out := types.LearningResources{}
	for _, skill := range skills {
		links := b.catalog.LearningLinks[skill]
		byProvider := make(map[types.Provider]string, len(links))
		for provider, url := range links {
			byProvider[types.Provider(provider)] = url
		}
		out[skill] = byProvider
	}
	return out
}

// Health reports that the demo backend is available.
func (b *Backend) Health(_ context.Context) (string, error) {
	return HealthMessage, nil
}

func skillSet(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = true
		}
	}
	return set
}
