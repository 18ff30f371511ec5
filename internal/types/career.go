//nolint:revive // types is a standard Go package name pattern
package types

// Provider names a learning resource site.
type Provider string

const (
	ProviderYouTube   Provider = "youtube"
	ProviderCoursera  Provider = "coursera"
	ProviderUdemy     Provider = "udemy"
	ProviderGFG       Provider = "gfg"
	ProviderW3Schools Provider = "w3schools"
)

// Providers lists the known learning resource providers in display order.
var Providers = []Provider{
	ProviderYouTube,
	ProviderCoursera,
	ProviderUdemy,
	ProviderGFG,
	ProviderW3Schools,
}

// Label returns the short display name of a provider.
func (p Provider) Label() string {
	switch p {
	case ProviderYouTube:
		return "YouTube"
	case ProviderCoursera:
		return "Coursera"
	case ProviderUdemy:
		return "Udemy"
	case ProviderGFG:
		return "GFG"
	case ProviderW3Schools:
		return "W3"
	default:
		return string(p)
	}
}

// LearningResources maps a skill to provider links. Providers are optional per skill.
type LearningResources map[string]map[Provider]string

// CareerStep is a single current-role to next-role transition with its skill gap.
type CareerStep struct {
	CurrentRole       string            `json:"current_role" validate:"required"`
	NextRole          string            `json:"next_role" validate:"required"`
	Category          string            `json:"category,omitempty"`
	MatchScore        float64           `json:"match_score,omitempty"`
	MissingSkills     []string          `json:"missing_skills"`
	LearningResources LearningResources `json:"learning_resources"`
}

// Links returns the provider links for a skill in provider display order.
func (s *CareerStep) Links(skill string) []ResourceLink {
	byProvider := s.LearningResources[skill]
	if len(byProvider) == 0 {
		return nil
	}
	links := make([]ResourceLink, 0, len(byProvider))
	for _, p := range Providers {
		if u := byProvider[p]; u != "" {
			links = append(links, ResourceLink{Provider: p, URL: u})
		}
	}
	return links
}

// ResourceLink is one provider link for a skill.
type ResourceLink struct {
	Provider Provider `json:"provider"`
	URL      string   `json:"url"`
}

// CareerRecommendation is the response of a career path request.
type CareerRecommendation struct {
	Primary      CareerStep   `json:"primary_path"`
	TechPaths    []CareerStep `json:"tech_paths" validate:"dive"`
	NonTechPaths []CareerStep `json:"non_tech_paths" validate:"dive"`
}

// Validate validates the CareerRecommendation using the validator.
func (r *CareerRecommendation) Validate() error {
	return validate.Struct(r)
}

// WithDefaults returns a copy whose alternate path lists are never nil.
func (r CareerRecommendation) WithDefaults() CareerRecommendation {
	if r.TechPaths == nil {
		r.TechPaths = []CareerStep{}
	}
	if r.NonTechPaths == nil {
		r.NonTechPaths = []CareerStep{}
	}
	if r.Primary.MissingSkills == nil {
		r.Primary.MissingSkills = []string{}
	}
	return r
}

// CareerRequest is the body of a career path request.
type CareerRequest struct {
	Skills []string `json:"skills" validate:"required,min=1"`
}
