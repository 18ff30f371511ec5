//nolint:revive // types is a standard Go package name pattern
package types

// JobType classifies a job posting.
type JobType string

const (
	JobTypeInternship JobType = "INTERNSHIP"
	JobTypeFresher    JobType = "FRESHER"
)

// JobPosting is a single backend job recommendation.
type JobPosting struct {
	Title           string   `json:"title" validate:"required"`
	JobType         JobType  `json:"job_type" validate:"oneof=INTERNSHIP FRESHER"`
	ExperienceLevel string   `json:"experience_level"`
	Skills          []string `json:"skills"`
	FinalScore      float64  `json:"final_score" validate:"gte=0,lte=100"`
	LinkedInLink    string   `json:"linkedin_link" validate:"omitempty,url"`
	NaukriLink      string   `json:"naukri_link" validate:"omitempty,url"`
}

// Validate validates the JobPosting using the validator.
func (j *JobPosting) Validate() error {
	return validate.Struct(j)
}

// JobRecommendations is the response of a job matching request.
type JobRecommendations struct {
	RecommendedJobs []JobPosting `json:"recommended_jobs" validate:"dive"`
}

// Validate validates every posting in the response.
func (r *JobRecommendations) Validate() error {
	return validate.Struct(r)
}
