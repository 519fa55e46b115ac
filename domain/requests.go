package domain

import "time"

// GenerateRequest carries the free-text inputs for a generation call.
type GenerateRequest struct {
	JobTitleInput            string   `json:"job_title_input" validate:"required"`
	KeyResponsibilitiesInput []string `json:"key_responsibilities_input" validate:"required"`
	RequiredSkillsInput      []string `json:"required_skills_input" validate:"required"`
	CompanyDescriptionInput  string   `json:"company_description_input"`
}

type CreateRequest struct {
	JobTitle  string                 `json:"job_title" validate:"required"`
	JDContent *JobDescriptionContent `json:"jd_content" validate:"required"`
	ExpiresAt *Timestamp             `json:"expires_at"`
}

// UpdateRequest is a partial update. A nil field, whether absent or sent as
// null, leaves the stored value as it is.
type UpdateRequest struct {
	JobTitle  *string                `json:"job_title" validate:"omitnil,min=1"`
	JDContent *JobDescriptionContent `json:"jd_content"`
	ExpiresAt *Timestamp             `json:"expires_at"`
	Status    *JobStatus             `json:"status" validate:"omitnil,jobstatus"`
}

func (r UpdateRequest) Empty() bool {
	return r.JobTitle == nil && r.JDContent == nil && r.ExpiresAt == nil && r.Status == nil
}

// ListQuery bounds a listing. There is no other pagination.
type ListQuery struct {
	Offset int `form:"offset,default=0" json:"offset" validate:"min=0"`
	Limit  int `form:"limit,default=100" json:"limit" validate:"min=1,max=1000"`
}

type CreateResponse struct {
	JobID   uint   `json:"job_id"`
	Message string `json:"message"`
}

// JobDescriptionResponse is the full record as returned by get and update.
type JobDescriptionResponse struct {
	ID        uint                  `json:"id"`
	JobTitle  string                `json:"job_title"`
	JDContent JobDescriptionContent `json:"jd_content"`
	CreatedAt time.Time             `json:"created_at"`
	ExpiresAt *time.Time            `json:"expires_at"`
	Status    JobStatus             `json:"status"`
}

// NewJobDescriptionResponse deserializes the stored content into a response.
func NewJobDescriptionResponse(jd *JobDescription) (*JobDescriptionResponse, error) {
	content, err := jd.Content()
	if err != nil {
		return nil, err
	}
	return &JobDescriptionResponse{
		ID:        jd.ID,
		JobTitle:  jd.JobTitle,
		JDContent: *content,
		CreatedAt: jd.CreatedAt,
		ExpiresAt: jd.ExpiresAt,
		Status:    jd.Status,
	}, nil
}
