package domain

import (
	"encoding/json"
	"fmt"
)

// JobDescriptionContent is the structured JD produced by the generator or
// entered by hand. Title is carried under "job_title", the key the
// generation prompt asks for.
type JobDescriptionContent struct {
	Title                   string   `json:"job_title" validate:"required" description:"The final job title, can be the input title or a refined one"`
	CompanySummary          string   `json:"company_summary,omitempty" description:"Brief summary of the company"`
	RoleSummary             string   `json:"role_summary" validate:"required" description:"Brief summary of the role"`
	KeyResponsibilities     []string `json:"key_responsibilities" validate:"required" description:"List of key responsibilities"`
	RequiredQualifications  []string `json:"required_qualifications" validate:"required" description:"List of required skills and qualifications"`
	PreferredQualifications []string `json:"preferred_qualifications" required:"false" description:"List of preferred skills and qualifications"`
	Benefits                []string `json:"benefits" required:"false" description:"List of benefits offered"`
}

// Normalize replaces absent lists with empty ones so a stored blob never
// mixes null and [] for the same field.
func (c *JobDescriptionContent) Normalize() {
	if c.KeyResponsibilities == nil {
		c.KeyResponsibilities = []string{}
	}
	if c.RequiredQualifications == nil {
		c.RequiredQualifications = []string{}
	}
	if c.PreferredQualifications == nil {
		c.PreferredQualifications = []string{}
	}
	if c.Benefits == nil {
		c.Benefits = []string{}
	}
}

// Marshal normalizes a copy of the content and serializes it for storage.
func (c JobDescriptionContent) Marshal() ([]byte, error) {
	c.Normalize()
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal jd content: %w", err)
	}
	return b, nil
}

// ParseContent decodes a stored or generated content blob. The result is
// normalized but not validated.
func ParseContent(data []byte) (*JobDescriptionContent, error) {
	var c JobDescriptionContent
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse jd content: %w", err)
	}
	c.Normalize()
	return &c, nil
}
