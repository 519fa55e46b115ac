package domain

import "time"

type JobStatus string

const (
	StatusActive   JobStatus = "active"
	StatusInactive JobStatus = "inactive"
)

func (s JobStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// JobDescription is one stored JD. JobTitle is a denormalized copy of the
// content title, kept for listing; the two are not forced to agree.
type JobDescription struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"`
	JobTitle    string     `gorm:"size:255;not null;index"`
	ContentJSON string     `gorm:"column:jd_content_json;type:text;not null"`
	CreatedAt   time.Time  `gorm:"not null"`
	ExpiresAt   *time.Time `gorm:"index"`
	Status      JobStatus  `gorm:"size:16;not null;default:active"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}

// Content deserializes the stored content blob.
func (j *JobDescription) Content() (*JobDescriptionContent, error) {
	return ParseContent([]byte(j.ContentJSON))
}

// JobDescriptionSummary is the lightweight projection returned by listing.
type JobDescriptionSummary struct {
	ID       uint   `json:"id"`
	JobTitle string `json:"job_title"`
}
