package entities

import "time"

// Job is a posting published by a recruiter.
type Job struct {
	ID          string      `json:"_id"`
	CompanyName string      `json:"companyName"`
	Title       string      `json:"title"`
	Location    string      `json:"location"`
	Type        string      `json:"type"`
	Experience  string      `json:"experience"`
	Description string      `json:"description"`
	Skills      string      `json:"skills"`
	RecruiterID string      `json:"recruiterId"`
	Applicants  []Applicant `json:"applicants" validate:"dive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Applicant is a candidate listed on a job posting.
type Applicant struct {
	Name   string `json:"name"`
	Email  string `json:"email" validate:"omitempty,email"`
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// JobSchema guards the jobs collection.
var JobSchema = NewSchema[Job]("jobs",
	"companyName",
	"title",
	"location",
	"type",
	"experience",
	"description",
	"skills",
	"recruiterId",
	"applicants",
)

