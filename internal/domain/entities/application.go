package entities

import "time"

// Application is a candidate's application to a job.
type Application struct {
	ID              string    `json:"_id"`
	RecruiterUserID string    `json:"recruiterUserID"`
	Name            string    `json:"name"`
	Email           string    `json:"email" validate:"omitempty,email"`
	CandidateUserID string    `json:"candidateUserID"`
	Status          Statuses  `json:"status"`
	JobID           string    `json:"jobID"`
	JobAppliedDate  string    `json:"jobAppliedDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ApplicationSchema guards the applications collection.
var ApplicationSchema = NewSchema[Application]("applications",
	"recruiterUserID",
	"name",
	"email",
	"candidateUserID",
	"status",
	"jobID",
	"jobAppliedDate",
)
