package entities

import "time"

// Roles a profile can take.
const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
)

// Profile is the onboarding record of a user, either a candidate or a recruiter.
type Profile struct {
	ID                  string         `json:"_id"`
	UserID              string         `json:"userId"`
	Role                string         `json:"role" validate:"omitempty,oneof=candidate recruiter"`
	Email               string         `json:"email" validate:"omitempty,email"`
	IsPremiumUser       bool           `json:"isPremiumUser"`
	MemberShipType      string         `json:"memberShipType"`
	MemberShipStartDate string         `json:"memberShipStartDate"`
	MemberShipEndDate   string         `json:"memberShipEndDate"`
	RecruiterInfo       *RecruiterInfo `json:"recruiterInfo,omitempty"`
	CandidateInfo       *CandidateInfo `json:"candidateInfo,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// RecruiterInfo holds the recruiter half of a profile.
type RecruiterInfo struct {
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	CompanyRole string `json:"companyRole"`
}

// CandidateInfo holds the candidate half of a profile.
type CandidateInfo struct {
	Name                string `json:"name"`
	CurrentJobLocation  string `json:"currentJobLocation"`
	PreferedJobLocation string `json:"preferedJobLocation"`
	CurrentSalary       string `json:"currentSalary"`
	NoticePeriod        string `json:"noticePeriod"`
	Skills              string `json:"skills"`
	CurrentCompany      string `json:"currentCompany"`
	PreviousCompanies   string `json:"previousCompanies"`
	TotalExperience     string `json:"totalExperience"`
	College             string `json:"college"`
	CollegeLocation     string `json:"collegeLocation"`
	GraduatedYear       string `json:"graduatedYear"`
	LinkedinProfile     string `json:"linkedinProfile"`
	GithubProfile       string `json:"githubProfile"`
	Resume              string `json:"resume"`
	IsPremiumUser       bool   `json:"isPremiumUser,omitempty"`
}

// ProfileSchema guards the profiles collection.
var ProfileSchema = NewSchema[Profile]("profiles",
	"userId",
	"role",
	"email",
	"isPremiumUser",
	"memberShipType",
	"memberShipStartDate",
	"memberShipEndDate",
	"recruiterInfo",
	"candidateInfo",
)
