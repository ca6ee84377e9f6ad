package entities

// ApplicationStatus represents where a worker's application stands
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is one of the known statuses
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application represents a worker's request to be considered for a job
type Application struct {
	ID       string            `json:"id" db:"id"`
	JobID    string            `json:"job_id" db:"job_id"`
	WorkerID string            `json:"worker_id" db:"worker_id"`
	Status   ApplicationStatus `json:"status" db:"status"`
}

// Applicant pairs an application with the applying worker's profile
type Applicant struct {
	Application *Application `json:"application"`
	Worker      *User        `json:"worker,omitempty"`
}
