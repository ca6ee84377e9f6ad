package entities

// UserRole distinguishes the two sides of the marketplace
type UserRole string

const (
	UserRoleEmployee UserRole = "employee"
	UserRoleEmployer UserRole = "employer"
)

// User represents a worker or employer profile
type User struct {
	ID     string   `json:"id" db:"id"`
	Name   *string  `json:"name,omitempty" db:"name"`
	Role   UserRole `json:"role,omitempty" db:"role"`
	Rating *float64 `json:"rating,omitempty" db:"rating"`
	Bio    *string  `json:"bio,omitempty" db:"bio"`
}

// EmployerInfo is the employer panel shown from a job card: profile plus latest reviews
type EmployerInfo struct {
	Employer *User                `json:"employer"`
	Reviews  []ReviewWithReviewer `json:"reviews"`
}

// Identity is the authenticated caller on whose behalf a fetch or write runs
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// IsAuthenticated reports whether the identity carries a user id
func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}
