package hrapi

import "time"

// User is the identity returned by the HR API. The role name is the sole
// input to access-control decisions.
type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Position  Position  `json:"position"`
	IsActive  bool      `json:"is_active"`
	HiredAt   time.Time `json:"hired_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleName returns the role name, empty when the user carries no role.
func (u User) RoleName() string {
	return u.Role.Name
}

// FullName joins the name fields for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Role is a named role reference.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Position describes the user's post and department.
type Position struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// Credentials is the payload of a successful authentication.
type Credentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Period is an evaluation period reference.
type Period struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Employee is a directory entry.
type Employee struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	IsActive   bool      `json:"is_active"`
	HiredAt    time.Time `json:"hired_at"`
}

// Department is an organizational unit.
type Department struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Positions int    `json:"positions"`
	Headcount int    `json:"headcount"`
}

// DepartmentSummary is a backend-computed aggregate consumed as-is.
type DepartmentSummary struct {
	Department   string  `json:"department"`
	Evaluations  int     `json:"evaluations"`
	AverageScore float64 `json:"average_score"`
}
