package domain

// Role gates which trips are visible and which views are reachable.
type Role string

const (
	RoleDriver  Role = "driver"
	RoleManager Role = "manager"
)

// Identity is the authenticated employee for the current session. It is
// persisted across reloads in the local store but is not itself trip data.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
