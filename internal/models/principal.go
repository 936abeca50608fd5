package models

// Role is the coarse capability tag carried in tokens and checked by route guards.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleMentor  Role = "MENTOR"
	RoleAdmin   Role = "ADMIN"
)

// RoleGrants lists, for every role, the roles it may act as.
// A role always acts as itself; ADMIN additionally passes MENTOR checks.
var RoleGrants = map[Role][]Role{
	RoleAdmin:   {RoleAdmin, RoleMentor},
	RoleMentor:  {RoleMentor},
	RoleStudent: {RoleStudent},
}

// CanActAs reports whether a principal holding r satisfies a check for target.
func (r Role) CanActAs(target Role) bool {
	for _, granted := range RoleGrants[r] {
		if granted == target {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	_, ok := RoleGrants[r]
	return ok
}

// Principal is anything that can authenticate: *Student, *Mentor or Admin.
type Principal interface {
	PrincipalID() string
	PrincipalRole() Role
	DisplayName() string
}

// PublicUser is the minimal projection handed back after authentication.
type PublicUser struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	ID   string `json:"id"`
}

func PublicUserOf(p Principal) PublicUser {
	return PublicUser{
		Name: p.DisplayName(),
		Role: p.PrincipalRole(),
		ID:   p.PrincipalID(),
	}
}

const (
	// AdminID is the fixed subject of tokens minted for the configured admin.
	AdminID   = "ADMIN_ID"
	AdminName = "System Admin"
)

// Admin is the configured administrator. It has no stored record.
type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func NewAdmin(email string) Admin {
	return Admin{ID: AdminID, Name: AdminName, Email: email, Role: RoleAdmin}
}

func (a Admin) PrincipalID() string { return AdminID }
func (a Admin) PrincipalRole() Role { return RoleAdmin }
func (a Admin) DisplayName() string { return AdminName }
