package models

// Role classifies a workspace user. The set is fixed at signup time.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User is the locally known user record returned by the backend on login.
// Created at signup, read at login, otherwise immutable from the client's
// perspective.
//
// The external (BaaS) identifier may arrive under several column names
// depending on which backend revision wrote the row; see
// ExternalIDCandidates.
type User struct {
	ID         FlexID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`

	SupabaseUserID string `json:"supabase_user_id,omitempty"`
	SupabaseID     string `json:"supabase_id,omitempty"`
	AuthUserID     string `json:"auth_user_id,omitempty"`
	UUID           string `json:"uuid,omitempty"`
	UserUUID       string `json:"user_uuid,omitempty"`
}

// ExternalIDCandidates returns the values of the candidate external-identity
// fields in the fixed resolution order. Empty values are included so the
// caller sees the full, ordered list.
func (u *User) ExternalIDCandidates() []string {
	return []string{u.SupabaseUserID, u.SupabaseID, u.AuthUserID, u.UUID, u.UserUUID}
}

// ExternalIDColumns lists the employee-table column names scanned during the
// indirect identity lookup, in the same order as ExternalIDCandidates.
var ExternalIDColumns = []string{"supabase_user_id", "supabase_id", "auth_user_id", "uuid", "user_uuid"}
