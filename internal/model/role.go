package model

import (
	"fmt"
	"strings"
)

// Role is a user's privilege tier. Lower values carry more privilege.
type Role int

const (
	RoleSuperAdmin Role = iota + 1
	RoleAdmin
	RoleCoordinator
	RoleEditor
	RoleAssociateEditor
	RoleReviewer
	RoleAuthor
)

var roleNames = map[Role]string{
	RoleSuperAdmin:      "SuperAdmin",
	RoleAdmin:           "Admin",
	RoleCoordinator:     "Coordinator",
	RoleEditor:          "Editor",
	RoleAssociateEditor: "AssociateEditor",
	RoleReviewer:        "Reviewer",
	RoleAuthor:          "Author",
}

// Roles lists every role from most to least privileged.
func Roles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RoleCoordinator,
		RoleEditor,
		RoleAssociateEditor,
		RoleReviewer,
		RoleAuthor,
	}
}

func ParseRole(raw string) (Role, error) {
	trimmed := strings.TrimSpace(raw)
	for role, name := range roleNames {
		if strings.EqualFold(name, trimmed) {
			return role, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// HasAdminPrivilege reports whether the role is SuperAdmin or Admin.
func (r Role) HasAdminPrivilege() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// IsSuperAdmin reports whether the role is exactly SuperAdmin.
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: invalid role %d", ErrInvalidInput, int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
