package enums

import "fmt"

// UserRole is the permission tier of a staff account.
type UserRole string

const (
	UserRoleAdminSistema UserRole = "admin_sistema"
	UserRoleAdminEmpresa UserRole = "admin_empresa"
	UserRoleGerente      UserRole = "gerente"
	UserRoleSupervisor   UserRole = "supervisor"
	UserRoleCaixa        UserRole = "caixa"
	UserRoleAtendente    UserRole = "atendente"
)

var validUserRoles = []UserRole{
	UserRoleAdminSistema,
	UserRoleAdminEmpresa,
	UserRoleGerente,
	UserRoleSupervisor,
	UserRoleCaixa,
	UserRoleAtendente,
}

// String implements fmt.Stringer.
func (v UserRole) String() string {
	return string(v)
}

// IsValid reports whether the value is a known UserRole.
func (v UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// IsAdmin reports whether the role administers the system or a company.
func (v UserRole) IsAdmin() bool {
	return v == UserRoleAdminSistema || v == UserRoleAdminEmpresa
}

// UserRoles returns the known roles ordered from most to least privileged.
func UserRoles() []UserRole {
	out := make([]UserRole, len(validUserRoles))
	copy(out, validUserRoles)
	return out
}
