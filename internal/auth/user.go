package auth

type User struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	RoleName    string   `json:"role_name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	return HasPermission(u.Permissions, permission)
}

func (u *User) HasAnyPermission(permissions []string) bool {
	return HasAnyPermission(u.Permissions, permissions)
}

func (u *User) HasAllPermissions(permissions []string) bool {
	return HasAllPermissions(u.Permissions, permissions)
}

func (u *User) IsAdmin() bool {
	return HasPermission(u.Permissions, WildcardAll)
}
