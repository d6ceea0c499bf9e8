package auth

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Permission strings are dot-segmented capability names such as
// "leases.create". Two wildcard forms are reserved: "*" grants every
// capability, "<module>.*" grants every capability within a module.
// Matching is deliberately two-level; there is no deeper path matching.
const (
	WildcardAll   = "*"
	WildcardSuffx = ".*"
)

// ParsePermissions deserializes a role's stored permission list. Malformed
// storage yields an empty set, never an error: a role whose permissions
// cannot be read grants nothing.
func ParsePermissions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var permissions []string
	if err := json.Unmarshal([]byte(raw), &permissions); err != nil {
		return []string{}
	}
	return permissions
}

// HasPermission reports whether the permission set authorizes the
// requested capability, honoring global and module wildcards.
func HasPermission(permissionSet []string, requested string) bool {
	for _, p := range permissionSet {
		if p == WildcardAll {
			return true
		}
		if p == requested {
			return true
		}
	}

	segments := strings.Split(requested, ".")
	if len(segments) < 2 {
		return false
	}

	moduleWildcard := segments[0] + WildcardSuffx
	for _, p := range permissionSet {
		if p == moduleWildcard {
			return true
		}
	}
	return false
}

// HasAnyPermission is the OR composition over required permissions.
func HasAnyPermission(permissionSet []string, required []string) bool {
	for _, r := range required {
		if HasPermission(permissionSet, r) {
			return true
		}
	}
	return false
}

// HasAllPermissions is the AND composition over required permissions.
func HasAllPermissions(permissionSet []string, required []string) bool {
	for _, r := range required {
		if !HasPermission(permissionSet, r) {
			return false
		}
	}
	return true
}

// RoleRepository resolves the stored permission list behind a user. It is
// an explicit dependency of the checker so tests can substitute it.
type RoleRepository interface {
	GetPermissionsForUser(userID int64) (string, error)
}

// PermissionChecker answers authorization questions for a concrete user.
// It holds no mutable state; every call reads through the repository.
type PermissionChecker struct {
	roles  RoleRepository
	logger *slog.Logger
}

func NewPermissionChecker(roles RoleRepository, logger *slog.Logger) *PermissionChecker {
	return &PermissionChecker{
		roles:  roles,
		logger: logger,
	}
}

// GetUserPermissions returns the user's parsed permission set. Lookup or
// parse failures fail closed: the result is an empty set, not an error.
func (c *PermissionChecker) GetUserPermissions(userID int64) []string {
	raw, err := c.roles.GetPermissionsForUser(userID)
	if err != nil {
		c.logger.Warn("failed to load permissions, denying all", "user_id", userID, "error", err)
		return []string{}
	}
	return ParsePermissions(raw)
}

// Can reports whether the user holds the requested capability.
func (c *PermissionChecker) Can(userID int64, permission string) bool {
	return HasPermission(c.GetUserPermissions(userID), permission)
}

// CanAny reports whether the user holds at least one of the capabilities.
func (c *PermissionChecker) CanAny(userID int64, permissions ...string) bool {
	return HasAnyPermission(c.GetUserPermissions(userID), permissions)
}

// CanAll reports whether the user holds every one of the capabilities.
func (c *PermissionChecker) CanAll(userID int64, permissions ...string) bool {
	return HasAllPermissions(c.GetUserPermissions(userID), permissions)
}
