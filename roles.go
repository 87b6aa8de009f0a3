package lectures

// Role is a profile's application role
type Role string

const (
	// RoleStudent can enroll in courses and view their own attendance
	RoleStudent Role = "student"
	// RoleLecturer can schedule lectures and take attendance for their courses
	RoleLecturer Role = "lecturer"
	// RoleAdmin manages courses, enrollment, and every profile
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageCourses checks if this role can create, edit, or delete courses
func (r Role) CanManageCourses() bool {
	return r == RoleAdmin
}

// CanScheduleLectures checks if this role can schedule or move lectures
func (r Role) CanScheduleLectures() bool {
	switch r {
	case RoleLecturer, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanTakeAttendance checks if this role can mark attendance records
func (r Role) CanTakeAttendance() bool {
	switch r {
	case RoleLecturer, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanEnroll checks if this role can self-enroll into a course
func (r Role) CanEnroll() bool {
	return r == RoleStudent
}

// IsAtLeast checks if this role meets the minimum required level
func (r Role) IsAtLeast(minRole Role) bool {
	roleHierarchy := map[Role]int{
		RoleStudent:  0,
		RoleLecturer: 1,
		RoleAdmin:    2,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// AllRoles returns the predefined roles in hierarchical order
func AllRoles() []Role {
	return []Role{
		RoleStudent,
		RoleLecturer,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
