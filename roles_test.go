package lectures_test

import (
	"testing"

	lectures "github.com/Najite/lecture-reminder"
	"github.com/stretchr/testify/assert"
)

func TestRoleIsValid(t *testing.T) {
	assert.True(t, lectures.RoleStudent.IsValid())
	assert.True(t, lectures.RoleLecturer.IsValid())
	assert.True(t, lectures.RoleAdmin.IsValid())
	assert.False(t, lectures.Role("superuser").IsValid())
	assert.False(t, lectures.Role("").IsValid())
}

func TestRolePermissions(t *testing.T) {
	t.Run("course management is admin only", func(t *testing.T) {
		assert.True(t, lectures.RoleAdmin.CanManageCourses())
		assert.False(t, lectures.RoleLecturer.CanManageCourses())
		assert.False(t, lectures.RoleStudent.CanManageCourses())
	})

	t.Run("lecturers and admins schedule lectures", func(t *testing.T) {
		assert.True(t, lectures.RoleLecturer.CanScheduleLectures())
		assert.True(t, lectures.RoleAdmin.CanScheduleLectures())
		assert.False(t, lectures.RoleStudent.CanScheduleLectures())
	})

	t.Run("lecturers and admins take attendance", func(t *testing.T) {
		assert.True(t, lectures.RoleLecturer.CanTakeAttendance())
		assert.True(t, lectures.RoleAdmin.CanTakeAttendance())
		assert.False(t, lectures.RoleStudent.CanTakeAttendance())
	})

	t.Run("only students enroll", func(t *testing.T) {
		assert.True(t, lectures.RoleStudent.CanEnroll())
		assert.False(t, lectures.RoleLecturer.CanEnroll())
		assert.False(t, lectures.RoleAdmin.CanEnroll())
	})
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, lectures.RoleAdmin.IsAtLeast(lectures.RoleStudent))
	assert.True(t, lectures.RoleAdmin.IsAtLeast(lectures.RoleAdmin))
	assert.True(t, lectures.RoleLecturer.IsAtLeast(lectures.RoleStudent))
	assert.False(t, lectures.RoleStudent.IsAtLeast(lectures.RoleLecturer))
	assert.False(t, lectures.Role("ghost").IsAtLeast(lectures.RoleStudent))
	assert.False(t, lectures.RoleAdmin.IsAtLeast(lectures.Role("ghost")))
}

func TestParseRole(t *testing.T) {
	role, ok := lectures.ParseRole("lecturer")
	assert.True(t, ok)
	assert.Equal(t, lectures.RoleLecturer, role)

	_, ok = lectures.ParseRole("principal")
	assert.False(t, ok)
}

func TestAllRoles(t *testing.T) {
	roles := lectures.AllRoles()
	assert.Equal(t, []lectures.Role{
		lectures.RoleStudent,
		lectures.RoleLecturer,
		lectures.RoleAdmin,
	}, roles)
}
